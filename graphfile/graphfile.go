// Package graphfile reads e-graphs from files.
//
// Two formats are supported. The YAML format names each class and lists its
// candidate nodes as sequences of an operation followed by child class names:
//
//	roots: [r]
//	classes:
//	  r:
//	    - [VecAdd, b, c]
//	    - ["+", b, c]
//	  b: [[VecMul, d, e]]
//	  c: [[c]]
//	  d: [[d]]
//	  e: [[e]]
//
// The JSON format is the serialized e-graph format written by egg, where each
// node names its class and refers to child nodes by id.
package graphfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benbjohnson/vecx"
)

// ErrUnknownFormat is returned by Open for unrecognized file extensions.
var ErrUnknownFormat = errors.New("graphfile: unknown format")

// File represents a decoded graph file.
type File struct {
	Graph *vecx.EGraph
	Roots []vecx.ClassID

	names []string
	ids   map[string]vecx.ClassID
}

func newFile() *File {
	return &File{
		Graph: vecx.NewEGraph(),
		ids:   make(map[string]vecx.ClassID),
	}
}

// class returns the id for a class name, creating an empty class on first use.
func (f *File) class(name string) vecx.ClassID {
	if id, ok := f.ids[name]; ok {
		return id
	}
	id := f.Graph.NewClass()
	f.ids[name] = id
	f.names = append(f.names, name)
	return id
}

// Lookup returns the class id for a class name.
func (f *File) Lookup(name string) (vecx.ClassID, bool) {
	id, ok := f.ids[name]
	return id, ok
}

// Name returns the name of a class as it appears in the file.
func (f *File) Name(id vecx.ClassID) string {
	if id < 0 || int(id) >= len(f.names) {
		return ""
	}
	return f.names[id]
}

// Open reads a graph file, choosing the format by extension.
func Open(path string) (*File, error) {
	var read func(io.Reader) (*File, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		read = ReadYAML
	case ".json":
		read = ReadJSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
