package graphfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/benbjohnson/vecx"
	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Roots   []string  `yaml:"roots"`
	Classes yaml.Node `yaml:"classes"`
}

// ReadYAML decodes a graph from the YAML format. Class ids are assigned in
// the order classes appear in the document.
func ReadYAML(r io.Reader) (*File, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); errors.Is(err, io.EOF) {
		return nil, errors.New("graphfile: empty document")
	} else if err != nil {
		return nil, fmt.Errorf("graphfile: decode yaml: %w", err)
	} else if doc.Classes.Kind != yaml.MappingNode {
		return nil, errors.New("graphfile: classes must be a mapping")
	}

	type class struct {
		id    vecx.ClassID
		name  string
		nodes [][]string
	}

	// Declare every class before adding nodes so children may refer forward.
	f := newFile()
	var classes []class
	for i := 0; i+1 < len(doc.Classes.Content); i += 2 {
		key, value := doc.Classes.Content[i], doc.Classes.Content[i+1]
		if _, ok := f.ids[key.Value]; ok {
			return nil, fmt.Errorf("graphfile: line %d: duplicate class %q", key.Line, key.Value)
		}

		var nodes [][]string
		if err := value.Decode(&nodes); err != nil {
			return nil, fmt.Errorf("graphfile: class %q: %w", key.Value, err)
		}
		classes = append(classes, class{id: f.class(key.Value), name: key.Value, nodes: nodes})
	}

	for _, c := range classes {
		for _, n := range c.nodes {
			if len(n) == 0 {
				return nil, fmt.Errorf("graphfile: class %q: node has no operation", c.name)
			}

			var children []vecx.ClassID
			for _, name := range n[1:] {
				id, ok := f.Lookup(name)
				if !ok {
					return nil, fmt.Errorf("graphfile: class %q: unknown child class %q", c.name, name)
				}
				children = append(children, id)
			}
			f.Graph.Add(c.id, n[0], children...)
		}
	}

	for _, name := range doc.Roots {
		id, ok := f.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("graphfile: unknown root class %q", name)
		}
		f.Roots = append(f.Roots, id)
	}
	return f, nil
}
