package graphfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/benbjohnson/vecx"
	"github.com/tidwall/gjson"
)

// ReadJSON decodes a graph from egg's serialized e-graph format:
//
//	{
//	  "nodes": {
//	    "<node>": {"op": "VecAdd", "children": ["<node>", ...], "eclass": "<class>"},
//	    ...
//	  },
//	  "root_eclasses": ["<class>", ...]
//	}
//
// Children refer to nodes and resolve to the class that owns them. Class ids
// are assigned in the order classes are first seen. Other fields, such as
// node costs and class data, are ignored.
func ReadJSON(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	} else if !gjson.ValidBytes(data) {
		return nil, errors.New("graphfile: invalid json")
	}

	nodes := gjson.GetBytes(data, "nodes")
	if !nodes.IsObject() {
		return nil, errors.New("graphfile: nodes must be an object")
	}

	// Map each node to its class first since children may refer forward.
	f := newFile()
	owner := make(map[string]vecx.ClassID)
	nodes.ForEach(func(key, value gjson.Result) bool {
		eclass := value.Get("eclass")
		if !eclass.Exists() {
			err = fmt.Errorf("graphfile: node %q: missing eclass", key.String())
			return false
		}
		owner[key.String()] = f.class(eclass.String())
		return true
	})
	if err != nil {
		return nil, err
	}

	nodes.ForEach(func(key, value gjson.Result) bool {
		op := value.Get("op")
		if !op.Exists() {
			err = fmt.Errorf("graphfile: node %q: missing op", key.String())
			return false
		}

		var children []vecx.ClassID
		value.Get("children").ForEach(func(_, child gjson.Result) bool {
			id, ok := owner[child.String()]
			if !ok {
				err = fmt.Errorf("graphfile: node %q: unknown child node %q", key.String(), child.String())
				return false
			}
			children = append(children, id)
			return true
		})
		if err != nil {
			return false
		}

		f.Graph.Add(owner[key.String()], op.String(), children...)
		return true
	})
	if err != nil {
		return nil, err
	}

	gjson.GetBytes(data, "root_eclasses").ForEach(func(_, v gjson.Result) bool {
		id, ok := f.Lookup(v.String())
		if !ok {
			err = fmt.Errorf("graphfile: unknown root class %q", v.String())
			return false
		}
		f.Roots = append(f.Roots, id)
		return true
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
