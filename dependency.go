package vecx

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/benbjohnson/immutable"
)

// DependencyMap tracks, for each resolved class, the set of classes it depends
// on directly or transitively given the choices made so far on a branch.
//
// DependencyMap is persistent. Select returns a new map and never modifies
// the receiver so forked branches can share the same underlying structure.
type DependencyMap struct {
	m *immutable.SortedMap // ClassID -> classSet
}

// NewDependencyMap returns an empty dependency map.
func NewDependencyMap() DependencyMap {
	return DependencyMap{m: immutable.NewSortedMap(&classIDComparer{})}
}

// Len returns the number of classes with a recorded dependency set.
func (d DependencyMap) Len() int { return d.m.Len() }

// Get returns the dependency set of id in ascending order.
func (d DependencyMap) Get(id ClassID) []ClassID {
	if v, ok := d.m.Get(id); ok {
		return v.(classSet)
	}
	return nil
}

// Select records that id has been resolved to a node with the given children.
//
// The dependency set of id becomes its children plus everything those
// children already depend on. Every class that depends on id inherits the
// same set. Returns false if the choice would make any class depend on itself,
// in which case the returned map must be discarded.
func (d DependencyMap) Select(id ClassID, children []ClassID) (DependencyMap, bool) {
	deps := newClassSet(children)
	for _, child := range children {
		deps = deps.union(d.Get(child))
	}
	if deps.contains(id) {
		return d, false
	}

	m := d.m.Set(id, deps)
	itr := d.m.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			break
		}
		key, set := k.(ClassID), v.(classSet)
		if key == id || !set.contains(id) {
			continue
		}

		merged := set.union(deps)
		if merged.contains(key) {
			return d, false
		}
		m = m.Set(key, merged)
	}
	return DependencyMap{m: m}, true
}

// Check panics if any class is found to depend on itself.
func (d DependencyMap) Check() {
	itr := d.m.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			return
		}
		assert(!v.(classSet).contains(k.(ClassID)), "dependency map: class %d depends on itself", k)
	}
}

// String returns the string representation of the map.
func (d DependencyMap) String() string {
	var buf bytes.Buffer
	buf.WriteRune('{')
	itr := d.m.Iterator()
	for i := 0; ; i++ {
		k, v := itr.Next()
		if k == nil {
			break
		} else if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%d: %v", k, []ClassID(v.(classSet)))
	}
	buf.WriteRune('}')
	return buf.String()
}

// classSet is a sorted, duplicate-free set of class ids. Never modified in
// place once constructed.
type classSet []ClassID

func newClassSet(ids []ClassID) classSet {
	s := slices.Clone(ids)
	slices.Sort(s)
	return classSet(slices.Compact(s))
}

func (s classSet) contains(id ClassID) bool {
	_, ok := slices.BinarySearch(s, id)
	return ok
}

// union returns the union of s and other as a new set.
func (s classSet) union(other []ClassID) classSet {
	if len(other) == 0 {
		return s
	}
	u := make(classSet, 0, len(s)+len(other))
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] < other[j]:
			u = append(u, s[i])
			i++
		case s[i] > other[j]:
			u = append(u, other[j])
			j++
		default:
			u = append(u, s[i])
			i, j = i+1, j+1
		}
	}
	u = append(u, s[i:]...)
	return append(u, other[j:]...)
}

// classIDComparer compares two class ids. Implements immutable.Comparer.
type classIDComparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b, and
// returns 0 if a is equal to b. Panic if a or b is not a ClassID.
func (c *classIDComparer) Compare(a, b interface{}) int {
	if i, j := a.(ClassID), b.(ClassID); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}

// intComparer compares two integers. Implements immutable.Comparer.
type intComparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b, and
// returns 0 if a is equal to b. Panic if a or b is not an int.
func (c *intComparer) Compare(a, b interface{}) int {
	if i, j := a.(int), b.(int); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}
