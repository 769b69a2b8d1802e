package vecx_test

import (
	"testing"

	"github.com/benbjohnson/vecx"
	"github.com/google/go-cmp/cmp"
)

func TestDependencyMap_Select(t *testing.T) {
	const (
		A = vecx.ClassID(iota)
		B
		C
		D
		E
	)

	t.Run("Direct", func(t *testing.T) {
		m0 := vecx.NewDependencyMap()
		m1, ok := m0.Select(A, []vecx.ClassID{C, B, C})
		if !ok {
			t.Fatal("expected selection to succeed")
		} else if diff := cmp.Diff(m1.Get(A), []vecx.ClassID{B, C}); diff != "" {
			t.Fatal(diff)
		} else if got, exp := m0.Len(), 0; got != exp {
			t.Fatalf("original Len()=%d, expected %d", got, exp)
		}
	})

	t.Run("Leaf", func(t *testing.T) {
		m, ok := vecx.NewDependencyMap().Select(A, nil)
		if !ok {
			t.Fatal("expected selection to succeed")
		} else if got, exp := m.Len(), 1; got != exp {
			t.Fatalf("Len()=%d, expected %d", got, exp)
		} else if got := m.Get(A); len(got) != 0 {
			t.Fatalf("unexpected dependencies: %v", got)
		}
	})

	// Ensure dependents of a resolved class inherit its new dependencies.
	t.Run("Propagate", func(t *testing.T) {
		m, _ := vecx.NewDependencyMap().Select(A, []vecx.ClassID{B, C})
		m, ok := m.Select(B, []vecx.ClassID{D})
		if !ok {
			t.Fatal("expected selection to succeed")
		} else if diff := cmp.Diff(m.Get(A), []vecx.ClassID{B, C, D}); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(m.Get(B), []vecx.ClassID{D}); diff != "" {
			t.Fatal(diff)
		} else if got, exp := m.String(), `{0: [1 2 3], 1: [3]}`; got != exp {
			t.Fatalf("String()=%s, expected %s", got, exp)
		}
		m.Check()
	})

	t.Run("SelfReference", func(t *testing.T) {
		if _, ok := vecx.NewDependencyMap().Select(A, []vecx.ClassID{B, A}); ok {
			t.Fatal("expected cycle")
		}
	})

	t.Run("MutualReference", func(t *testing.T) {
		m, _ := vecx.NewDependencyMap().Select(A, []vecx.ClassID{B})
		if _, ok := m.Select(B, []vecx.ClassID{A}); ok {
			t.Fatal("expected cycle")
		}
	})

	t.Run("IndirectReference", func(t *testing.T) {
		m, _ := vecx.NewDependencyMap().Select(A, []vecx.ClassID{B})
		m, _ = m.Select(B, []vecx.ClassID{C})
		if _, ok := m.Select(C, []vecx.ClassID{D, A}); ok {
			t.Fatal("expected cycle")
		}
	})

	// Ensure a class referring to an already resolved class inherits that
	// class's dependencies so cycles closed through it are still detected.
	t.Run("ResolvedChild", func(t *testing.T) {
		m, _ := vecx.NewDependencyMap().Select(A, []vecx.ClassID{B, C})
		m, _ = m.Select(B, []vecx.ClassID{D})
		m, ok := m.Select(C, []vecx.ClassID{B})
		if !ok {
			t.Fatal("expected selection to succeed")
		} else if diff := cmp.Diff(m.Get(C), []vecx.ClassID{B, D}); diff != "" {
			t.Fatal(diff)
		}

		if _, ok := m.Select(D, []vecx.ClassID{C}); ok {
			t.Fatal("expected cycle")
		}
		if _, ok := m.Select(D, []vecx.ClassID{E}); !ok {
			t.Fatal("expected selection to succeed")
		}
	})

	// Ensure a rejected selection leaves the receiver untouched.
	t.Run("Persistent", func(t *testing.T) {
		m, _ := vecx.NewDependencyMap().Select(A, []vecx.ClassID{B})
		before := m.String()
		if _, ok := m.Select(B, []vecx.ClassID{A}); ok {
			t.Fatal("expected cycle")
		} else if _, ok := m.Select(B, []vecx.ClassID{C}); !ok {
			t.Fatal("expected selection to succeed")
		} else if got := m.String(); got != before {
			t.Fatalf("map modified: %s, expected %s", got, before)
		}
	})
}
