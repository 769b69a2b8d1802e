package vecx

import (
	"bytes"
	"fmt"
	"strings"
)

// ClassID identifies an equivalence class within a graph.
type ClassID int

// Node represents a single operation whose operands are equivalence classes.
// Nodes are treated as immutable once added to a graph.
type Node struct {
	Op       string
	Children []ClassID
}

// String returns the string representation of the node, e.g. "(VecAdd 1 2)".
func (n Node) String() string {
	if len(n.Children) == 0 {
		return n.Op
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "(%s", n.Op)
	for _, child := range n.Children {
		fmt.Fprintf(&buf, " %d", child)
	}
	buf.WriteString(")")
	return buf.String()
}

// Graph represents a read-only view of an equality-saturation graph.
//
// The candidate list for a class must remain stable for the duration of an
// extraction. Unknown classes return no candidates.
type Graph interface {
	Candidates(id ClassID) []Node
}

// Ensure type implements interface.
var _ Graph = (*EGraph)(nil)

// EGraph is an in-memory arena of equivalence classes addressed by ClassID.
//
// EGraph is not an equality-saturation engine. It only stores classes and
// their candidate nodes so that they can be queried during extraction.
type EGraph struct {
	classes [][]Node
	memo    map[string]ClassID // hash-consed nodes added via AddExpr
}

// NewEGraph returns a new, empty instance of EGraph.
func NewEGraph() *EGraph {
	return &EGraph{memo: make(map[string]ClassID)}
}

// Len returns the number of classes in the graph.
func (g *EGraph) Len() int { return len(g.classes) }

// NewClass allocates a new empty class and returns its identifier.
func (g *EGraph) NewClass() ClassID {
	g.classes = append(g.classes, nil)
	return ClassID(len(g.classes) - 1)
}

// Add appends a candidate node to an existing class. Panic if id is unknown.
func (g *EGraph) Add(id ClassID, op string, children ...ClassID) {
	assert(g.contains(id), "add: unknown class: %d", id)
	g.classes[id] = append(g.classes[id], Node{
		Op:       op,
		Children: append([]ClassID(nil), children...),
	})
}

// AddNode allocates a new class holding a single node.
func (g *EGraph) AddNode(op string, children ...ClassID) ClassID {
	id := g.NewClass()
	g.Add(id, op, children...)
	return id
}

// Candidates returns the candidate nodes for a class.
func (g *EGraph) Candidates(id ClassID) []Node {
	if !g.contains(id) {
		return nil
	}
	return g.classes[id]
}

// AddExpr adds each node of expr to the graph and returns the class of the
// root node. Identical subexpressions share a single class.
func (g *EGraph) AddExpr(expr Expr) ClassID {
	assert(len(expr) > 0, "add expr: empty expression")
	ids := g.addOperands(expr)
	return g.intern(g.node(expr, len(expr)-1, ids))
}

// AddEquivalent adds the root of expr as an additional candidate of the
// existing class id. Operands of the root are added as with AddExpr.
func (g *EGraph) AddEquivalent(id ClassID, expr Expr) {
	assert(len(expr) > 0, "add equivalent: empty expression")
	ids := g.addOperands(expr)
	n := g.node(expr, len(expr)-1, ids)
	g.Add(id, n.Op, n.Children...)
}

// addOperands interns every node of expr except the root. Returns the class
// assigned to each expression index.
func (g *EGraph) addOperands(expr Expr) []ClassID {
	ids := make([]ClassID, len(expr))
	for i := 0; i < len(expr)-1; i++ {
		ids[i] = g.intern(g.node(expr, i, ids))
	}
	return ids
}

func (g *EGraph) node(expr Expr, i int, ids []ClassID) Node {
	n := Node{Op: expr[i].Op}
	for _, child := range expr[i].Children {
		n.Children = append(n.Children, ids[child])
	}
	return n
}

// intern returns the class holding an identical node or allocates a new one.
func (g *EGraph) intern(n Node) ClassID {
	key := n.String()
	if id, ok := g.memo[key]; ok {
		return id
	}
	id := g.AddNode(n.Op, n.Children...)
	g.memo[key] = id
	return id
}

func (g *EGraph) contains(id ClassID) bool {
	return id >= 0 && int(id) < len(g.classes)
}

// Dump returns the contents of the graph as a string.
func (g *EGraph) Dump() string {
	var buf bytes.Buffer
	for id, nodes := range g.classes {
		a := make([]string, len(nodes))
		for i, n := range nodes {
			a[i] = n.String()
		}
		fmt.Fprintf(&buf, "%d: [%s]\n", id, strings.Join(a, ", "))
	}
	return buf.String()
}
