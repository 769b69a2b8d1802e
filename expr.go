package vecx

import (
	"bytes"
	"fmt"
	"strings"
)

// ENode represents a single operation within a flattened expression. Children
// refer to positions of earlier nodes in the same Expr.
type ENode struct {
	Op       string
	Children []int
}

// Expr represents an expression flattened into a single bottom-up buffer.
// Every child index is strictly less than the index of the node referring to
// it and the root is the last node.
type Expr []ENode

// Root returns the index of the root node. Returns -1 if expr is empty.
func (expr Expr) Root() int { return len(expr) - 1 }

// Validate returns an error if any node refers to a position that does not
// precede it.
func (expr Expr) Validate() error {
	for i, n := range expr {
		for _, child := range n.Children {
			if child < 0 || child >= i {
				return fmt.Errorf("vecx: node %d (%s) refers to invalid position %d", i, n.Op, child)
			}
		}
	}
	return nil
}

// Cost recomputes the total cost of the expression under model.
// Returns false if any node carries an excluded operation.
func (expr Expr) Cost(model CostModel) (int, bool) {
	var total int
	for _, n := range expr {
		delta, ok := model.Cost(n.Op)
		if !ok {
			return 0, false
		}
		total += delta
	}
	return total, true
}

// String returns the expression rendered as an S-expression.
func (expr Expr) String() string {
	if len(expr) == 0 {
		return ""
	}
	var buf bytes.Buffer
	expr.write(&buf, expr.Root())
	return buf.String()
}

func (expr Expr) write(buf *bytes.Buffer, i int) {
	n := expr[i]
	if len(n.Children) == 0 {
		buf.WriteString(n.Op)
		return
	}
	buf.WriteRune('(')
	buf.WriteString(n.Op)
	for _, child := range n.Children {
		buf.WriteRune(' ')
		expr.write(buf, child)
	}
	buf.WriteRune(')')
}

// Dump returns the flattened buffer, one node per line.
func (expr Expr) Dump() string {
	var buf bytes.Buffer
	for i, n := range expr {
		fmt.Fprintf(&buf, "%d: %s", i, n.Op)
		for _, child := range n.Children {
			fmt.Fprintf(&buf, " #%d", child)
		}
		buf.WriteRune('\n')
	}
	return buf.String()
}

// ParseExpr parses an S-expression such as "(VecAdd (Vec a b) (Vec c d))"
// into a flattened expression.
func ParseExpr(s string) (Expr, error) {
	p := &exprParser{tokens: tokenize(s)}
	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("vecx: empty expression")
	}
	if _, err := p.parse(); err != nil {
		return nil, err
	} else if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("vecx: unexpected token after expression: %q", p.tokens[p.pos])
	}
	return p.expr, nil
}

// MustParseExpr is like ParseExpr but panics on error.
func MustParseExpr(s string) Expr {
	expr, err := ParseExpr(s)
	if err != nil {
		panic(err)
	}
	return expr
}

type exprParser struct {
	tokens []string
	pos    int
	expr   Expr
}

// parse consumes one term and returns its position in the output buffer.
func (p *exprParser) parse() (int, error) {
	if p.pos >= len(p.tokens) {
		return 0, fmt.Errorf("vecx: unexpected end of expression")
	}

	tok := p.tokens[p.pos]
	p.pos++
	switch tok {
	case ")":
		return 0, fmt.Errorf("vecx: unexpected ')'")
	case "(":
		// Operator followed by operands until the closing paren.
	default:
		p.expr = append(p.expr, ENode{Op: tok})
		return len(p.expr) - 1, nil
	}

	if p.pos >= len(p.tokens) || p.tokens[p.pos] == "(" || p.tokens[p.pos] == ")" {
		return 0, fmt.Errorf("vecx: expected operator after '('")
	}
	n := ENode{Op: p.tokens[p.pos]}
	p.pos++

	for {
		if p.pos >= len(p.tokens) {
			return 0, fmt.Errorf("vecx: missing ')' for %s", n.Op)
		} else if p.tokens[p.pos] == ")" {
			p.pos++
			break
		}
		child, err := p.parse()
		if err != nil {
			return 0, err
		}
		n.Children = append(n.Children, child)
	}

	p.expr = append(p.expr, n)
	return len(p.expr) - 1, nil
}

func tokenize(s string) []string {
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")
	return strings.Fields(s)
}
