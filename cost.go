package vecx

import (
	"fmt"
)

// Recognized operation tags.
const (
	OpAdd = "+"
	OpMul = "*"
	OpSub = "-"
	OpNeg = "neg"

	OpRotate   = "<<"
	OpVec      = "Vec"
	OpVecAdd   = "VecAdd"
	OpVecMinus = "VecMinus"
	OpVecNeg   = "VecNeg"
	OpVecMul   = "VecMul"
)

// Multipliers applied to the VecOp weight for expensive vector operations.
const (
	RotateFactor = 50
	VecMulFactor = 100
)

// Weights holds the unit costs used by the cost model.
type Weights struct {
	VecOp     int // basic vector operation
	Structure int // vector constructor
	Literal   int // any unrecognized operation, e.g. symbols and constants
}

// DefaultWeights returns the default unit costs.
func DefaultWeights() Weights {
	return Weights{
		VecOp:     1,
		Structure: 2000,
		Literal:   1,
	}
}

// Validate returns an error if any weight is not a positive integer.
func (w Weights) Validate() error {
	if w.VecOp <= 0 || w.Structure <= 0 || w.Literal <= 0 {
		return fmt.Errorf("%w: vec_op=%d structure=%d literal=%d", ErrInvalidWeights, w.VecOp, w.Structure, w.Literal)
	}
	return nil
}

// CostModel maps operation tags to incremental costs.
type CostModel struct {
	Weights Weights
}

// NewCostModel returns a new instance of CostModel.
func NewCostModel(w Weights) CostModel {
	return CostModel{Weights: w}
}

// Cost returns the cost contributed by a node with the given operation.
// Returns false if the operation is scalar and therefore never selectable.
func (m CostModel) Cost(op string) (int, bool) {
	switch op {
	case OpAdd, OpMul, OpSub, OpNeg:
		return 0, false
	case OpRotate:
		return RotateFactor * m.Weights.VecOp, true
	case OpVec:
		return m.Weights.Structure, true
	case OpVecAdd, OpVecMinus, OpVecNeg:
		return m.Weights.VecOp, true
	case OpVecMul:
		return VecMulFactor * m.Weights.VecOp, true
	default:
		return m.Weights.Literal, true
	}
}

// IsScalarOp returns true if op is a scalar operation.
func IsScalarOp(op string) bool {
	switch op {
	case OpAdd, OpMul, OpSub, OpNeg:
		return true
	default:
		return false
	}
}
