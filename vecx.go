package vecx

import (
	"errors"
	"fmt"
)

var (
	// ErrNoExtractableExpression is returned when no acyclic, fully vectorized
	// choice exists for the requested root class.
	ErrNoExtractableExpression = errors.New("vecx: no extractable expression")

	ErrInvalidWeights = errors.New("vecx: invalid cost weights")
)

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
