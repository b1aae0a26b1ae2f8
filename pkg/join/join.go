// Package join implements multi-way join algorithms over level-wise iterable relations.
//
// A join is described by a list of output variables, which fixes the arity and the column order
// of the result, and by a variable mapping per input relation, which tells which output variable
// each level of the relation binds. Relations that share a variable must agree on its value in
// every result tuple.
//
// Example: the triangle query T(a,b,c) :- R(a,b), S(b,c), U(a,c) is
//
//	seq, err := join.LeapfrogTriejoin[uint64]{}.Join(
//		[]int{0, 1, 2},
//		[][]int{{0, 1}, {1, 2}, {0, 2}},
//		[]iters.Iterable[uint64]{r, s, u})
package join

import (
	"cmp"
	"errors"
	"fmt"
	"iter"

	"github.com/l7mp/triedb/pkg/iters"
)

// Algorithm is a join algorithm. Implementations hold no state across calls, so running the same
// join twice yields the same tuples.
type Algorithm[K cmp.Ordered] interface {
	// Join validates the variable bindings and returns the result tuples as a lazy sequence.
	// The sequence may be iterated more than once. Tuples are yielded at most once each, in
	// ascending lexicographic order, as fresh slices.
	Join(variables []int, relVariables [][]int, iterables []iters.Iterable[K]) (iter.Seq[[]K], error)
}

// ErrInvalidVariables is returned when the variable bindings of a join are inconsistent.
var ErrInvalidVariables = errors.New("invalid join variables")

type ErrVariable = error

func NewVariableError(format string, args ...any) ErrVariable {
	return fmt.Errorf("%w: %s", ErrInvalidVariables, fmt.Sprintf(format, args...))
}
