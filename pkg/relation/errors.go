package relation

import (
	"errors"
	"fmt"
)

// ErrArityMismatch is returned when a tuple does not have as many keys as the relation has
// columns.
var ErrArityMismatch = errors.New("arity mismatch")

type ErrArity = error

func NewArityError(cardinality, got int) ErrArity {
	return fmt.Errorf("%w: expected %d keys, got %d", ErrArityMismatch, cardinality, got)
}
