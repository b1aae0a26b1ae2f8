package query

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// ErrMissingColumn is returned when a column expression selects nothing from an object.
var ErrMissingColumn = errors.New("missing column")

func parseColumns(columns []string) ([]jp.Expr, error) {
	exprs := make([]jp.Expr, len(columns))
	for i, c := range columns {
		x, err := jp.ParseString(c)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONPath expression %q for column %d: %w", c, i, err)
		}
		exprs[i] = x
	}
	return exprs, nil
}

// project evaluates the column expressions on the object, taking the first match of each.
func project(object any, columns []jp.Expr) ([]any, error) {
	tuple := make([]any, len(columns))
	for i, x := range columns {
		values := x.Get(object)
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, x.String())
		}
		tuple[i] = values[0]
	}
	return tuple, nil
}
