package join

import (
	"cmp"
	"iter"
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/l7mp/triedb/pkg/iters"
)

var _ Algorithm[int] = LeapfrogTriejoin[int]{}

// LeapfrogTriejoin is the worst-case optimal multi-way join of Veldhuizen. It binds the output
// variables one at a time: for each variable it descends into the next level of every relation
// that mentions the variable and intersects these levels with a LeapfrogJoin. No intermediate
// result is ever materialized.
//
// Each relation must list its variables in the same relative order as the output variables,
// i.e., the variables of a relation must form a subsequence of the output variables.
type LeapfrogTriejoin[K cmp.Ordered] struct{}

// Join implements Algorithm.
func (LeapfrogTriejoin[K]) Join(variables []int, relVariables [][]int, iterables []iters.Iterable[K]) (iter.Seq[[]K], error) {
	participants, err := plan(variables, relVariables, iterables)
	if err != nil {
		return nil, err
	}

	return func(yield func([]K) bool) {
		its := make([]iters.TrieIterator[K], len(iterables))
		for i, r := range iterables {
			its[i] = r.TrieIterator()
		}
		tuple := make([]K, len(variables))

		var bind func(depth int) bool
		bind = func(depth int) bool {
			entered := make([]iters.TrieIterator[K], 0, len(participants[depth]))
			for _, r := range participants[depth] {
				if !its[r].Down() {
					break
				}
				entered = append(entered, its[r])
			}
			defer func() {
				for _, it := range entered {
					it.Up()
				}
			}()
			if len(entered) < len(participants[depth]) {
				return true
			}

			level := make([]iters.LinearIterator[K], len(entered))
			for i, it := range entered {
				level[i] = it
			}
			for lf := NewLeapfrogJoin(level); !lf.AtEnd(); lf.Next() {
				tuple[depth] = lf.Key()
				if depth == len(variables)-1 {
					if !yield(slices.Clone(tuple)) {
						return false
					}
					continue
				}
				if !bind(depth + 1) {
					return false
				}
			}
			return true
		}

		bind(0)
	}, nil
}

// plan validates the variable bindings and returns, for each output variable, the indices of the
// relations that bind it.
func plan[K cmp.Ordered](variables []int, relVariables [][]int, iterables []iters.Iterable[K]) ([][]int, error) {
	if len(variables) == 0 {
		return nil, NewVariableError("no output variables")
	}
	if len(relVariables) != len(iterables) {
		return nil, NewVariableError("got variable mappings for %d relations, expected %d",
			len(relVariables), len(iterables))
	}

	position := make(map[int]int, len(variables))
	for i, v := range variables {
		if _, ok := position[v]; ok {
			return nil, NewVariableError("output variable %d listed more than once", v)
		}
		position[v] = i
	}

	participants := make([][]int, len(variables))
	bound := sets.New[int]()
	for r, vars := range relVariables {
		if card := iterables[r].Cardinality(); len(vars) != card {
			return nil, NewVariableError("relation %d has cardinality %d but %d variables",
				r, card, len(vars))
		}
		last := -1
		for _, v := range vars {
			pos, ok := position[v]
			if !ok {
				return nil, NewVariableError("variable %d of relation %d is not an output variable", v, r)
			}
			if pos <= last {
				return nil, NewVariableError("variables %v of relation %d do not follow the output order %v",
					vars, r, variables)
			}
			last = pos
			participants[pos] = append(participants[pos], r)
			bound.Insert(v)
		}
	}

	if unbound := sets.New(variables...).Difference(bound); unbound.Len() > 0 {
		return nil, NewVariableError("output variables %v are not bound by any relation",
			sets.List(unbound))
	}

	return participants, nil
}
