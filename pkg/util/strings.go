package util

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/json"
)

// Map applies f to every element of s. The result is never nil.
func Map[T, U any](f func(T) U, s []T) []U {
	out := make([]U, 0, len(s))
	for _, v := range s {
		out = append(out, f(v))
	}
	return out
}

// Stringify renders a value as compact JSON, falling back to Go syntax for values JSON cannot
// represent.
func Stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

// TupleLines renders each tuple as a single JSON array, prefixed with the given label when it is
// not empty.
func TupleLines[T any](label string, tuples [][]T) []string {
	return Map(func(t []T) string {
		if t == nil {
			t = []T{}
		}
		if label == "" {
			return Stringify(t)
		}
		return label + " " + Stringify(t)
	}, tuples)
}
