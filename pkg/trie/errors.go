package trie

import "github.com/l7mp/triedb/pkg/relation"

// ErrArityMismatch is returned when a tuple does not have as many keys as the trie has levels.
var ErrArityMismatch = relation.ErrArityMismatch

// NewArityError is an alias of relation.NewArityError.
var NewArityError = relation.NewArityError
