// Package kvs provides dictionary stores that encode raw attribute values into compact, totally
// ordered keys and decode keys back to the original values.
package kvs

import (
	"cmp"
	"errors"
	"fmt"
)

// KeyValStore maps values to keys and back. Adding the same value twice yields the same key.
type KeyValStore[K cmp.Ordered, V any] interface {
	// Add encodes a value, registering it if it is new.
	Add(value V) (K, error)
	// AddAll encodes a tuple of values.
	AddAll(values []V) ([]K, error)
	// Key returns the key of a registered value.
	Key(value V) (K, bool)
	// Get returns the value registered for a key.
	Get(key K) (V, bool)
	// GetAll decodes a tuple of keys. Fails with ErrKeyNotFound if any key is unknown.
	GetAll(keys []K) ([]V, error)
	// Len returns the number of distinct values registered.
	Len() int
}

var (
	// ErrKeyNotFound is returned when decoding a key that was never issued.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyCollision is returned when two distinct values encode to the same key.
	ErrKeyCollision = errors.New("key collision")
	// ErrInvalidValue is returned for values that cannot be encoded.
	ErrInvalidValue = errors.New("invalid value")
)

func newKeyNotFoundError(key any) error {
	return fmt.Errorf("%w: %v", ErrKeyNotFound, key)
}

func newKeyCollisionError(key any, existing, value string) error {
	return fmt.Errorf("%w: values %s and %s both map to key %v", ErrKeyCollision, existing, value, key)
}

func newInvalidValueError(value any, err error) error {
	return fmt.Errorf("%w %#v: %w", ErrInvalidValue, value, err)
}
