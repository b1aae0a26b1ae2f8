package kvs

import (
	"hash/fnv"

	"k8s.io/apimachinery/pkg/util/json"
)

var _ KeyValStore[uint64, any] = &NaiveStore{}

type entry struct {
	value     any
	canonical string
}

// NaiveStore is an in-memory KeyValStore that keys arbitrary values by the 64-bit FNV-1a hash of
// their JSON encoding. Two values are considered equal iff they encode to the same JSON, so e.g.
// int64(1) and float64(1) share a key. Keys are stable across stores.
type NaiveStore struct {
	entries map[uint64]entry
}

// NewNaiveStore creates an empty store.
func NewNaiveStore() *NaiveStore {
	return &NaiveStore{entries: make(map[uint64]entry)}
}

func canonicalize(value any) (uint64, string, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return 0, "", newInvalidValueError(value, err)
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64(), string(b), nil
}

func (s *NaiveStore) Add(value any) (uint64, error) {
	key, canonical, err := canonicalize(value)
	if err != nil {
		return 0, err
	}
	if e, ok := s.entries[key]; ok {
		if e.canonical != canonical {
			return 0, newKeyCollisionError(key, e.canonical, canonical)
		}
		return key, nil
	}
	s.entries[key] = entry{value: value, canonical: canonical}
	return key, nil
}

// AddAll encodes all values. On error no value of the tuple is registered.
func (s *NaiveStore) AddAll(values []any) ([]uint64, error) {
	keys := make([]uint64, len(values))
	pending := map[uint64]entry{}
	for i, value := range values {
		key, canonical, err := canonicalize(value)
		if err != nil {
			return nil, err
		}
		e, ok := s.entries[key]
		if !ok {
			e, ok = pending[key]
		}
		if ok && e.canonical != canonical {
			return nil, newKeyCollisionError(key, e.canonical, canonical)
		}
		if !ok {
			pending[key] = entry{value: value, canonical: canonical}
		}
		keys[i] = key
	}
	for key, e := range pending {
		s.entries[key] = e
	}
	return keys, nil
}

func (s *NaiveStore) Key(value any) (uint64, bool) {
	key, canonical, err := canonicalize(value)
	if err != nil {
		return 0, false
	}
	if e, ok := s.entries[key]; !ok || e.canonical != canonical {
		return 0, false
	}
	return key, true
}

func (s *NaiveStore) Get(key uint64) (any, bool) {
	e, ok := s.entries[key]
	return e.value, ok
}

func (s *NaiveStore) GetAll(keys []uint64) ([]any, error) {
	values := make([]any, len(keys))
	for i, key := range keys {
		e, ok := s.entries[key]
		if !ok {
			return nil, newKeyNotFoundError(key)
		}
		values[i] = e.value
	}
	return values, nil
}

func (s *NaiveStore) Len() int { return len(s.entries) }
