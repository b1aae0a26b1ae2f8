// Package db implements a named collection of relations over a shared dictionary store, and the
// join driver that evaluates multi-way joins over them.
//
// Example usage:
//
//	d := db.NewDefault("example", logger)
//	_ = d.AddRelation("edge", 2)
//	_ = d.AddTuple("edge", []any{"a", "b"})
//	res, err := d.Join([]string{"edge", "edge"}, []int{0, 1, 2}, [][]int{{0, 1}, {1, 2}})
package db

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/l7mp/triedb/pkg/iters"
	"github.com/l7mp/triedb/pkg/join"
	"github.com/l7mp/triedb/pkg/kvs"
	"github.com/l7mp/triedb/pkg/relation"
	"github.com/l7mp/triedb/pkg/trie"
)

var (
	// ErrRelationNotFound is returned when a relation name is not registered.
	ErrRelationNotFound = errors.New("relation not found")
	// ErrRelationExists is returned when registering a relation name twice.
	ErrRelationExists = errors.New("relation already exists")
	// ErrInvalidCardinality is returned when a relation is declared with no columns.
	ErrInvalidCardinality = errors.New("invalid cardinality")
)

// Options fixes the implementation types of a database.
type Options[K cmp.Ordered, V any] struct {
	// Store is the dictionary store that encodes values into keys. Required.
	Store kvs.KeyValStore[K, V]
	// NewBuilder creates the relations. Defaults to tries.
	NewBuilder relation.BuilderFunc[K]
	// Algorithm evaluates joins. Defaults to Leapfrog TrieJoin.
	Algorithm join.Algorithm[K]
	// Logger is for logging.
	Logger logr.Logger
}

// Database holds named relations over a shared dictionary store.
type Database[K cmp.Ordered, V any] struct {
	name       string
	relations  map[string]relation.Relation[K]
	store      kvs.KeyValStore[K, V]
	newBuilder relation.BuilderFunc[K]
	algorithm  join.Algorithm[K]
	log        logr.Logger
}

// New creates an empty database.
func New[K cmp.Ordered, V any](name string, opts Options[K, V]) (*Database[K, V], error) {
	if opts.Store == nil {
		return nil, errors.New("a dictionary store is required")
	}

	newBuilder := opts.NewBuilder
	if newBuilder == nil {
		newBuilder = trie.NewRelationBuilder[K]
	}

	algorithm := opts.Algorithm
	if algorithm == nil {
		algorithm = join.LeapfrogTriejoin[K]{}
	}

	logger := opts.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	return &Database[K, V]{
		name:       name,
		relations:  make(map[string]relation.Relation[K]),
		store:      opts.Store,
		newBuilder: newBuilder,
		algorithm:  algorithm,
		log:        logger.WithName("db").WithValues("database", name),
	}, nil
}

// NewDefault creates a database of tries over a NaiveStore, joined with Leapfrog TrieJoin.
func NewDefault(name string, logger logr.Logger) *Database[uint64, any] {
	d, _ := New(name, Options[uint64, any]{Store: kvs.NewNaiveStore(), Logger: logger})
	return d
}

func (d *Database[K, V]) Name() string { return d.name }

// Store returns the dictionary store of the database.
func (d *Database[K, V]) Store() kvs.KeyValStore[K, V] { return d.store }

// AddRelation registers a new empty relation.
func (d *Database[K, V]) AddRelation(name string, cardinality int) error {
	if _, ok := d.relations[name]; ok {
		return fmt.Errorf("%w: %q", ErrRelationExists, name)
	}
	if cardinality < 1 {
		return fmt.Errorf("%w: relation %q must have at least one column, got %d",
			ErrInvalidCardinality, name, cardinality)
	}

	rel, err := d.newBuilder(cardinality).Build()
	if err != nil {
		return fmt.Errorf("failed to create relation %q: %w", name, err)
	}
	d.relations[name] = rel

	d.log.V(2).Info("relation added", "relation", name, "cardinality", cardinality)

	return nil
}

// Relation returns a registered relation.
func (d *Database[K, V]) Relation(name string) (relation.Relation[K], error) {
	rel, ok := d.relations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRelationNotFound, name)
	}
	return rel, nil
}

// RelationNames returns the names of the registered relations in ascending order.
func (d *Database[K, V]) RelationNames() []string {
	return sets.List(sets.KeySet(d.relations))
}

// AddTuple encodes a tuple of raw values through the store and inserts it into a relation.
func (d *Database[K, V]) AddTuple(name string, values []V) error {
	rel, err := d.Relation(name)
	if err != nil {
		return err
	}
	if len(values) != rel.Cardinality() {
		return fmt.Errorf("relation %q: %w", name, relation.NewArityError(rel.Cardinality(), len(values)))
	}

	keys, err := d.store.AddAll(values)
	if err != nil {
		return fmt.Errorf("relation %q: failed to encode tuple: %w", name, err)
	}

	d.log.V(4).Info("adding tuple", "relation", name, "values", values, "keys", keys)

	return rel.Insert(keys)
}

// AddKeys inserts an already encoded tuple into a relation.
func (d *Database[K, V]) AddKeys(name string, keys []K) error {
	rel, err := d.Relation(name)
	if err != nil {
		return err
	}
	if err := rel.Insert(keys); err != nil {
		return fmt.Errorf("relation %q: %w", name, err)
	}
	return nil
}

// AddKeysBatch inserts a batch of already encoded tuples into a relation. Nothing is inserted if
// any tuple has the wrong arity.
func (d *Database[K, V]) AddKeysBatch(name string, tuples [][]K) error {
	rel, err := d.Relation(name)
	if err != nil {
		return err
	}
	if err := rel.InsertAll(tuples); err != nil {
		return fmt.Errorf("relation %q: %w", name, err)
	}

	d.log.V(2).Info("batch added", "relation", name, "tuples", len(tuples))

	return nil
}

// Join evaluates a multi-way join and materializes the result into a new relation whose columns
// are the output variables. relVariables[i] lists, for each column of relations[i], the output
// variable the column binds. The same relation may appear more than once. Returns an error
// wrapping ErrRelationNotFound if a relation name is unknown.
func (d *Database[K, V]) Join(relations []string, variables []int, relVariables [][]int) (relation.Relation[K], error) {
	iterables := make([]iters.Iterable[K], len(relations))
	for i, name := range relations {
		rel, err := d.Relation(name)
		if err != nil {
			return nil, err
		}
		iterables[i] = rel
	}

	tuples, err := d.algorithm.Join(variables, relVariables, iterables)
	if err != nil {
		return nil, fmt.Errorf("failed to join %v: %w", relations, err)
	}

	builder := d.newBuilder(len(variables))
	for tuple := range tuples {
		builder.Add(tuple)
	}
	res, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build join result: %w", err)
	}

	d.log.V(2).Info("join ready", "relations", relations, "variables", variables,
		"mapping", relVariables, "tuples", res.Len())

	return res, nil
}

// Decode maps a tuple of keys back to the original values.
func (d *Database[K, V]) Decode(tuple []K) ([]V, error) {
	return d.store.GetAll(tuple)
}
