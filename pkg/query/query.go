// Package query loads declarative query documents and evaluates them on an in-memory database.
//
// A query document lists relations with their raw tuples, and the joins to run over them:
//
//	name: triangles
//	relations:
//	  - name: edge
//	    cardinality: 2
//	    tuples: [["a", "b"], ["b", "c"], ["a", "c"]]
//	  - name: owner
//	    cardinality: 2
//	    columns: ["$.metadata.name", "$.spec.owner"]
//	    objects:
//	      - {metadata: {name: a}, spec: {owner: b}}
//	joins:
//	  - name: triangle
//	    relations: [edge, edge, edge]
//	    variables: [0, 1, 2]
//	    mapping: [[0, 1], [1, 2], [0, 2]]
package query

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"sigs.k8s.io/yaml"

	"github.com/l7mp/triedb/pkg/db"
	"github.com/l7mp/triedb/pkg/util"
	"github.com/l7mp/triedb/pkg/visualize"
)

// Document is a serialized query document.
type Document struct {
	// Name is the name of the database.
	Name string `json:"name"`
	// Relations are loaded before any join is run.
	Relations []Relation `json:"relations"`
	// Joins are evaluated in order.
	Joins []Join `json:"joins"`
}

// Relation declares a relation and its initial content.
type Relation struct {
	Name        string  `json:"name"`
	Cardinality int     `json:"cardinality"`
	Tuples      [][]any `json:"tuples,omitempty"`
	// Columns are JSONPath expressions, one per column, that project each of the Objects into a
	// tuple.
	Columns []string `json:"columns,omitempty"`
	Objects []any    `json:"objects,omitempty"`
}

// Join is a multi-way join over named relations.
type Join struct {
	Name string `json:"name,omitempty"`
	// Relations are the names of the input relations; a name may be repeated for self-joins.
	Relations []string `json:"relations"`
	// Variables fix the columns of the result.
	Variables []int `json:"variables"`
	// Mapping lists, per input relation, the output variable bound by each column.
	Mapping [][]int `json:"mapping"`
}

// Result is the decoded result of a join.
type Result struct {
	Name      string  `json:"name"`
	Variables []int   `json:"variables"`
	Tuples    [][]any `json:"tuples"`
	// Graph is the trie of the result, labeled with the decoded values.
	Graph *visualize.Graph `json:"-"`
}

// Load reads a query document from a YAML or JSON file.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(b)
}

// Parse parses a query document.
func Parse(b []byte) (*Document, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse query document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the document for problems that can be found without evaluating it.
func (doc *Document) Validate() error {
	errs := []error{}
	for i, r := range doc.Relations {
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("relation %d: missing name", i))
		}
		if r.Cardinality < 1 {
			errs = append(errs, fmt.Errorf("relation %q: %w: %d", r.Name, db.ErrInvalidCardinality, r.Cardinality))
		}
		if len(r.Objects) > 0 && len(r.Columns) != r.Cardinality {
			errs = append(errs, fmt.Errorf("relation %q: %d columns for cardinality %d", r.Name,
				len(r.Columns), r.Cardinality))
		}
		if _, err := parseColumns(r.Columns); err != nil {
			errs = append(errs, fmt.Errorf("relation %q: %w", r.Name, err))
		}
	}
	for i, j := range doc.Joins {
		if len(j.Relations) != len(j.Mapping) {
			errs = append(errs, fmt.Errorf("join %d: %d relations but %d mappings", i,
				len(j.Relations), len(j.Mapping)))
		}
	}
	return utilerrors.NewAggregate(errs)
}

// Run loads the relations of the document into a fresh database and evaluates the joins. Loading
// errors are collected over all relations; the first failing join stops the evaluation.
func Run(doc *Document, logger logr.Logger) ([]Result, error) {
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	log := logger.WithName("query")

	d := db.NewDefault(doc.Name, logger)

	errs := []error{}
	for _, r := range doc.Relations {
		if err := d.AddRelation(r.Name, r.Cardinality); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, t := range r.Tuples {
			if err := d.AddTuple(r.Name, t); err != nil {
				errs = append(errs, err)
			}
		}
		if len(r.Objects) > 0 {
			columns, err := parseColumns(r.Columns)
			if err != nil {
				errs = append(errs, fmt.Errorf("relation %q: %w", r.Name, err))
				continue
			}
			for i, o := range r.Objects {
				t, err := project(o, columns)
				if err != nil {
					errs = append(errs, fmt.Errorf("relation %q: object %d: %w", r.Name, i, err))
					continue
				}
				if err := d.AddTuple(r.Name, t); err != nil {
					errs = append(errs, err)
				}
			}
		}
		log.V(2).Info("relation loaded", "relation", r.Name, "tuples", len(r.Tuples), "objects", len(r.Objects))
	}
	if err := utilerrors.NewAggregate(errs); err != nil {
		return nil, fmt.Errorf("failed to load relations: %w", err)
	}

	results := make([]Result, 0, len(doc.Joins))
	for i, j := range doc.Joins {
		name := j.Name
		if name == "" {
			name = fmt.Sprintf("join-%d", i)
		}

		res, err := d.Join(j.Relations, j.Variables, j.Mapping)
		if err != nil {
			return nil, NewJoinError(name, err)
		}

		tuples := make([][]any, 0, res.Len())
		for keys := range res.Tuples() {
			values, err := d.Decode(keys)
			if err != nil {
				return nil, NewJoinError(name, err)
			}
			tuples = append(tuples, values)
		}

		log.Info("join evaluated", "join", name, "tuples", len(tuples))

		graph := visualize.BuildGraph(name, res, func(k uint64) string {
			v, _ := d.Store().Get(k)
			return util.Stringify(v)
		})

		results = append(results, Result{Name: name, Variables: j.Variables, Tuples: tuples, Graph: graph})
	}

	return results, nil
}

// ErrJoin is returned when evaluating a join of a query document fails.
var ErrJoin = errors.New("join failed")

func NewJoinError(name string, err error) error {
	return fmt.Errorf("%w: %q: %w", ErrJoin, name, err)
}
