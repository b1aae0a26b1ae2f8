package query

import (
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/l7mp/triedb/pkg/db"
	"github.com/l7mp/triedb/pkg/relation"
)

var (
	loglevel = -10
	logger   = zap.New(zap.UseFlagOptions(&zap.Options{
		Development:     true,
		DestWriter:      GinkgoWriter,
		StacktraceLevel: zapcore.Level(3),
		TimeEncoder:     zapcore.RFC3339NanoTimeEncoder,
		Level:           zapcore.Level(loglevel),
	}))
)

func TestQuery(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Query Suite")
}

var _ = Describe("Query", func() {
	Context("When parsing documents", func() {
		It("should parse a YAML document", func() {
			doc, err := Parse([]byte(`
name: test
relations:
  - name: r
    cardinality: 2
    tuples: [[1, "x"]]
joins:
  - relations: [r]
    variables: [0, 1]
    mapping: [[0, 1]]`))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Name).To(Equal("test"))
			Expect(doc.Relations).To(HaveLen(1))
			Expect(doc.Relations[0].Tuples).To(Equal([][]any{{float64(1), "x"}}))
			Expect(doc.Joins[0].Mapping).To(Equal([][]int{{0, 1}}))
		})

		It("should parse a JSON document", func() {
			doc, err := Parse([]byte(`{"name":"j","relations":[{"name":"r","cardinality":1}]}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Relations[0].Cardinality).To(Equal(1))
		})

		It("should reject unknown fields", func() {
			_, err := Parse([]byte("name: test\nrelation: []\n"))
			Expect(err).To(HaveOccurred())
		})

		It("should collect validation errors", func() {
			_, err := Parse([]byte(`
relations:
  - cardinality: 1
  - name: bad
    cardinality: 0
joins:
  - relations: [a, b]
    variables: [0]
    mapping: [[0]]`))
			Expect(err).To(MatchError(db.ErrInvalidCardinality))
			Expect(err.Error()).To(ContainSubstring("relation 0: missing name"))
			Expect(err.Error()).To(ContainSubstring("join 0: 2 relations but 1 mappings"))
		})

		It("should fail on a missing file", func() {
			_, err := Load("testdata/does-not-exist.yaml")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("When running documents", func() {
		It("should evaluate the joins of a file", func() {
			doc, err := Load("../../cmd/triedb/testdata/triangles.yaml")
			Expect(err).NotTo(HaveOccurred())

			results, err := Run(doc, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			Expect(results[0].Name).To(Equal("triangle"))
			Expect(results[0].Variables).To(Equal([]int{0, 1, 2}))
			Expect(results[0].Tuples).To(ConsistOf([]any{"a", "b", "c"}, []any{"b", "c", "d"}))

			Expect(results[1].Name).To(Equal("intersection"))
			Expect(results[1].Tuples).To(ConsistOf([]any{float64(1)}, []any{float64(2)}, []any{float64(3)}))
		})

		It("should name anonymous joins", func() {
			results, err := Run(&Document{
				Relations: []Relation{{Name: "r", Cardinality: 1, Tuples: [][]any{{"x"}}}},
				Joins:     []Join{{Relations: []string{"r"}, Variables: []int{0}, Mapping: [][]int{{0}}}},
			}, logr.Logger{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Name).To(Equal("join-0"))
			Expect(results[0].Tuples).To(Equal([][]any{{"x"}}))
		})

		It("should project objects into tuples", func() {
			doc, err := Parse([]byte(`
name: owners
relations:
  - name: owner
    cardinality: 2
    columns: ["$.metadata.name", "$.spec.owner"]
    objects:
      - {metadata: {name: a}, spec: {owner: b}}
      - {metadata: {name: b}, spec: {owner: c}}
  - name: admin
    cardinality: 1
    tuples: [["c"]]
joins:
  - name: chain
    relations: [owner, owner, admin]
    variables: [0, 1, 2]
    mapping: [[0, 1], [1, 2], [2]]`))
			Expect(err).NotTo(HaveOccurred())

			results, err := Run(doc, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Tuples).To(Equal([][]any{{"a", "b", "c"}}))

			g := results[0].Graph
			Expect(g).NotTo(BeNil())
			Expect(g.Name).To(Equal("chain"))
			Expect(g.Leaves()).To(Equal(1))
			Expect(g.Nodes[0].Label).To(Equal(`"a"`))
		})

		It("should reject objects without a column", func() {
			_, err := Run(&Document{
				Relations: []Relation{{
					Name: "r", Cardinality: 1, Columns: []string{"$.name"},
					Objects: []any{map[string]any{"other": 1}},
				}},
			}, logger)
			Expect(err).To(MatchError(ErrMissingColumn))
		})

		It("should validate column expressions", func() {
			_, err := Parse([]byte(`
relations:
  - name: r
    cardinality: 2
    columns: ["$.a"]
    objects: [{a: 1}]`))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("1 columns for cardinality 2"))
		})

		It("should collect loading errors", func() {
			_, err := Run(&Document{
				Relations: []Relation{
					{Name: "r", Cardinality: 2, Tuples: [][]any{{"x"}, {"x", "y"}}},
					{Name: "r", Cardinality: 1},
				},
			}, logger)
			Expect(err).To(MatchError(relation.ErrArityMismatch))
			Expect(err).To(MatchError(db.ErrRelationExists))
		})

		It("should report the failing join", func() {
			_, err := Run(&Document{
				Relations: []Relation{{Name: "r", Cardinality: 1}},
				Joins: []Join{
					{Name: "ok", Relations: []string{"r"}, Variables: []int{0}, Mapping: [][]int{{0}}},
					{Name: "bad", Relations: []string{"s"}, Variables: []int{0}, Mapping: [][]int{{0}}},
				},
			}, logger)
			Expect(err).To(MatchError(ErrJoin))
			Expect(err).To(MatchError(db.ErrRelationNotFound))
			Expect(err.Error()).To(ContainSubstring(`"bad"`))
		})
	})
})
