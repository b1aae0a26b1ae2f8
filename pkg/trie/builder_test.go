package trie

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Builder", func() {
	It("should chain and build", func() {
		t, err := NewBuilder[int](3).
			Add([]int{3, 5, 2}).
			Add([]int{1, 5, 2}).
			AddAll([][]int{{1, 3, 5}, {1, 3, 4}, {1, 3, 4}}).
			Build()
		Expect(err).NotTo(HaveOccurred())

		expected, err := FromTuples(3, [][]int{{1, 3, 4}, {1, 3, 5}, {1, 5, 2}, {3, 5, 2}})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Equal(expected)).To(BeTrue())
		Expect(t.Len()).To(Equal(4))
	})

	It("should build an empty trie", func() {
		t, err := NewBuilder[int](2).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(t.IsEmpty()).To(BeTrue())
		Expect(t.Cardinality()).To(Equal(2))
	})

	It("should report arity errors on Build", func() {
		_, err := NewBuilder[int](2).Add([]int{1}).Build()
		Expect(err).To(MatchError(ErrArityMismatch))
	})

	It("should refuse zero cardinality", func() {
		Expect(func() { NewBuilder[int](0) }).To(Panic())
	})

	It("should be single use", func() {
		b := NewBuilder[int](1).Add([]int{1})
		_, err := b.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(func() { b.Add([]int{2}) }).To(Panic())
		Expect(func() { b.AddAll([][]int{{2}}) }).To(Panic())
		Expect(func() { _, _ = b.Build() }).To(Panic())
	})

	It("should work through the relation interface", func() {
		rb := NewRelationBuilder[uint64](2)
		Expect(rb.Cardinality()).To(Equal(2))
		rel, err := rb.Add([]uint64{2, 1}).AddAll([][]uint64{{1, 1}}).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(rel.Cardinality()).To(Equal(2))
		Expect(rel.Len()).To(Equal(2))
		Expect(rel.Contains([]uint64{1, 1})).To(BeTrue())

		_, err = NewRelationBuilder[uint64](2).Add([]uint64{1}).Build()
		Expect(err).To(MatchError(ErrArityMismatch))
	})
})
