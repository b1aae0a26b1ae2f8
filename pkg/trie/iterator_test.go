package trie

import (
	"math/rand"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/triedb/pkg/iters"
)

func levelKeys(it iters.TrieIterator[int]) []int {
	ret := []int{}
	for it.Open(); !it.AtEnd(); it.Next() {
		ret = append(ret, it.Key())
	}
	return ret
}

var _ = Describe("Iterator", func() {
	var t *Trie[int]

	BeforeEach(func() {
		var err error
		t, err = FromTuples(3, [][]int{{1, 3, 4}, {1, 3, 5}, {1, 5, 2}, {3, 5, 2}})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should start above the top level", func() {
		it := t.TrieIterator()
		Expect(it.Depth()).To(Equal(0))
		Expect(it.AtEnd()).To(BeTrue())
		Expect(it.Key()).To(Equal(0))
		Expect(it.Up()).To(BeFalse())
	})

	It("should walk the levels of the trie", func() {
		it := t.TrieIterator()
		Expect(it.Down()).To(BeTrue())
		Expect(it.Depth()).To(Equal(1))
		Expect(it.Key()).To(Equal(1))

		Expect(it.Down()).To(BeTrue())
		Expect(levelKeys(it)).To(Equal([]int{3, 5}))
		it.Open()
		Expect(it.Down()).To(BeTrue())
		Expect(it.Depth()).To(Equal(3))
		Expect(levelKeys(it)).To(Equal([]int{4, 5}))
		it.Open()
		Expect(it.Down()).To(BeFalse(), "leaves have no children")

		Expect(it.Up()).To(BeTrue())
		Expect(it.Key()).To(Equal(3))
		it.Next()
		Expect(it.Key()).To(Equal(5))
		Expect(it.Down()).To(BeTrue())
		Expect(levelKeys(it)).To(Equal([]int{2}))

		Expect(it.Up()).To(BeTrue())
		Expect(it.Up()).To(BeTrue())
		Expect(it.Key()).To(Equal(1))
		it.Next()
		Expect(it.Key()).To(Equal(3))
		it.Next()
		Expect(it.AtEnd()).To(BeTrue())
		Expect(it.Down()).To(BeFalse())
	})

	It("should not descend into an empty trie", func() {
		it := New[int](2).TrieIterator()
		Expect(it.Down()).To(BeFalse())
		Expect(it.Depth()).To(Equal(0))
	})

	It("should keep iterators independent", func() {
		a, b := t.TrieIterator(), t.TrieIterator()
		Expect(a.Down()).To(BeTrue())
		Expect(b.Down()).To(BeTrue())
		a.Next()
		Expect(a.Key()).To(Equal(3))
		Expect(b.Key()).To(Equal(1))
	})

	Describe("Seek", func() {
		var it iters.TrieIterator[int]

		BeforeEach(func() {
			evens := New[int](1)
			for i := 0; i < 100; i++ {
				Expect(evens.Insert([]int{2 * i})).To(Succeed())
			}
			it = evens.TrieIterator()
			Expect(it.Down()).To(BeTrue())
		})

		It("should find the least upper bound", func() {
			it.Seek(51)
			Expect(it.Key()).To(Equal(52))
			it.Seek(52)
			Expect(it.Key()).To(Equal(52))
			it.Seek(53)
			Expect(it.Key()).To(Equal(54))
			it.Seek(198)
			Expect(it.Key()).To(Equal(198))
			Expect(it.AtEnd()).To(BeFalse())
		})

		It("should never move backwards", func() {
			it.Seek(120)
			it.Seek(10)
			Expect(it.Key()).To(Equal(120))
		})

		It("should run off the end", func() {
			it.Seek(199)
			Expect(it.AtEnd()).To(BeTrue())
			it.Seek(300)
			Expect(it.AtEnd()).To(BeTrue())
		})

		It("should agree with a linear scan", func() {
			rnd := rand.New(rand.NewSource(7))
			targets := make([]int, 60)
			for i := range targets {
				targets[i] = rnd.Intn(210)
			}
			slices.Sort(targets)

			pos := 0
			for _, target := range targets {
				for pos < 100 && 2*pos < target {
					pos++
				}
				it.Seek(target)
				if pos == 100 {
					Expect(it.AtEnd()).To(BeTrue())
					continue
				}
				Expect(it.Key()).To(Equal(2*pos), "seek to %d", target)
			}
		})

		It("should restart from the first key on Open", func() {
			it.Seek(100)
			it.Open()
			Expect(it.Key()).To(Equal(0))
		})
	})
})
