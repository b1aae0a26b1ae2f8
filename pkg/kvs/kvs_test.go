package kvs

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestKVS(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "KVS Suite")
}

var _ = Describe("NaiveStore", func() {
	var s *NaiveStore

	BeforeEach(func() {
		s = NewNaiveStore()
	})

	It("should encode and decode values", func() {
		k, err := s.Add("apple")
		Expect(err).NotTo(HaveOccurred())
		v, ok := s.Get(k)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("apple"))

		k2, err := s.Add("apple")
		Expect(err).NotTo(HaveOccurred())
		Expect(k2).To(Equal(k))
		Expect(s.Len()).To(Equal(1))

		key, ok := s.Key("apple")
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(k))
	})

	It("should keep keys stable across stores", func() {
		k1, err := s.Add(map[string]any{"a": 1, "b": []any{"x", true}})
		Expect(err).NotTo(HaveOccurred())
		k2, err := NewNaiveStore().Add(map[string]any{"b": []any{"x", true}, "a": 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(k1).To(Equal(k2))
	})

	It("should treat values with the same JSON encoding as equal", func() {
		k1, err := s.Add(int64(1))
		Expect(err).NotTo(HaveOccurred())
		k2, err := s.Add(float64(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(k1).To(Equal(k2))
		Expect(s.Len()).To(Equal(1))

		k3, err := s.Add("1")
		Expect(err).NotTo(HaveOccurred())
		Expect(k3).NotTo(Equal(k1))
	})

	It("should encode and decode tuples", func() {
		keys, err := s.AddAll([]any{"a", 1, "a"})
		Expect(err).NotTo(HaveOccurred())
		Expect(keys).To(HaveLen(3))
		Expect(keys[0]).To(Equal(keys[2]))
		Expect(s.Len()).To(Equal(2))

		values, err := s.GetAll(keys)
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(Equal([]any{"a", 1, "a"}))
	})

	It("should report unknown keys and values", func() {
		_, ok := s.Get(42)
		Expect(ok).To(BeFalse())
		_, ok = s.Key("missing")
		Expect(ok).To(BeFalse())

		k, err := s.Add("a")
		Expect(err).NotTo(HaveOccurred())
		_, err = s.GetAll([]uint64{k, k + 1})
		Expect(err).To(MatchError(ErrKeyNotFound))
	})

	It("should reject values that cannot be encoded", func() {
		_, err := s.Add(func() {})
		Expect(err).To(MatchError(ErrInvalidValue))
		_, ok := s.Key(make(chan int))
		Expect(ok).To(BeFalse())

		_, err = s.AddAll([]any{"ok", make(chan int)})
		Expect(err).To(MatchError(ErrInvalidValue))
		Expect(s.Len()).To(Equal(0), "a failed tuple registers nothing")
	})

	It("should detect key collisions", func() {
		key, _, err := canonicalize("y")
		Expect(err).NotTo(HaveOccurred())
		s.entries[key] = entry{value: "x", canonical: `"x"`}

		_, err = s.Add("y")
		Expect(err).To(MatchError(ErrKeyCollision))
		_, err = s.AddAll([]any{"z", "y"})
		Expect(err).To(MatchError(ErrKeyCollision))
		_, ok := s.Key("y")
		Expect(ok).To(BeFalse())
		Expect(s.Len()).To(Equal(1))
	})
})
