package cmd

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backbone81/dataset/pkg/dataset"
)

var _ = Describe("Keys", func() {
	DescribeTable("Extracting number keys",
		func(key string, record any, want float64) {
			extract, err := parseKey(key)
			Expect(err).ToNot(HaveOccurred())
			Expect(numberKey(extract)(record)).To(Equal(want))
		},
		Entry("When sorting by the record itself", "self", int64(5), 5.0),
		Entry("When sorting by a list element", "index:1", []any{"a", uint64(7)}, 7.0),
		Entry("When sorting by a map field", "field:score", map[string]any{"score": 0.5}, 0.5),
	)

	It("should extract string keys", func() {
		extract, err := parseKey("field:name")
		Expect(err).ToNot(HaveOccurred())
		Expect(stringKey(extract)(map[string]any{"name": "bob"})).To(Equal("bob"))
		Expect(stringKey(extract)(map[string]any{"name": int64(3)})).To(Equal("3"))
	})

	It("should fail for records without the key", func() {
		extract, err := parseKey("index:3")
		Expect(err).ToNot(HaveOccurred())
		Expect(extract([]any{1})).Error().To(MatchError(ErrNoKey))
		Expect(extract("text")).Error().To(MatchError(ErrNoKey))
	})

	It("should fail for keys which are not numbers", func() {
		extract, err := parseKey("self")
		Expect(err).ToNot(HaveOccurred())
		Expect(numberKey(extract)("text")).Error().To(HaveOccurred())
	})

	DescribeTable("Rejecting invalid keys",
		func(key string) {
			Expect(parseKey(key)).Error().To(HaveOccurred())
		},
		Entry("When the kind is unknown", "random"),
		Entry("When the index is negative", "index:-1"),
		Entry("When the index is no number", "index:first"),
		Entry("When the field is missing", "field:"),
	)
})

var _ = Describe("Selector", func() {
	It("should select everything without a selector", func() {
		Expect(parseSelector("")).To(Equal(selector{slice: &[3]int{dataset.Omit, dataset.Omit, dataset.Omit}}))
	})

	It("should parse a single position", func() {
		sel, err := parseSelector("-3")
		Expect(err).ToNot(HaveOccurred())
		Expect(*sel.position).To(Equal(-3))
	})

	It("should parse a list of positions", func() {
		Expect(parseSelector("4, 1,2")).To(Equal(selector{positions: []int{4, 1, 2}}))
	})

	DescribeTable("Parsing slices",
		func(text string, want [3]int) {
			sel, err := parseSelector(text)
			Expect(err).ToNot(HaveOccurred())
			Expect(*sel.slice).To(Equal(want))
		},
		Entry("When start and stop are set", "1:5", [3]int{1, 5, dataset.Omit}),
		Entry("When only the step is set", "::-1", [3]int{dataset.Omit, dataset.Omit, -1}),
		Entry("When only the start is set", "-5:", [3]int{-5, dataset.Omit, dataset.Omit}),
		Entry("When everything is set", "10:-10:2", [3]int{10, -10, 2}),
	)

	DescribeTable("Rejecting invalid selectors",
		func(text string) {
			Expect(parseSelector(text)).Error().To(HaveOccurred())
		},
		Entry("When the position is no number", "first"),
		Entry("When the slice has too many parts", "1:2:3:4"),
		Entry("When a list element is no number", "1,x"),
	)
})
