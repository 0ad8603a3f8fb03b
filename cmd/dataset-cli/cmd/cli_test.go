package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// run executes the CLI with the given arguments and returns what was written to stdout.
func run(stdin string, args ...string) (string, error) {
	var stdout bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	err := rootCmd.Execute()
	return stdout.String(), err
}

var _ = Describe("CLI", func() {
	var directory string
	var filePath string

	BeforeEach(func() {
		Expect(importCmd.Flags().Set("append", "false")).To(Succeed())
		var err error
		directory, err = os.MkdirTemp("", "dataset-cli-test-*")
		Expect(err).ToNot(HaveOccurred())
		DeferCleanup(func() {
			Expect(os.RemoveAll(directory)).To(Succeed())
		})
		filePath = path.Join(directory, "data.dset")

		input := `{"id": 1, "name": "c", "score": 0.3}
{"id": 2, "name": "a", "score": 0.1}

{"id": 3, "name": "b", "score": 0.2}
`
		_, err = run(input, "import", "--file", filePath, "--input-file", "-", "--block-length", "2",
			"--compression", "zstd", "--serializer", "msgpack")
		Expect(err).ToNot(HaveOccurred())
	})

	It("should describe the dataset", func() {
		output, err := run("", "describe", "--file", filePath, "--output", "text")
		Expect(err).ToNot(HaveOccurred())
		Expect(output).To(ContainSubstring("Compression:     zstd"))
		Expect(output).To(ContainSubstring("Length:          3"))
		Expect(output).To(ContainSubstring("Blocks:          2"))
	})

	It("should describe the dataset as yaml", func() {
		output, err := run("", "describe", "--file", filePath, "--output", "yaml")
		Expect(err).ToNot(HaveOccurred())
		Expect(output).To(ContainSubstring("length: 3"))
		Expect(output).To(ContainSubstring("serializer: msgpack"))
	})

	DescribeTable("Dumping records",
		func(selectorText string, wantIDs []int) {
			output, err := run("", "dump", "--file", filePath, "--output", "jsonl", "--", selectorText)
			Expect(err).ToNot(HaveOccurred())
			Expect(ids(output)).To(Equal(wantIDs))
		},
		Entry("When dumping everything", "", []int{1, 2, 3}),
		Entry("When dumping a single record", "-1", []int{3}),
		Entry("When dumping many records", "2,0", []int{3, 1}),
		Entry("When dumping a slice", "::-1", []int{3, 2, 1}),
	)

	It("should dump records as yaml", func() {
		output, err := run("", "dump", "--file", filePath, "--output", "yaml", "--", "0")
		Expect(err).ToNot(HaveOccurred())
		Expect(output).To(ContainSubstring("name: c"))
	})

	It("should fail dumping a position out of range", func() {
		_, err := run("", "dump", "--file", filePath, "--output", "jsonl", "--", "7")
		Expect(err).To(HaveOccurred())
	})

	It("should append records", func() {
		_, err := run(`{"id": 4, "name": "d", "score": 0.0}`, "import", "--file", filePath, "--append")
		Expect(err).ToNot(HaveOccurred())

		output, err := run("", "dump", "--file", filePath, "--output", "jsonl")
		Expect(err).ToNot(HaveOccurred())
		Expect(ids(output)).To(Equal([]int{1, 2, 3, 4}))
	})

	It("should keep the existing records when appending invalid json", func() {
		input := `{"id": 4}
{"id": 5}
{"id": 6}
{"id": 7}
{"id": 8}
not json
`
		_, err := run(input, "import", "--file", filePath, "--append")
		Expect(err).To(HaveOccurred())

		output, err := run("", "dump", "--file", filePath, "--output", "jsonl")
		Expect(err).ToNot(HaveOccurred())
		Expect(ids(output)).To(Equal([]int{1, 2, 3}))
	})

	It("should append more than a block at once", func() {
		input := `{"id": 4}
{"id": 5}
{"id": 6}
{"id": 7}
{"id": 8}
`
		_, err := run(input, "import", "--file", filePath, "--append")
		Expect(err).ToNot(HaveOccurred())

		output, err := run("", "dump", "--file", filePath, "--output", "jsonl")
		Expect(err).ToNot(HaveOccurred())
		Expect(ids(output)).To(Equal([]int{1, 2, 3, 4, 5, 6, 7, 8}))
	})

	It("should sort by a field", func() {
		sortedPath := path.Join(directory, "sorted.dset")
		_, err := run("", "sort", "--file", filePath, "--output-file", sortedPath, "--key", "field:score",
			"--key-type", "number", "--cache-blocks", "1")
		Expect(err).ToNot(HaveOccurred())

		output, err := run("", "dump", "--file", sortedPath, "--output", "jsonl")
		Expect(err).ToNot(HaveOccurred())
		Expect(ids(output)).To(Equal([]int{2, 3, 1}))
	})

	It("should sort by a string field", func() {
		sortedPath := path.Join(directory, "sorted.dset")
		_, err := run("", "sort", "--file", filePath, "--output-file", sortedPath, "--key", "field:name",
			"--key-type", "string", "--cache-blocks", "2")
		Expect(err).ToNot(HaveOccurred())

		output, err := run("", "dump", "--file", sortedPath, "--output", "jsonl")
		Expect(err).ToNot(HaveOccurred())
		Expect(ids(output)).To(Equal([]int{2, 3, 1}))
	})

	It("should not create the output when sorting fails", func() {
		sortedPath := path.Join(directory, "sorted.dset")
		_, err := run("", "sort", "--file", filePath, "--output-file", sortedPath, "--key", "field:missing",
			"--key-type", "number", "--cache-blocks", "1")
		Expect(err).To(HaveOccurred())
		Expect(sortedPath).ToNot(BeAnExistingFile())
	})

	It("should reject invalid json", func() {
		otherPath := path.Join(directory, "other.dset")
		_, err := run("{not json", "import", "--file", otherPath, "--input-file", "-")
		Expect(err).To(HaveOccurred())
		Expect(otherPath).ToNot(BeAnExistingFile())
	})
})

// ids extracts the id field of every JSON line.
func ids(output string) []int {
	result := []int{}
	for line := range strings.Lines(output) {
		var record struct {
			ID int `json:"id"`
		}
		Expect(json.Unmarshal([]byte(line), &record)).To(Succeed())
		result = append(result, record.ID)
	}
	return result
}
