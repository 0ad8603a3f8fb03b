package dataset_test

import (
	"errors"
	"os"
	"path"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backbone81/dataset/internal/dataset"
	"github.com/backbone81/dataset/internal/encoding"
)

var _ = Describe("Appender", func() {
	var filePath string

	BeforeEach(func() {
		filePath = path.Join(makeTempDir(), "data.dset")
	})

	writeSession := func(records []testRecord, blockLength int) {
		writer, err := dataset.Create[testRecord](filePath, blockLength)
		Expect(err).ToNot(HaveOccurred())
		Expect(writer.Extend(records)).To(Succeed())
		Expect(writer.Close()).To(Succeed())
	}

	appendSession := func(records []testRecord) {
		appender, err := dataset.OpenAppender[testRecord](filePath)
		Expect(err).ToNot(HaveOccurred())
		Expect(appender.Extend(records)).To(Succeed())
		Expect(appender.Close()).To(Succeed())
	}

	readFile := func() []testRecord {
		reader, err := dataset.Open[testRecord](filePath)
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close() //nolint:errcheck

		result := []testRecord{}
		for record, err := range reader.All() {
			Expect(err).ToNot(HaveOccurred())
			result = append(result, record)
		}
		return result
	}

	DescribeTable("Composing sessions",
		func(total int, blockLength int, splits []int) {
			records := makeRecords(total)
			writeSession(records[:splits[0]], blockLength)
			for i := range len(splits) {
				end := total
				if i+1 < len(splits) {
					end = splits[i+1]
				}
				appendSession(records[splits[i]:end])
			}
			Expect(readFile()).To(Equal(records))
		},
		Entry("When appending to an empty dataset", 25, 10, []int{0}),
		Entry("When appending to a full last block", 25, 10, []int{20}),
		Entry("When appending to a partial last block", 25, 10, []int{13}),
		Entry("When appending nothing", 25, 10, []int{25}),
		Entry("When appending in many small sessions", 30, 7, []int{3, 4, 5, 11, 14, 20, 21}),
		Entry("When appending in large sessions", 1001, 97, []int{1, 500, 1000}),
		Entry("When the block length is 1", 10, 1, []int{2, 5}),
	)

	It("should keep length and block structure of the merged file", func() {
		records := makeRecords(37)
		writeSession(records[:13], 10)
		appendSession(records[13:])

		reader, err := dataset.Open[testRecord](filePath)
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close() //nolint:errcheck
		Expect(reader.Len()).To(Equal(37))
		Expect(reader.NumBlocks()).To(Equal(4))
		Expect(reader.Get(12)).To(Equal(records[12]))
		Expect(reader.Get(13)).To(Equal(records[13]))
	})

	It("should report the records of previous sessions", func() {
		writeSession(makeRecords(13), 10)
		appender, err := dataset.OpenAppender[testRecord](filePath)
		Expect(err).ToNot(HaveOccurred())
		Expect(appender.Len()).To(Equal(13))
		Expect(appender.BlockLength()).To(Equal(10))
		Expect(appender.Close()).To(Succeed())
	})

	It("should keep compression and serializer of the file", func() {
		records := makeRecords(15)
		writer, err := dataset.Create[testRecord](filePath, 4,
			dataset.WithCompression(encoding.CompressionBrotli),
			dataset.WithSerializer(encoding.SerializerJSON),
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(writer.Extend(records[:6])).To(Succeed())
		Expect(writer.Close()).To(Succeed())

		appender, err := dataset.OpenAppender[testRecord](filePath, dataset.WithCompression(encoding.CompressionNone))
		Expect(err).ToNot(HaveOccurred())
		Expect(appender.Extend(records[6:])).To(Succeed())
		Expect(appender.Close()).To(Succeed())

		reader, err := dataset.Open[testRecord](filePath)
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close() //nolint:errcheck
		Expect(reader.Header().Compression).To(Equal(encoding.CompressionBrotli))
		Expect(reader.Header().Serializer).To(Equal(encoding.SerializerJSON))
		Expect(reader.GetSlice(dataset.Omit, dataset.Omit, 1)).To(Equal(records))
	})

	Describe("reclaiming the previous index region", func() {
		It("should start writing at the old index when the last block is full", func() {
			writeSession(makeRecords(20), 10)
			reader, err := dataset.Open[testRecord](filePath)
			Expect(err).ToNot(HaveOccurred())
			header := reader.Header()
			index := reader.Index()
			Expect(reader.Close()).To(Succeed())

			appender, err := dataset.OpenAppender[testRecord](filePath)
			Expect(err).ToNot(HaveOccurred())
			Expect(appender.ReclaimOffset()).To(Equal(header.IndexStart))
			Expect(appender.ReclaimOffset()).To(Equal(index[1].End()))
			Expect(appender.Close()).To(Succeed())
		})

		It("should start writing at the old index when the last block is partial", func() {
			writeSession(makeRecords(25), 10)
			reader, err := dataset.Open[testRecord](filePath)
			Expect(err).ToNot(HaveOccurred())
			header := reader.Header()
			index := reader.Index()
			Expect(reader.Close()).To(Succeed())

			appender, err := dataset.OpenAppender[testRecord](filePath)
			Expect(err).ToNot(HaveOccurred())
			Expect(appender.ReclaimOffset()).To(Equal(header.IndexStart))
			Expect(appender.ReclaimOffset()).To(Equal(index[2].End()))
			Expect(appender.Close()).To(Succeed())

			// The partial block is rewritten at the reclaimed offset and the old bytes stay unreferenced.
			reader, err = dataset.Open[testRecord](filePath)
			Expect(err).ToNot(HaveOccurred())
			defer reader.Close() //nolint:errcheck
			Expect(reader.Index()[2].Start).To(Equal(header.IndexStart))
			Expect(reader.Index()[:2]).To(Equal(index[:2]))
		})

		It("should start writing right after the header space for an empty dataset", func() {
			writeSession(nil, 10)
			appender, err := dataset.OpenAppender[testRecord](filePath)
			Expect(err).ToNot(HaveOccurred())
			Expect(appender.ReclaimOffset()).To(Equal(int64(encoding.HeaderSpace)))
			Expect(appender.Close()).To(Succeed())
		})
	})

	It("should leave the file untouched when a session is abandoned before a block is flushed", func() {
		records := makeRecords(25)
		writeSession(records, 10)
		before, err := os.ReadFile(filePath)
		Expect(err).ToNot(HaveOccurred())

		file, err := os.OpenFile(filePath, os.O_RDWR, 0)
		Expect(err).ToNot(HaveOccurred())
		appender, err := dataset.NewAppender[testRecord](file)
		Expect(err).ToNot(HaveOccurred())
		// Five pending records plus five new ones fill the block, but it is only flushed by the next append.
		Expect(appender.Extend(makeRecords(5))).To(Succeed())
		Expect(file.Close()).To(Succeed())

		after, err := os.ReadFile(filePath)
		Expect(err).ToNot(HaveOccurred())
		Expect(after).To(Equal(before))
		Expect(readFile()).To(Equal(records))
	})

	It("should leave the file unreadable when a session is abandoned after a block was flushed", func() {
		writeSession(makeRecords(25), 10)
		reader, err := dataset.Open[testRecord](filePath)
		Expect(err).ToNot(HaveOccurred())
		header := reader.Header()
		Expect(reader.Close()).To(Succeed())

		file, err := os.OpenFile(filePath, os.O_RDWR, 0)
		Expect(err).ToNot(HaveOccurred())
		appender, err := dataset.NewAppender[testRecord](file)
		Expect(err).ToNot(HaveOccurred())
		Expect(appender.ReclaimOffset()).To(BeNumerically("<", header.IndexEnd()))
		Expect(appender.Extend(makeRecords(6))).To(Succeed())
		Expect(file.Close()).To(Succeed())

		_, err = dataset.Open[testRecord](filePath)
		Expect(err).To(MatchError(encoding.ErrCorruption))
		var corruption *encoding.CorruptionError
		Expect(errors.As(err, &corruption)).To(BeTrue())
		Expect(corruption.Unit).To(Equal(encoding.UnitIndex))
	})

	It("should reject a file which does not exist", func() {
		Expect(dataset.OpenAppender[testRecord](filePath)).Error().To(MatchError(encoding.ErrNotADatasetFile))
	})

	It("should reject an empty file", func() {
		Expect(os.WriteFile(filePath, nil, 0o600)).To(Succeed())
		Expect(dataset.OpenAppender[testRecord](filePath)).Error().To(MatchError(encoding.ErrNotADatasetFile))
	})

	It("should ignore a second close", func() {
		writeSession(makeRecords(5), 10)
		appender, err := dataset.OpenAppender[testRecord](filePath)
		Expect(err).ToNot(HaveOccurred())
		Expect(appender.Append(makeRecord(5))).To(Succeed())
		Expect(appender.Close()).To(Succeed())
		Expect(appender.Close()).To(Succeed())
		Expect(readFile()).To(Equal(makeRecords(6)))
	})
})
