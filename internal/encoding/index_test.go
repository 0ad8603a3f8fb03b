package encoding_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/backbone81/dataset/internal/encoding"
	"github.com/backbone81/dataset/internal/utils"
)

// writeTestIndex places the index right behind a single fake block and returns the matching header.
func writeTestIndex(file *utils.MemoryFile, entries []encoding.IndexEntry, compression encoding.Compression) encoding.Header {
	compressor, err := encoding.GetCompressor(compression)
	Expect(err).ToNot(HaveOccurred())
	index, err := encoding.EncodeIndex(entries, compressor)
	Expect(err).ToNot(HaveOccurred())

	indexStart := int64(encoding.HeaderSpace)
	if len(entries) > 0 {
		indexStart = entries[len(entries)-1].End()
	}
	_, err = file.WriteAt(index.Data, indexStart)
	Expect(err).ToNot(HaveOccurred())
	return encoding.Header{
		IndexStart:   indexStart,
		IndexSize:    index.Size,
		IndexSizeRaw: index.RawSize,
		Compression:  compression,
		BlockLength:  10,
		Length:       10 * len(entries),
	}
}

var _ = Describe("Index", func() {
	entries := []encoding.IndexEntry{
		{Start: 4096, Size: 100, RawSize: 250},
		{Start: 4204, Size: 80, RawSize: 190},
	}

	DescribeTable("Round trip",
		func(compression encoding.Compression) {
			var file utils.MemoryFile
			header := writeTestIndex(&file, entries, compression)

			decompressor, err := encoding.GetDecompressor(compression)
			Expect(err).ToNot(HaveOccurred())
			Expect(encoding.ReadIndex(&file, header, decompressor)).To(Equal(entries))
		},
		Entry("When using none", encoding.CompressionNone),
		Entry("When using zlib", encoding.CompressionZlib),
		Entry("When using lz4", encoding.CompressionLZ4),
	)

	It("should read an empty index", func() {
		var file utils.MemoryFile
		header := writeTestIndex(&file, nil, encoding.CompressionNone)
		decompressor, err := encoding.GetDecompressor(encoding.CompressionNone)
		Expect(err).ToNot(HaveOccurred())
		Expect(encoding.ReadIndex(&file, header, decompressor)).To(BeEmpty())
	})

	It("should store entries as arrays of three integers", func() {
		index, err := encoding.EncodeIndex(entries, func(data []byte) ([]byte, error) { return data, nil })
		Expect(err).ToNot(HaveOccurred())

		var rows [][]int64
		Expect(msgpack.Unmarshal(index.Data[encoding.ChecksumSize:], &rows)).To(Succeed())
		Expect(rows).To(Equal([][]int64{{4096, 100, 250}, {4204, 80, 190}}))
	})

	It("should report a flipped byte as index corruption", func() {
		var file utils.MemoryFile
		header := writeTestIndex(&file, entries, encoding.CompressionNone)
		file.Data[header.IndexStart+encoding.ChecksumSize+1] ^= 0x01

		decompressor, err := encoding.GetDecompressor(encoding.CompressionNone)
		Expect(err).ToNot(HaveOccurred())
		_, err = encoding.ReadIndex(&file, header, decompressor)
		Expect(err).To(MatchError(encoding.ErrCorruption))
		var corruption *encoding.CorruptionError
		Expect(errors.As(err, &corruption)).To(BeTrue())
		Expect(corruption.Unit).To(Equal(encoding.UnitIndex))
	})

	It("should report a truncated file as index corruption", func() {
		var file utils.MemoryFile
		header := writeTestIndex(&file, entries, encoding.CompressionNone)
		file.Data = file.Data[:file.Len()-1]

		decompressor, err := encoding.GetDecompressor(encoding.CompressionNone)
		Expect(err).ToNot(HaveOccurred())
		Expect(encoding.ReadIndex(&file, header, decompressor)).Error().To(MatchError(encoding.ErrCorruption))
	})

	It("should reject an index which does not match the length", func() {
		var file utils.MemoryFile
		header := writeTestIndex(&file, entries, encoding.CompressionNone)
		header.Length = 30

		decompressor, err := encoding.GetDecompressor(encoding.CompressionNone)
		Expect(err).ToNot(HaveOccurred())
		Expect(encoding.ReadIndex(&file, header, decompressor)).Error().To(MatchError(encoding.ErrCorruption))
	})
})

var _ = Describe("Block", func() {
	records := [][]byte{[]byte("first"), {}, []byte("third")}

	DescribeTable("Round trip",
		func(compression encoding.Compression) {
			compressor, err := encoding.GetCompressor(compression)
			Expect(err).ToNot(HaveOccurred())
			decompressor, err := encoding.GetDecompressor(compression)
			Expect(err).ToNot(HaveOccurred())

			block, err := encoding.CompressBlock(records, compressor)
			Expect(err).ToNot(HaveOccurred())
			Expect(block.Data).To(HaveLen(encoding.ChecksumSize + int(block.Size)))

			var file utils.MemoryFile
			_, err = file.WriteAt(block.Data, encoding.HeaderSpace)
			Expect(err).ToNot(HaveOccurred())

			entry := encoding.IndexEntry{Start: encoding.HeaderSpace, Size: block.Size, RawSize: block.RawSize}
			got, err := encoding.ReadBlock(&file, entry, 0, decompressor)
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(HaveLen(3))
			Expect(string(got[0])).To(Equal("first"))
			Expect(got[1]).To(BeEmpty())
			Expect(string(got[2])).To(Equal("third"))
		},
		Entry("When using none", encoding.CompressionNone),
		Entry("When using snappy", encoding.CompressionSnappy),
		Entry("When using zstd", encoding.CompressionZstd),
		Entry("When using brotli", encoding.CompressionBrotli),
	)

	It("should name the block in corruption errors", func() {
		compressor, err := encoding.GetCompressor(encoding.CompressionNone)
		Expect(err).ToNot(HaveOccurred())
		decompressor, err := encoding.GetDecompressor(encoding.CompressionNone)
		Expect(err).ToNot(HaveOccurred())
		block, err := encoding.CompressBlock(records, compressor)
		Expect(err).ToNot(HaveOccurred())

		var file utils.MemoryFile
		_, err = file.WriteAt(block.Data, encoding.HeaderSpace)
		Expect(err).ToNot(HaveOccurred())
		file.Data[encoding.HeaderSpace+encoding.ChecksumSize] ^= 0x80

		entry := encoding.IndexEntry{Start: encoding.HeaderSpace, Size: block.Size}
		_, err = encoding.ReadBlock(&file, entry, 7, decompressor)
		Expect(err).To(MatchError(encoding.ErrCorruption))
		Expect(err.Error()).To(ContainSubstring("block 7"))
	})
})
