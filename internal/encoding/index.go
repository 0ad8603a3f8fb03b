package encoding

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// IndexEntry locates a single block in the dataset file.
type IndexEntry struct {
	// The byte offset of the block checksum.
	Start int64

	// The size of the compressed block container, not including the checksum.
	Size int64

	// The size of the uncompressed block container. Informational only.
	RawSize int64
}

// End returns the offset of the first byte after the block.
func (e IndexEntry) End() int64 {
	return e.Start + ChecksumSize + e.Size
}

// EncodedIndex is the compressed form of the index together with the sizes recorded in the header.
type EncodedIndex struct {
	// Checksum followed by the compressed index.
	Data []byte

	// The size of the compressed index, not including the checksum.
	Size int64

	// The size of the uncompressed index.
	RawSize int64
}

// EncodeIndex serializes the index as a msgpack array of three element arrays and compresses it.
func EncodeIndex(entries []IndexEntry, compressor Compressor) (EncodedIndex, error) {
	rows := make([][3]int64, len(entries))
	for i, entry := range entries {
		rows[i] = [3]int64{entry.Start, entry.Size, entry.RawSize}
	}
	raw, err := msgpack.Marshal(rows)
	if err != nil {
		return EncodedIndex{}, indexEncodeError(err)
	}
	compressed, err := compressor(raw)
	if err != nil {
		return EncodedIndex{}, indexEncodeError(err)
	}
	data, err := AppendChecksum(make([]byte, 0, ChecksumSize+len(compressed)), compressed)
	if err != nil {
		return EncodedIndex{}, indexEncodeError(err)
	}
	return EncodedIndex{
		Data:    append(data, compressed...),
		Size:    int64(len(compressed)),
		RawSize: int64(len(raw)),
	}, nil
}

// ReadIndex reads, verifies and decodes the index described by the header. Any failure after the index bytes have
// been read is reported as a CorruptionError of the index unit.
func ReadIndex(reader io.ReaderAt, header Header, decompressor Decompressor) ([]IndexEntry, error) {
	buffer := make([]byte, ChecksumSize+header.IndexSize)
	if _, err := reader.ReadAt(buffer, header.IndexStart); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Corruption(UnitIndex, io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("reading dataset index: %w", err)
	}
	compressed := buffer[ChecksumSize:]
	if err := VerifyChecksum(buffer[:ChecksumSize], compressed, UnitIndex); err != nil {
		return nil, err
	}
	raw, err := decompressor(compressed)
	if err != nil {
		return nil, Corruption(UnitIndex, err)
	}

	var rows [][]int64
	if err := msgpack.Unmarshal(raw, &rows); err != nil {
		return nil, Corruption(UnitIndex, err)
	}
	if len(rows) != header.NumBlocks() {
		return nil, Corruption(UnitIndex, fmt.Errorf("index holds %d blocks, expected %d", len(rows), header.NumBlocks()))
	}

	result := make([]IndexEntry, len(rows))
	for i, row := range rows {
		if len(row) != 3 {
			return nil, Corruption(UnitIndex, fmt.Errorf("index entry %d has %d fields", i, len(row)))
		}
		entry := IndexEntry{Start: row[0], Size: row[1], RawSize: row[2]}
		if entry.Start < HeaderSpace || entry.Size < 0 || entry.End() > header.IndexStart {
			return nil, Corruption(UnitIndex, fmt.Errorf("index entry %d out of bounds", i))
		}
		result[i] = entry
	}
	return result, nil
}

func indexEncodeError(err error) error {
	return fmt.Errorf("encoding dataset index: %w", err)
}
