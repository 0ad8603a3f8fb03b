package encoding

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeBlock serializes the container of a block. Each record has already been serialized on its own, the container
// is a msgpack array of binary values. Keeping the record boundaries allows a partial block to be loaded back into a
// writer without deserializing the records.
func EncodeBlock(records [][]byte) ([]byte, error) {
	data, err := msgpack.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding block: %w", err)
	}
	return data, nil
}

// DecodeBlock is the inverse of EncodeBlock.
func DecodeBlock(data []byte) ([][]byte, error) {
	var records [][]byte
	if err := msgpack.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding block: %w", err)
	}
	return records, nil
}

// EncodedBlock is a block as it is written to the file.
type EncodedBlock struct {
	// Checksum followed by the compressed container.
	Data []byte

	// The size of the compressed container, not including the checksum.
	Size int64

	// The size of the uncompressed container.
	RawSize int64
}

// CompressBlock encodes the records of a block into its container, compresses it and prefixes the checksum.
func CompressBlock(records [][]byte, compressor Compressor) (EncodedBlock, error) {
	raw, err := EncodeBlock(records)
	if err != nil {
		return EncodedBlock{}, err
	}
	compressed, err := compressor(raw)
	if err != nil {
		return EncodedBlock{}, err
	}
	data, err := AppendChecksum(make([]byte, 0, ChecksumSize+len(compressed)), compressed)
	if err != nil {
		return EncodedBlock{}, err
	}
	return EncodedBlock{
		Data:    append(data, compressed...),
		Size:    int64(len(compressed)),
		RawSize: int64(len(raw)),
	}, nil
}

// ReadBlock reads the block located by entry, verifies its checksum and returns the serialized records. Failures
// after the bytes have been read are reported as CorruptionError of the given block.
func ReadBlock(reader io.ReaderAt, entry IndexEntry, block int, decompressor Decompressor) ([][]byte, error) {
	unit := BlockUnit(block)
	buffer := make([]byte, ChecksumSize+entry.Size)
	if _, err := reader.ReadAt(buffer, entry.Start); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Corruption(unit, io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("reading %s: %w", unit, err)
	}
	compressed := buffer[ChecksumSize:]
	if err := VerifyChecksum(buffer[:ChecksumSize], compressed, unit); err != nil {
		return nil, err
	}
	raw, err := decompressor(compressed)
	if err != nil {
		return nil, Corruption(unit, err)
	}
	records, err := DecodeBlock(raw)
	if err != nil {
		return nil, Corruption(unit, err)
	}
	return records, nil
}
