package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// MagicSize is the number of magic bytes at the very start of every dataset file.
const MagicSize = 12

// Magic holds the magic bytes expected at the start of the file.
var Magic = [MagicSize]byte{'b', 'l', 'o', 'c', 'k', 'd', 'a', 't', 'a', 's', 'e', 't'}

// FormatVersion is the version of the file format written by this package.
const FormatVersion = 1

// SupportedVersions lists all file format versions which can be read. Files with any other version are rejected
// instead of being guessed at.
var SupportedVersions = []uint16{FormatVersion}

// PreheaderSize provides the size in bytes of the preheader: magic bytes, two bytes version and four bytes header size.
const PreheaderSize = MagicSize + 2 + 4

// HeaderSpace is the number of bytes reserved at the start of the file for preheader, header checksum and header.
// The header is rewritten in place on every close, so it must never outgrow this reservation.
const HeaderSpace = 4096

// MaxHeaderSize is the largest encoded header which fits into the reserved header space.
const MaxHeaderSize = HeaderSpace - PreheaderSize - ChecksumSize

// HeaderFiller is the byte the header space is filled with until the header is written on close. A file which was
// never closed is therefore not recognized as a dataset file.
const HeaderFiller = 0x2a

// Preheader is the fixed size, uncompressed and unchecksummed start of the file which bootstraps parsing.
type Preheader struct {
	// The magic bytes identifying a dataset file. Encoded as twelve bytes.
	Magic [MagicSize]byte

	// The version of the file format. Encoded as two bytes.
	Version uint16

	// The size of the encoded header following the header checksum. Encoded as four bytes.
	HeaderSize uint32
}

// EncodePreheader writes the preheader into the first PreheaderSize bytes of buffer.
func EncodePreheader(buffer []byte, preheader Preheader) {
	copy(buffer[:MagicSize], preheader.Magic[:])
	Endian.PutUint16(buffer[MagicSize:MagicSize+2], preheader.Version)
	Endian.PutUint32(buffer[MagicSize+2:PreheaderSize], preheader.HeaderSize)
}

// DecodePreheader reads the preheader from the first PreheaderSize bytes of buffer and validates magic bytes and
// version.
func DecodePreheader(buffer []byte) (Preheader, error) {
	var result Preheader
	if len(buffer) < PreheaderSize {
		return Preheader{}, ErrNotADatasetFile
	}
	copy(result.Magic[:], buffer[:MagicSize])
	result.Version = Endian.Uint16(buffer[MagicSize : MagicSize+2])
	result.HeaderSize = Endian.Uint32(buffer[MagicSize+2 : PreheaderSize])

	if result.Magic != Magic {
		return Preheader{}, ErrNotADatasetFile
	}
	if !slices.Contains(SupportedVersions, result.Version) {
		return Preheader{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, result.Version)
	}
	return result, nil
}

// Header describes the metadata of a dataset file. It is stored msgpack encoded right after the preheader and the
// header checksum.
type Header struct {
	// The version of the file format as read from the preheader. Not part of the encoded header.
	Version uint16

	// The byte offset of the index checksum.
	IndexStart int64

	// The size of the compressed index in bytes.
	IndexSize int64

	// The size of the uncompressed index in bytes. Informational only.
	IndexSizeRaw int64

	// The serializer every record was serialized with.
	Serializer Serializer

	// The compression every block and the index was compressed with.
	Compression Compression

	// The maximum number of records per block. Every block except the last holds exactly this number of records.
	BlockLength int

	// The total number of records in the dataset.
	Length int
}

// headerFields is the on-disk representation of Header.
type headerFields struct {
	IndexStart   int64  `msgpack:"index_start"`
	IndexSize    int64  `msgpack:"index_size"`
	IndexSizeRaw int64  `msgpack:"index_size_raw"`
	Serializer   string `msgpack:"serializer"`
	Compression  string `msgpack:"compression"`
	BlockLength  int    `msgpack:"block_length"`
	Length       int    `msgpack:"length"`
}

// HeaderRegion returns the initial content of the reserved header space.
func HeaderRegion() []byte {
	return bytes.Repeat([]byte{HeaderFiller}, HeaderSpace)
}

// EncodeHeader returns preheader, header checksum and encoded header as they are written to the start of the file.
// An encoded header which does not fit into the reserved header space results in ErrHeaderOverflow.
func EncodeHeader(header Header) ([]byte, error) {
	return encodeHeaderFields(headerFields{
		IndexStart:   header.IndexStart,
		IndexSize:    header.IndexSize,
		IndexSizeRaw: header.IndexSizeRaw,
		Serializer:   header.Serializer.String(),
		Compression:  header.Compression.String(),
		BlockLength:  header.BlockLength,
		Length:       header.Length,
	})
}

func encodeHeaderFields(fields headerFields) ([]byte, error) {
	data, err := msgpack.Marshal(fields)
	if err != nil {
		return nil, headerEncodeError(err)
	}
	if len(data) > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderOverflow, len(data))
	}

	result := make([]byte, PreheaderSize, PreheaderSize+ChecksumSize+len(data))
	EncodePreheader(result, Preheader{
		Magic:      Magic,
		Version:    FormatVersion,
		HeaderSize: uint32(len(data)), //nolint:gosec // bounded by MaxHeaderSize
	})
	if result, err = AppendChecksum(result, data); err != nil {
		return nil, headerEncodeError(err)
	}
	return append(result, data...), nil
}

// WriteHeader encodes the header and writes it to the start of the file.
func WriteHeader(writer io.WriterAt, header Header) error {
	data, err := EncodeHeader(header)
	if err != nil {
		return err
	}
	if _, err := writer.WriteAt(data, 0); err != nil {
		return fmt.Errorf("writing dataset header: %w", err)
	}
	return nil
}

// ReadHeader reads preheader and header from the start of the file. It validates magic bytes, version, the header
// checksum and the names of serializer and compression.
func ReadHeader(reader io.ReaderAt) (Header, error) {
	var buffer [HeaderSpace]byte
	n, err := reader.ReadAt(buffer[:], 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return Header{}, fmt.Errorf("reading dataset header: %w", err)
	}

	preheader, err := DecodePreheader(buffer[:n])
	if err != nil {
		return Header{}, err
	}
	if preheader.HeaderSize > MaxHeaderSize {
		return Header{}, Corruption(UnitHeader, fmt.Errorf("header size %d exceeds the header space", preheader.HeaderSize))
	}
	end := PreheaderSize + ChecksumSize + int(preheader.HeaderSize)
	if n < end {
		return Header{}, Corruption(UnitHeader, io.ErrUnexpectedEOF)
	}

	data := buffer[PreheaderSize+ChecksumSize : end]
	if err := VerifyChecksum(buffer[PreheaderSize:PreheaderSize+ChecksumSize], data, UnitHeader); err != nil {
		return Header{}, err
	}

	var fields headerFields
	if err := msgpack.Unmarshal(data, &fields); err != nil {
		return Header{}, Corruption(UnitHeader, err)
	}
	return decodeHeaderFields(preheader.Version, fields)
}

func decodeHeaderFields(version uint16, fields headerFields) (Header, error) {
	serializer, err := ParseSerializer(fields.Serializer)
	if err != nil {
		return Header{}, fmt.Errorf("%w: unknown serializer %q", ErrUnsupportedFormat, fields.Serializer)
	}
	compression, err := ParseCompression(fields.Compression)
	if err != nil {
		return Header{}, fmt.Errorf("%w: unknown compression %q", ErrUnsupportedFormat, fields.Compression)
	}

	switch {
	case fields.BlockLength < 1:
		return Header{}, Corruption(UnitHeader, fmt.Errorf("invalid block length %d", fields.BlockLength))
	case fields.Length < 0:
		return Header{}, Corruption(UnitHeader, fmt.Errorf("invalid length %d", fields.Length))
	case fields.IndexStart < HeaderSpace || fields.IndexSize < 0:
		return Header{}, Corruption(UnitHeader, fmt.Errorf("invalid index location %d+%d", fields.IndexStart, fields.IndexSize))
	}

	return Header{
		Version:      version,
		IndexStart:   fields.IndexStart,
		IndexSize:    fields.IndexSize,
		IndexSizeRaw: fields.IndexSizeRaw,
		Serializer:   serializer,
		Compression:  compression,
		BlockLength:  fields.BlockLength,
		Length:       fields.Length,
	}, nil
}

// IndexEnd returns the offset of the first byte after the index region.
func (h Header) IndexEnd() int64 {
	return h.IndexStart + ChecksumSize + h.IndexSize
}

// NumBlocks returns the number of blocks a dataset of this length is made of.
func (h Header) NumBlocks() int {
	return (h.Length + h.BlockLength - 1) / h.BlockLength
}

func headerEncodeError(err error) error {
	return fmt.Errorf("encoding dataset header: %w", err)
}
