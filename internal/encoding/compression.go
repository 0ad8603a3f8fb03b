package encoding

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression describes the codec which is applied to every block and to the index of a dataset file. The string
// representation is what gets stored in the file header and must therefore never change.
type Compression int

const (
	CompressionNone Compression = iota + 1 // We do not start at 0 to detect missing values.
	CompressionZlib
	CompressionLZ4
	CompressionSnappy
	CompressionZstd
	CompressionBrotli
)

// String returns the name of the compression as stored in the file header.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionLZ4:
		return "lz4"
	case CompressionSnappy:
		return "snappy"
	case CompressionZstd:
		return "zstd"
	case CompressionBrotli:
		return "brotli"
	default:
		return "unknown" //nolint:goconst
	}
}

// Compressions provides a list of supported compressions. Helpful for writing tests and benchmarks which iterate over
// all possibilities.
var Compressions = []Compression{
	CompressionNone,
	CompressionZlib,
	CompressionLZ4,
	CompressionSnappy,
	CompressionZstd,
	CompressionBrotli,
}

// DefaultCompression is a fast block compressor which should work fine for most use cases.
const DefaultCompression = CompressionLZ4

// ParseCompression returns the compression with the given name.
func ParseCompression(name string) (Compression, error) {
	for _, compression := range Compressions {
		if compression.String() == name {
			return compression, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown compression %q", ErrConfiguration, name)
}

// Compressor is the function signature which all block compressors need to implement.
type Compressor func(data []byte) ([]byte, error)

// Decompressor is the function signature which all block decompressors need to implement. It is the inverse of the
// Compressor of the same compression.
type Decompressor func(data []byte) ([]byte, error)

// GetCompressor returns the compressor matching the compression.
func GetCompressor(compression Compression) (Compressor, error) {
	switch compression {
	case CompressionNone:
		return compressNone, nil
	case CompressionZlib:
		return compressZlib, nil
	case CompressionLZ4:
		return compressLZ4, nil
	case CompressionSnappy:
		return compressSnappy, nil
	case CompressionZstd:
		return compressZstd, nil
	case CompressionBrotli:
		return compressBrotli, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrConfiguration, compression)
	}
}

// GetDecompressor returns the decompressor matching the compression.
func GetDecompressor(compression Compression) (Decompressor, error) {
	switch compression {
	case CompressionNone:
		return decompressNone, nil
	case CompressionZlib:
		return decompressZlib, nil
	case CompressionLZ4:
		return decompressLZ4, nil
	case CompressionSnappy:
		return decompressSnappy, nil
	case CompressionZstd:
		return decompressZstd, nil
	case CompressionBrotli:
		return decompressBrotli, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrConfiguration, compression)
	}
}

func compressNone(data []byte) ([]byte, error) {
	return data, nil
}

func decompressNone(data []byte) ([]byte, error) {
	return data, nil
}

// zlibLevel matches the level the format has always been written with.
const zlibLevel = 6

func compressZlib(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, err := zlib.NewWriterLevel(&buffer, zlibLevel)
	if err != nil {
		return nil, compressError(CompressionZlib, err)
	}
	return finishStream(CompressionZlib, &buffer, writer, data)
}

func decompressZlib(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, decompressError(CompressionZlib, err)
	}
	defer reader.Close() //nolint:errcheck // nothing to flush on a reader
	return readStream(CompressionZlib, reader)
}

func compressLZ4(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	return finishStream(CompressionLZ4, &buffer, lz4.NewWriter(&buffer), data)
}

func decompressLZ4(data []byte) ([]byte, error) {
	return readStream(CompressionLZ4, lz4.NewReader(bytes.NewReader(data)))
}

func compressSnappy(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func decompressSnappy(data []byte) ([]byte, error) {
	result, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, decompressError(CompressionSnappy, err)
	}
	return result, nil
}

// The zstd encoder and decoder are safe for concurrent use of EncodeAll and DecodeAll, so a single instance is shared.
var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil)
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil)
	})
)

func compressZstd(data []byte) ([]byte, error) {
	encoder, err := zstdEncoder()
	if err != nil {
		return nil, compressError(CompressionZstd, err)
	}
	return encoder.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	decoder, err := zstdDecoder()
	if err != nil {
		return nil, decompressError(CompressionZstd, err)
	}
	result, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, decompressError(CompressionZstd, err)
	}
	return result, nil
}

func compressBrotli(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	return finishStream(CompressionBrotli, &buffer, brotli.NewWriterLevel(&buffer, brotli.DefaultCompression), data)
}

func decompressBrotli(data []byte) ([]byte, error) {
	return readStream(CompressionBrotli, brotli.NewReader(bytes.NewReader(data)))
}

// finishStream pushes data through a streaming compressor and returns what ended up in buffer.
func finishStream(compression Compression, buffer *bytes.Buffer, writer io.WriteCloser, data []byte) ([]byte, error) {
	if _, err := writer.Write(data); err != nil {
		return nil, compressError(compression, err)
	}
	if err := writer.Close(); err != nil {
		return nil, compressError(compression, err)
	}
	return buffer.Bytes(), nil
}

func readStream(compression Compression, reader io.Reader) ([]byte, error) {
	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, decompressError(compression, err)
	}
	return result, nil
}

func compressError(compression Compression, err error) error {
	return fmt.Errorf("compressing with %s: %w", compression, err)
}

func decompressError(compression Compression, err error) error {
	return fmt.Errorf("decompressing with %s: %w", compression, err)
}
