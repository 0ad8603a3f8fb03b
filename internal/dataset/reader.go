package dataset

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"slices"

	"golang.org/x/exp/mmap"

	"github.com/backbone81/dataset/internal/encoding"
	"github.com/backbone81/dataset/internal/utils"
)

// ReaderFile is the file a Reader reads from.
type ReaderFile interface {
	io.ReaderAt
	io.Closer
}

// Reader provides random and sequential access to the records of a dataset file.
//
// Instances of Reader are NOT safe to use concurrently. You need to provide external synchronization.
type Reader[T any] struct {
	noCopy utils.NoCopy

	// The file the reader is reading data from.
	file ReaderFile

	header encoding.Header
	index  []encoding.IndexEntry

	unmarshal  encoding.Unmarshaler
	decompress encoding.Decompressor

	// The most recently loaded block. It is replaced whenever a different block is requested.
	cache blockCache[T]

	logger *slog.Logger
	closed bool
}

// blockCache holds the decoded records of a single block.
type blockCache[T any] struct {
	valid   bool
	block   int
	records []T
}

type readerConfig struct {
	mmap   bool
	logger *slog.Logger
}

// ReaderOption describes the function signature which all reader options need to implement.
type ReaderOption func(c *readerConfig)

// WithMmap memory maps the file instead of reading it with system calls. Only used by Open.
func WithMmap() ReaderOption {
	return func(c *readerConfig) {
		c.mmap = true
	}
}

// WithReaderLogger overwrites the default logger.
func WithReaderLogger(logger *slog.Logger) ReaderOption {
	return func(c *readerConfig) {
		c.logger = logger
	}
}

func newReaderConfig(options []ReaderOption) readerConfig {
	config := readerConfig{
		logger: slog.Default(),
	}
	for _, option := range options {
		option(&config)
	}
	return config
}

// Open opens the dataset file at the given path for reading.
func Open[T any](filePath string, options ...ReaderOption) (*Reader[T], error) {
	config := newReaderConfig(options)

	var file ReaderFile
	var err error
	if config.mmap {
		file, err = mmap.Open(filePath)
	} else {
		file, err = os.Open(filePath) //nolint:gosec // We can not validate paths in a library.
	}
	if err != nil {
		return nil, fmt.Errorf("opening the dataset file %q: %w", filePath, err)
	}

	reader, err := NewReader[T](file, options...)
	if err != nil {
		return nil, errors.Join(err, file.Close())
	}
	return reader, nil
}

// NewReader creates a Reader on a file which is already open. Header and index are read and validated right away.
// The caller keeps ownership of the file when an error is returned.
func NewReader[T any](file ReaderFile, options ...ReaderOption) (*Reader[T], error) {
	config := newReaderConfig(options)

	header, err := encoding.ReadHeader(file)
	if err != nil {
		return nil, err
	}
	codecs, err := newCodecs(header.Compression, header.Serializer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", encoding.ErrUnsupportedFormat, err)
	}
	index, err := encoding.ReadIndex(file, header, codecs.decompress)
	if err != nil {
		return nil, err
	}

	config.logger.Debug("Opened dataset.", "length", header.Length, "blocks", len(index),
		"compression", header.Compression, "serializer", header.Serializer)
	return &Reader[T]{
		file:       file,
		header:     header,
		index:      index,
		unmarshal:  codecs.unmarshal,
		decompress: codecs.decompress,
		logger:     config.logger,
	}, nil
}

// Len returns the number of records as stored in the header.
func (r *Reader[T]) Len() int {
	return r.header.Length
}

// BlockLength returns the maximum number of records per block.
func (r *Reader[T]) BlockLength() int {
	return r.header.BlockLength
}

// NumBlocks returns the number of blocks in the dataset.
func (r *Reader[T]) NumBlocks() int {
	return len(r.index)
}

// Header returns the header of the dataset file.
func (r *Reader[T]) Header() encoding.Header {
	return r.header
}

// Index returns the location of every block in the dataset file.
func (r *Reader[T]) Index() []encoding.IndexEntry {
	return slices.Clone(r.index)
}

// Close closes the underlying file. Closing an already closed reader does nothing.
func (r *Reader[T]) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.cache = blockCache[T]{}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("closing the dataset file: %w", err)
	}
	return nil
}

// Get returns the record at position i. Negative positions count from the end of the dataset.
func (r *Reader[T]) Get(i int) (T, error) {
	var zero T
	if r.closed {
		return zero, ErrClosed
	}
	position, err := r.normalize(i)
	if err != nil {
		return zero, err
	}
	records, err := r.loadBlock(position / r.header.BlockLength)
	if err != nil {
		return zero, err
	}
	return records[position%r.header.BlockLength], nil
}

// GetMany returns the records at the given positions in the order of positions. Positions are grouped by block, so
// every block is loaded at most once regardless of the order of positions.
func (r *Reader[T]) GetMany(positions []int) ([]T, error) {
	if r.closed {
		return nil, ErrClosed
	}
	normalized := make([]int, len(positions))
	for i, position := range positions {
		var err error
		if normalized[i], err = r.normalize(position); err != nil {
			return nil, err
		}
	}

	// Visit the requests ordered by block while keeping the requested order within a block.
	order := make([]int, len(normalized))
	for i := range order {
		order[i] = i
	}
	blockLength := r.header.BlockLength
	slices.SortStableFunc(order, func(a int, b int) int {
		return normalized[a]/blockLength - normalized[b]/blockLength
	})

	result := make([]T, len(normalized))
	for _, i := range order {
		records, err := r.loadBlock(normalized[i] / blockLength)
		if err != nil {
			return nil, err
		}
		result[i] = records[normalized[i]%blockLength]
	}
	return result, nil
}

// GetSlice returns the records selected by start, stop and step with the usual slicing rules: negative bounds count
// from the end, out of range bounds are clamped and a negative step walks backwards. Pass Omit for a bound to use its
// default. A step of zero is rejected.
func (r *Reader[T]) GetSlice(start int, stop int, step int) ([]T, error) {
	if r.closed {
		return nil, ErrClosed
	}
	positions, err := SlicePositions(r.header.Length, start, stop, step)
	if err != nil {
		return nil, err
	}
	return r.GetMany(positions)
}

// Iterate returns a new iterator over all records in order. Only a single block is held in memory at any time.
func (r *Reader[T]) Iterate() *Iterator[T] {
	return &Iterator[T]{
		reader: r,
	}
}

// All returns a sequence over all records in order. Iteration stops after the first error, which is yielded together
// with the zero value of T.
func (r *Reader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		iterator := r.Iterate()
		for iterator.Next() {
			if !yield(iterator.Value(), nil) {
				return
			}
		}
		if err := iterator.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// normalize converts a possibly negative position into a position in [0, Len).
func (r *Reader[T]) normalize(i int) (int, error) {
	position := i
	if position < 0 {
		position += r.header.Length
	}
	if position < 0 || position >= r.header.Length {
		return 0, indexOutOfRange(i, r.header.Length)
	}
	return position, nil
}

// loadBlock returns the decoded records of the given block. The checksum is verified on every load from the file.
func (r *Reader[T]) loadBlock(block int) ([]T, error) {
	if r.cache.valid && r.cache.block == block {
		BlockCacheHitsTotal.Inc()
		return r.cache.records, nil
	}
	r.cache = blockCache[T]{}

	data, err := encoding.ReadBlock(r.file, r.index[block], block, r.decompress)
	if err != nil {
		if errors.Is(err, encoding.ErrChecksumMismatch) {
			ChecksumFailuresTotal.Inc()
			r.logger.Warn("Block failed checksum verification.", "block", block)
		}
		return nil, err
	}
	BlockLoadsTotal.Inc()

	if want := r.blockSize(block); len(data) != want {
		return nil, encoding.Corruption(encoding.BlockUnit(block), fmt.Errorf("holds %d records, expected %d", len(data), want))
	}
	records := make([]T, len(data))
	for i, recordData := range data {
		if err := r.unmarshal(recordData, &records[i]); err != nil {
			return nil, encoding.Corruption(encoding.BlockUnit(block), fmt.Errorf("deserializing record %d: %w", i, err))
		}
	}

	r.cache = blockCache[T]{
		valid:   true,
		block:   block,
		records: records,
	}
	return records, nil
}

// blockSize returns the number of records the given block holds.
func (r *Reader[T]) blockSize(block int) int {
	return min(r.header.BlockLength, r.header.Length-block*r.header.BlockLength)
}
