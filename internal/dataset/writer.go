package dataset

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/backbone81/dataset/internal/encoding"
	"github.com/backbone81/dataset/internal/utils"
)

var errBlockNotFull = errors.New("flushing a block which is not full")

// WriterFile is the file a Writer writes to. Files which additionally implement Syncer are flushed to stable storage
// according to the sync policy.
type WriterFile interface {
	io.WriterAt
	io.Closer
}

// Aborter is implemented by files which can discard everything written to them. When closing a writer fails to
// write index or header, the file is aborted instead of closed.
type Aborter interface {
	Abort() error
}

// Writer appends records to a dataset file. Records are serialized when they are appended and collected in memory
// until a block is full. The index and the header are written on Close, which is the point in time the file becomes
// readable.
//
// Instances of Writer are NOT safe to use concurrently. You need to provide external synchronization.
type Writer[T any] struct {
	noCopy utils.NoCopy

	// The file the writer is writing data to.
	file WriterFile

	// The header which is written on close. Its length is kept up to date with every appended record, the location
	// of the index is only filled in on close.
	header encoding.Header

	// The serialized records of the current block. A full block is only flushed when the next record arrives or the
	// writer is closed.
	block [][]byte

	// The index entries of all blocks flushed so far.
	index []encoding.IndexEntry

	// The offset in bytes from the start of the file where the next block is written to.
	offset int64

	marshal  encoding.Marshaler
	compress encoding.Compressor

	// The policy describing how data is flushed to disk.
	syncPolicy SyncPolicy

	logger *slog.Logger
	closed bool
}

// writerConfig collects the settings of all writer options.
type writerConfig struct {
	compression    encoding.Compression
	serializer     encoding.Serializer
	syncPolicyType SyncPolicyType
	logger         *slog.Logger
}

func newWriterConfig(options []WriterOption) writerConfig {
	config := writerConfig{
		compression:    encoding.DefaultCompression,
		serializer:     encoding.DefaultSerializer,
		syncPolicyType: DefaultSyncPolicy,
		logger:         slog.Default(),
	}
	for _, option := range options {
		option(&config)
	}
	return config
}

// WriterOption describes the function signature which all writer options need to implement.
type WriterOption func(c *writerConfig)

// WithCompression overwrites the default compression of blocks and index.
// Ignored by OpenAppender, which keeps the compression of the file.
func WithCompression(compression encoding.Compression) WriterOption {
	return func(c *writerConfig) {
		c.compression = compression
	}
}

// WithSerializer overwrites the default record serializer.
// Ignored by OpenAppender, which keeps the serializer of the file.
func WithSerializer(serializer encoding.Serializer) WriterOption {
	return func(c *writerConfig) {
		c.serializer = serializer
	}
}

// WithSyncPolicy overwrites the default sync policy.
func WithSyncPolicy(syncPolicyType SyncPolicyType) WriterOption {
	return func(c *writerConfig) {
		c.syncPolicyType = syncPolicyType
	}
}

// WithLogger overwrites the default logger.
func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) {
		c.logger = logger
	}
}

// Create creates the dataset file at the given path, truncating any file which already exists there.
func Create[T any](filePath string, blockLength int, options ...WriterOption) (*Writer[T], error) {
	// Validate before touching the file system, so a bad configuration never truncates an existing file.
	if err := validateBlockLength(blockLength); err != nil {
		return nil, err
	}
	config := newWriterConfig(options)
	if _, err := newCodecs(config.compression, config.serializer); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o664) //nolint:gosec // We can not validate paths in a library.
	if err != nil {
		return nil, fmt.Errorf("creating the dataset file %q: %w", filePath, err)
	}
	writer, err := NewWriter[T](file, blockLength, options...)
	if err != nil {
		return nil, errors.Join(err, file.Close())
	}
	return writer, nil
}

// NewWriter creates a Writer on a file which is already open. The reserved header space is written to the start of
// the file right away.
func NewWriter[T any](file WriterFile, blockLength int, options ...WriterOption) (*Writer[T], error) {
	if err := validateBlockLength(blockLength); err != nil {
		return nil, err
	}
	config := newWriterConfig(options)
	header := encoding.Header{
		Version:     encoding.FormatVersion,
		Serializer:  config.serializer,
		Compression: config.compression,
		BlockLength: blockLength,
	}
	writer, err := newWriter[T](file, header, config)
	if err != nil {
		return nil, err
	}

	if _, err := file.WriteAt(encoding.HeaderRegion(), 0); err != nil {
		return nil, writeFailure(fmt.Errorf("reserving the header space: %w", err))
	}
	writer.offset = encoding.HeaderSpace
	return writer, nil
}

// newWriter creates a writer for the given header without writing anything to the file.
func newWriter[T any](file WriterFile, header encoding.Header, config writerConfig) (*Writer[T], error) {
	codecs, err := newCodecs(header.Compression, header.Serializer)
	if err != nil {
		return nil, err
	}
	syncPolicy, err := GetSyncPolicy(config.syncPolicyType, file)
	if err != nil {
		return nil, err
	}
	return &Writer[T]{
		file:       file,
		header:     header,
		block:      make([][]byte, 0, header.BlockLength),
		offset:     encoding.HeaderSpace,
		marshal:    codecs.marshal,
		compress:   codecs.compress,
		syncPolicy: syncPolicy,
		logger:     config.logger,
	}, nil
}

func validateBlockLength(blockLength int) error {
	if blockLength < 1 {
		return fmt.Errorf("%w: block length must be at least 1, got %d", ErrInvalidArgument, blockLength)
	}
	return nil
}

// Len returns the number of records in the dataset, including the records which are not yet flushed.
func (w *Writer[T]) Len() int {
	return w.header.Length
}

// BlockLength returns the maximum number of records per block.
func (w *Writer[T]) BlockLength() int {
	return w.header.BlockLength
}

// Append adds the record to the end of the dataset. A full block is flushed to the file before the record is added.
func (w *Writer[T]) Append(record T) error {
	if w.closed {
		return ErrClosed
	}
	if len(w.block) >= w.header.BlockLength {
		if err := w.flush(false); err != nil {
			return err
		}
	}

	data, err := w.marshal(record)
	if err != nil {
		return fmt.Errorf("%w: serializing record %d: %w", ErrInvalidArgument, w.header.Length, err)
	}
	w.block = append(w.block, data)
	w.header.Length++
	RecordsAppendedTotal.Inc()
	return nil
}

// Extend appends all records in order. It behaves exactly like calling Append for every record.
func (w *Writer[T]) Extend(records []T) error {
	for _, record := range records {
		if err := w.Append(record); err != nil {
			return err
		}
	}
	return nil
}

// ExtendSeq appends all records produced by the sequence in order.
func (w *Writer[T]) ExtendSeq(records iter.Seq[T]) error {
	for record := range records {
		if err := w.Append(record); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the current block, writes the index and the header and closes the file. Closing an already closed
// writer does nothing. The file is closed even when writing fails.
func (w *Writer[T]) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	finishErr := w.finish()
	if aborter, ok := w.file.(Aborter); ok && finishErr != nil {
		return errors.Join(finishErr, aborter.Abort())
	}
	if err := w.file.Close(); err != nil {
		return errors.Join(finishErr, writeFailure(fmt.Errorf("closing the dataset file: %w", err)))
	}
	return finishErr
}

// Abort ends the session without writing the current block, the index and the header. Files implementing Aborter
// discard everything written, other files are closed and stay unreadable. Aborting a closed writer does nothing.
//
// Aborting an Appender after it flushed a block leaves the whole dataset unreadable, because that block overwrote
// the index of the previous session. Close an Appender to keep the records of earlier sessions.
func (w *Writer[T]) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if aborter, ok := w.file.(Aborter); ok {
		return aborter.Abort()
	}
	return w.file.Close()
}

func (w *Writer[T]) finish() error {
	if err := w.flush(true); err != nil {
		return err
	}

	index, err := encoding.EncodeIndex(w.index, w.compress)
	if err != nil {
		return writeFailure(err)
	}
	if _, err := w.file.WriteAt(index.Data, w.offset); err != nil {
		return writeFailure(fmt.Errorf("writing the index: %w", err))
	}
	w.header.IndexStart = w.offset
	w.header.IndexSize = index.Size
	w.header.IndexSizeRaw = index.RawSize

	if err := encoding.WriteHeader(w.file, w.header); err != nil {
		if errors.Is(err, encoding.ErrHeaderOverflow) {
			return err
		}
		return writeFailure(err)
	}
	return w.syncPolicy.Closing()
}

// flush writes the current block to the file. Only a full block is flushed unless force is set, which is used for
// draining the last block on close. An empty block writes nothing.
func (w *Writer[T]) flush(force bool) error {
	if len(w.block) < w.header.BlockLength && !force {
		return errBlockNotFull
	}
	if len(w.block) == 0 {
		return nil
	}

	start := time.Now()
	blockNumber := len(w.index)
	block, err := encoding.CompressBlock(w.block, w.compress)
	if err != nil {
		return writeFailure(fmt.Errorf("encoding block %d: %w", blockNumber, err))
	}
	if _, err := w.file.WriteAt(block.Data, w.offset); err != nil {
		return writeFailure(fmt.Errorf("writing block %d: %w", blockNumber, err))
	}
	w.index = append(w.index, encoding.IndexEntry{
		Start:   w.offset,
		Size:    block.Size,
		RawSize: block.RawSize,
	})
	w.offset += int64(len(block.Data))
	w.block = make([][]byte, 0, w.header.BlockLength)

	if err := w.syncPolicy.BlockFlushed(); err != nil {
		return err
	}

	duration := time.Since(start)
	if duration > time.Second {
		w.logger.Warn("Block flush was too slow.", "block", blockNumber, "duration", duration)
	}
	BlocksFlushedTotal.Inc()
	BlockFlushDuration.Observe(duration.Seconds())
	return nil
}
