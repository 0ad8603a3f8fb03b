package dataset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/backbone81/dataset/internal/encoding"
)

// AppenderFile is the file an Appender works on. It is read for recovering the previous session and written to
// afterward.
type AppenderFile interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// Appender continues writing to an existing dataset file. It behaves like a Writer which already holds all records of
// the previous session.
//
// Appending is session based: the first block flushed by the appender overwrites the index of the previous session.
// Until the appender is closed successfully, a crash after that point leaves the file unreadable. A crash before the
// first block flush leaves the file untouched.
type Appender[T any] struct {
	*Writer[T]

	// The offset the first new block is written to.
	reclaimOffset int64
}

// OpenAppender opens the dataset file at the given path for appending. Compression, serializer and block length are
// taken from the file, options for them are ignored.
func OpenAppender[T any](filePath string, options ...WriterOption) (*Appender[T], error) {
	file, err := os.OpenFile(filePath, os.O_RDWR, 0) //nolint:gosec // We can not validate paths in a library.
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q does not exist", encoding.ErrNotADatasetFile, filePath)
		}
		return nil, fmt.Errorf("opening the dataset file %q: %w", filePath, err)
	}

	appender, err := NewAppender[T](file, options...)
	if err != nil {
		return nil, errors.Join(err, file.Close())
	}
	return appender, nil
}

// NewAppender creates an Appender on a file which is already open. Nothing is written to the file until the first
// block is flushed. The caller keeps ownership of the file when an error is returned.
func NewAppender[T any](file AppenderFile, options ...WriterOption) (*Appender[T], error) {
	header, err := encoding.ReadHeader(file)
	if err != nil {
		return nil, err
	}
	config := newWriterConfig(options)
	writer, err := newWriter[T](file, header, config)
	if err != nil {
		return nil, err
	}
	decompress, err := encoding.GetDecompressor(header.Compression)
	if err != nil {
		return nil, err
	}
	index, err := encoding.ReadIndex(file, header, decompress)
	if err != nil {
		return nil, err
	}

	appender := &Appender[T]{
		Writer: writer,
	}
	if err := appender.recoverLastBlock(file, index, decompress); err != nil {
		return nil, err
	}
	appender.reclaimIndexRegion()

	config.logger.Debug("Opened dataset for appending.", "length", header.Length, "blocks", len(index),
		"pending", len(writer.block), "offset", appender.reclaimOffset, "reclaimed", header.IndexEnd()-appender.reclaimOffset)
	return appender, nil
}

// recoverLastBlock takes over the index of the previous session. A partial last block is loaded back into the
// current block and dropped from the index, so it is rewritten together with the new records.
func (a *Appender[T]) recoverLastBlock(file io.ReaderAt, index []encoding.IndexEntry, decompress encoding.Decompressor) error {
	pending := a.header.Length % a.header.BlockLength
	if pending == 0 {
		a.index = index
		return nil
	}

	last := len(index) - 1
	records, err := encoding.ReadBlock(file, index[last], last, decompress)
	if err != nil {
		return err
	}
	if len(records) != pending {
		return encoding.Corruption(encoding.BlockUnit(last), fmt.Errorf("holds %d records, expected %d", len(records), pending))
	}
	a.index = index[:last]
	a.block = append(a.block, records...)
	return nil
}

// reclaimIndexRegion positions the writer at the start of the index of the previous session. The index is rewritten
// on close anyway, so its region is reused for new blocks. The bytes of a recovered partial block stay behind
// unreferenced.
func (a *Appender[T]) reclaimIndexRegion() {
	a.reclaimOffset = a.header.IndexStart
	a.offset = a.reclaimOffset
}

// ReclaimOffset returns the offset the first new block is written to.
func (a *Appender[T]) ReclaimOffset() int64 {
	return a.reclaimOffset
}
