package dataset

import intdataset "github.com/backbone81/dataset/internal/dataset"

// Reader provides random and sequential access to the records of a dataset file.
//
// Instances of Reader are NOT safe to use concurrently. You need to provide external synchronization.
type Reader[T any] = intdataset.Reader[T]

// Iterator walks over all records of a dataset in order.
type Iterator[T any] = intdataset.Iterator[T]

// ReaderFile is the file a Reader reads from.
type ReaderFile = intdataset.ReaderFile

// ReaderOption describes the function signature which all reader options need to implement.
type ReaderOption = intdataset.ReaderOption

// Omit stands for a slice bound which was left out.
const Omit = intdataset.Omit

// WithMmap memory maps the file instead of reading it with system calls.
var WithMmap = intdataset.WithMmap

// WithReaderLogger overwrites the default logger.
var WithReaderLogger = intdataset.WithReaderLogger

// Open opens the dataset file at the given path for reading.
func Open[T any](filePath string, options ...ReaderOption) (*Reader[T], error) {
	return intdataset.Open[T](filePath, options...)
}

// NewReader creates a Reader on a file which is already open.
func NewReader[T any](file ReaderFile, options ...ReaderOption) (*Reader[T], error) {
	return intdataset.NewReader[T](file, options...)
}
