package dataset

import intdataset "github.com/backbone81/dataset/internal/dataset"

// Appender continues writing to an existing dataset file in a new session.
type Appender[T any] = intdataset.Appender[T]

// AppenderFile is the file an Appender works on.
type AppenderFile = intdataset.AppenderFile

// OpenAppender opens the dataset file at the given path for appending. Compression, serializer and block length are
// taken from the file.
func OpenAppender[T any](filePath string, options ...WriterOption) (*Appender[T], error) {
	return intdataset.OpenAppender[T](filePath, options...)
}

// NewAppender creates an Appender on a file which is already open.
func NewAppender[T any](file AppenderFile, options ...WriterOption) (*Appender[T], error) {
	return intdataset.NewAppender[T](file, options...)
}
