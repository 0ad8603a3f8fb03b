package dataset

import intdataset "github.com/backbone81/dataset/internal/dataset"

var (
	ErrIndexOutOfRange = intdataset.ErrIndexOutOfRange
	ErrInvalidArgument = intdataset.ErrInvalidArgument
	ErrWriteFailure    = intdataset.ErrWriteFailure
	ErrClosed          = intdataset.ErrClosed
)

// Writer appends records to a dataset file. The file becomes readable when the writer is closed.
//
// Instances of Writer are NOT safe to use concurrently. You need to provide external synchronization.
type Writer[T any] = intdataset.Writer[T]

// WriterFile is the file a Writer writes to.
type WriterFile = intdataset.WriterFile

// WriterOption describes the function signature which all writer options need to implement.
type WriterOption = intdataset.WriterOption

// SyncPolicyType describes when the content of the dataset file is flushed to stable storage.
type SyncPolicyType = intdataset.SyncPolicyType

const (
	SyncPolicyTypeNone       = intdataset.SyncPolicyTypeNone
	SyncPolicyTypeOnClose    = intdataset.SyncPolicyTypeOnClose
	SyncPolicyTypeEveryBlock = intdataset.SyncPolicyTypeEveryBlock
)

// WithCompression overwrites the default compression of blocks and index.
var WithCompression = intdataset.WithCompression

// WithSerializer overwrites the default record serializer.
var WithSerializer = intdataset.WithSerializer

// WithSyncPolicy overwrites the default sync policy.
var WithSyncPolicy = intdataset.WithSyncPolicy

// WithLogger overwrites the default logger.
var WithLogger = intdataset.WithLogger

// Create creates the dataset file at the given path, truncating any file which already exists there.
func Create[T any](filePath string, blockLength int, options ...WriterOption) (*Writer[T], error) {
	return intdataset.Create[T](filePath, blockLength, options...)
}

// CreateAtomic creates a dataset which replaces the file at the given path only when the writer is closed.
func CreateAtomic[T any](filePath string, blockLength int, options ...WriterOption) (*Writer[T], error) {
	return intdataset.CreateAtomic[T](filePath, blockLength, options...)
}

// NewWriter creates a Writer on a file which is already open.
func NewWriter[T any](file WriterFile, blockLength int, options ...WriterOption) (*Writer[T], error) {
	return intdataset.NewWriter[T](file, blockLength, options...)
}
