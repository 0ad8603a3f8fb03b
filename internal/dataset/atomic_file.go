package dataset

import (
	"errors"
	"fmt"
)

// CreateAtomic creates a Writer which writes to a temporary file next to the given path. The temporary file replaces
// the file at the given path when the writer is closed. Until then readers of the path keep seeing the old file.
// A writer which fails to finish, or which is aborted, removes the temporary file and leaves the path untouched.
func CreateAtomic[T any](filePath string, blockLength int, options ...WriterOption) (*Writer[T], error) {
	if err := validateBlockLength(blockLength); err != nil {
		return nil, err
	}
	file, err := newAtomicFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("creating a temporary file for %q: %w", filePath, err)
	}
	writer, err := NewWriter[T](file, blockLength, options...)
	if err != nil {
		return nil, errors.Join(err, file.Abort())
	}
	return writer, nil
}
