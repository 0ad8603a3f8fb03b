package dataset

import (
	"cmp"

	intextsort "github.com/backbone81/dataset/internal/extsort"
)

// KeyFunc returns the key a record is sorted by.
type KeyFunc[T any, K cmp.Ordered] = intextsort.KeyFunc[T, K]

// SortOption describes the function signature which all sort options need to implement.
type SortOption = intextsort.Option

// ErrKey is returned when the key of a record can not be computed.
var ErrKey = intextsort.ErrKey

// WithSortLogger overwrites the default logger of Sort.
var WithSortLogger = intextsort.WithLogger

// WithSortProgress registers a callback which is called after every sorted chunk.
var WithSortProgress = intextsort.WithProgress

// Sort writes all records of reader to writer ordered by their key. Records with equal keys keep their relative
// order. At most cacheBlocks blocks worth of records are held in memory at any time.
func Sort[T any, K cmp.Ordered](reader *Reader[T], writer *Writer[T], key KeyFunc[T, K], cacheBlocks int, options ...SortOption) error {
	return intextsort.Sort[T, K](reader, writer, key, cacheBlocks, options...)
}
