// Package extsort sorts datasets which do not fit into memory. Only the keys of all records are held in memory, the
// records themselves are moved from the source to the target dataset in chunks of a configurable number of blocks.
package extsort

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/backbone81/dataset/internal/dataset"
)

var ErrKey = errors.New("computing the sort key")

// Source is the dataset the records are sorted from. It is implemented by dataset.Reader.
type Source[T any] interface {
	Len() int
	BlockLength() int
	All() iter.Seq2[T, error]
	GetMany(positions []int) ([]T, error)
}

// Target is the dataset the sorted records are written to. It is implemented by dataset.Writer and dataset.Appender.
type Target[T any] interface {
	Extend(records []T) error
}

// KeyFunc returns the key a record is sorted by.
type KeyFunc[T any, K cmp.Ordered] func(record T) (K, error)

// Progress is called after every chunk with the number of records written so far and the total number of records.
type Progress func(done int, total int)

type config struct {
	logger   *slog.Logger
	progress Progress
}

// Option describes the function signature which all sort options need to implement.
type Option func(c *config)

// WithLogger overwrites the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithProgress registers a callback which is called after every chunk.
func WithProgress(progress Progress) Option {
	return func(c *config) {
		c.progress = progress
	}
}

// Sort writes all records of source to target ordered by their key. Records with equal keys keep their relative
// order. At most cacheBlocks times the block length of source records are held in memory at any time.
func Sort[T any, K cmp.Ordered](source Source[T], target Target[T], key KeyFunc[T, K], cacheBlocks int, options ...Option) error {
	if cacheBlocks < 1 {
		return fmt.Errorf("%w: cache blocks must be at least 1, got %d", dataset.ErrInvalidArgument, cacheBlocks)
	}
	config := config{
		logger:   slog.Default(),
		progress: func(int, int) {},
	}
	for _, option := range options {
		option(&config)
	}

	start := time.Now()
	order, err := sortedOrder(source, key)
	if err != nil {
		return err
	}

	chunkSize := cacheBlocks * source.BlockLength()
	config.logger.Info("Sorting dataset.", "records", len(order), "chunk", chunkSize)
	for chunkStart := 0; chunkStart < len(order); chunkStart += chunkSize {
		chunk := order[chunkStart:min(chunkStart+chunkSize, len(order))]
		records, err := fetchChunk(source, chunk)
		if err != nil {
			return err
		}
		if err := target.Extend(records); err != nil {
			return fmt.Errorf("writing sorted records: %w", err)
		}

		done := chunkStart + len(chunk)
		PassesTotal.Inc()
		config.progress(done, len(order))
		config.logger.Info("Sorted chunk written.", "done", done, "total", len(order))
	}

	duration := time.Since(start)
	Duration.Observe(duration.Seconds())
	config.logger.Info("Sorted dataset.", "records", len(order), "duration", duration)
	return nil
}

// sortedOrder reads the key of every record and returns the positions of the records in sorted order.
func sortedOrder[T any, K cmp.Ordered](source Source[T], key KeyFunc[T, K]) ([]int, error) {
	keys := make([]K, 0, source.Len())
	for record, err := range source.All() {
		if err != nil {
			return nil, fmt.Errorf("reading record %d: %w", len(keys), err)
		}
		recordKey, err := key(record)
		if err != nil {
			return nil, fmt.Errorf("%w of record %d: %w", ErrKey, len(keys), err)
		}
		keys = append(keys, recordKey)
	}

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a int, b int) int {
		return cmp.Compare(keys[a], keys[b])
	})
	return order, nil
}

// fetchChunk returns the records at the given source positions in the order of the positions. The records are
// requested in source order to make the most of the block cache of the source, then put into place in the same slice.
func fetchChunk[T any](source Source[T], positions []int) ([]T, error) {
	slots := make([]int, len(positions))
	for i := range slots {
		slots[i] = i
	}
	slices.SortFunc(slots, func(a int, b int) int {
		return positions[a] - positions[b]
	})

	sourceOrder := make([]int, len(slots))
	for i, slot := range slots {
		sourceOrder[i] = positions[slot]
	}
	fetched, err := source.GetMany(sourceOrder)
	if err != nil {
		return nil, fmt.Errorf("reading records to sort: %w", err)
	}

	// The record at i belongs to slots[i]. Following the cycles of the permutation moves it there without a second
	// buffer.
	for i := range fetched {
		for slots[i] != i {
			slot := slots[i]
			fetched[i], fetched[slot] = fetched[slot], fetched[i]
			slots[i], slots[slot] = slots[slot], slots[i]
		}
	}
	return fetched, nil
}
