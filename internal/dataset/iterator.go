package dataset

// Iterator walks over all records of a dataset in order.
type Iterator[T any] struct {
	reader *Reader[T]

	// The position of the record the next call to Next reads.
	next int

	// The records of the block the iterator is currently in. Kept separate from the reader cache, so random access
	// in between calls to Next does not force a reload.
	block      int
	records    []T
	hasRecords bool

	value T
	err   error
}

// Next reports if a record has been successfully read. When it returns true, Value() contains the record. When it
// returns false, Err() might be nil if the iterator has reached the end of the dataset, or it might return an error.
func (it *Iterator[T]) Next() bool {
	if it.err != nil || it.next >= it.reader.Len() {
		return false
	}
	if it.reader.closed {
		it.err = ErrClosed
		return false
	}

	blockLength := it.reader.header.BlockLength
	block := it.next / blockLength
	if !it.hasRecords || it.block != block {
		records, err := it.reader.loadBlock(block)
		if err != nil {
			it.err = err
			return false
		}
		it.block = block
		it.records = records
		it.hasRecords = true
	}
	it.value = it.records[it.next%blockLength]
	it.next++
	return true
}

// Value returns the record read by the last call to Next.
func (it *Iterator[T]) Value() T {
	return it.value
}

// Err returns the error which stopped the iteration.
func (it *Iterator[T]) Err() error {
	return it.err
}
