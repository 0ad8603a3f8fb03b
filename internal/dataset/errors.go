package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange = errors.New("dataset index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrWriteFailure    = errors.New("dataset write failure")
	ErrClosed          = errors.New("dataset is closed")
)

func writeFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrWriteFailure, err)
}

func indexOutOfRange(index int, length int) error {
	return fmt.Errorf("%w: %d not in [%d, %d)", ErrIndexOutOfRange, index, -length, length)
}
