package encoding

import (
	"errors"
	"fmt"
)

var (
	ErrNotADatasetFile    = errors.New("not a dataset file")
	ErrUnsupportedVersion = errors.New("unsupported dataset version")
	ErrUnsupportedFormat  = errors.New("unsupported dataset format")
	ErrConfiguration      = errors.New("invalid dataset configuration")
	ErrCorruption         = errors.New("dataset corruption")
	ErrHeaderOverflow     = errors.New("dataset header exceeds the reserved header space")
)

// Unit identifies the structural unit of a dataset file which is protected by its own checksum.
type Unit int

const (
	UnitHeader Unit = -2
	UnitIndex  Unit = -1
)

// BlockUnit returns the unit describing the n-th block of the dataset.
func BlockUnit(n int) Unit {
	return Unit(n)
}

// IsBlock reports if the unit is a block.
func (u Unit) IsBlock() bool {
	return u >= 0
}

// Block returns the block number. Only meaningful when IsBlock reports true.
func (u Unit) Block() int {
	return int(u)
}

// String returns a string representation of the unit.
func (u Unit) String() string {
	switch {
	case u == UnitHeader:
		return "header"
	case u == UnitIndex:
		return "index"
	case u.IsBlock():
		return fmt.Sprintf("block %d", int(u))
	default:
		return "unknown"
	}
}

// CorruptionError is returned whenever the content of a unit does not match its checksum or cannot be decoded.
// It matches ErrCorruption with errors.Is.
type CorruptionError struct {
	// The unit which failed validation.
	Unit Unit

	// The underlying cause, if any.
	Err error
}

// CorruptionError implements error.
var _ error = (*CorruptionError)(nil)

func (e *CorruptionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrCorruption, e.Unit)
	}
	return fmt.Sprintf("%s: %s: %s", ErrCorruption, e.Unit, e.Err)
}

func (e *CorruptionError) Is(target error) bool {
	return target == ErrCorruption
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// Corruption wraps err into a CorruptionError for the given unit.
func Corruption(unit Unit, err error) error {
	return &CorruptionError{Unit: unit, Err: err}
}
