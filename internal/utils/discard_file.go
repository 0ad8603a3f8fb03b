package utils

import (
	"errors"
)

var ErrInjectedFailure = errors.New("injected write failure")

// DiscardFile provides a stub for a dataset file which discards all data. It allows us to run large scale benchmarks
// without filling up the disk or memory. Setting FailAt to a positive number N makes the N-th write (counting from 1)
// and every write after it fail with ErrInjectedFailure.
type DiscardFile struct {
	FailAt int
	Writes int
}

func (d *DiscardFile) WriteAt(p []byte, _ int64) (int, error) {
	d.Writes++
	if d.FailAt > 0 && d.Writes >= d.FailAt {
		return 0, ErrInjectedFailure
	}
	return len(p), nil
}

func (d *DiscardFile) Close() error {
	return nil
}

func (d *DiscardFile) Sync() error {
	return nil
}
