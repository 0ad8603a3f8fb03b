//go:build windows

package dataset

import (
	"errors"
	"os"
)

// atomicFile writes next to the destination path and renames over it on Close. Windows does not allow renaming open
// files, so the file is closed before it is renamed.
type atomicFile struct {
	*os.File
	path string
	done bool
}

// atomicFile implements WriterFile and Aborter.
var (
	_ WriterFile = (*atomicFile)(nil)
	_ Aborter    = (*atomicFile)(nil)
)

func newAtomicFile(filePath string) (*atomicFile, error) {
	file, err := os.OpenFile(filePath+".new", os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o664)
	if err != nil {
		return nil, err
	}
	return &atomicFile{File: file, path: filePath}, nil
}

func (a *atomicFile) Close() error {
	if a.done {
		return nil
	}
	if err := a.Sync(); err != nil {
		return errors.Join(err, a.Abort())
	}
	if err := a.File.Close(); err != nil {
		return errors.Join(err, os.Remove(a.Name()))
	}
	if err := os.Rename(a.Name(), a.path); err != nil {
		return errors.Join(err, os.Remove(a.Name()))
	}
	a.done = true
	return nil
}

func (a *atomicFile) Abort() error {
	if a.done {
		return nil
	}
	a.done = true
	return errors.Join(a.File.Close(), os.Remove(a.Name()))
}
