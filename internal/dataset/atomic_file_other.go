//go:build !windows

package dataset

import (
	"errors"

	"github.com/google/renameio/v2"
)

// atomicFile is a dataset file which only replaces the file at its destination path when it is closed after a
// successful session.
type atomicFile struct {
	*renameio.PendingFile
}

// atomicFile implements WriterFile and Aborter.
var (
	_ WriterFile = (*atomicFile)(nil)
	_ Aborter    = (*atomicFile)(nil)
)

func newAtomicFile(filePath string) (*atomicFile, error) {
	file, err := renameio.NewPendingFile(filePath, renameio.WithPermissions(0o664))
	if err != nil {
		return nil, err
	}
	return &atomicFile{PendingFile: file}, nil
}

func (a *atomicFile) Close() error {
	if err := a.CloseAtomicallyReplace(); err != nil {
		return errors.Join(err, a.Cleanup())
	}
	return nil
}

func (a *atomicFile) Abort() error {
	return a.Cleanup()
}
