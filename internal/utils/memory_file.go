package utils

import (
	"io"
)

// MemoryFile provides a stub for a dataset file which keeps everything in memory. It allows tests to inspect and
// tamper with the raw bytes a writer produced and to hand them to a reader afterward.
type MemoryFile struct {
	Data   []byte
	Closed bool
	Syncs  int
}

func (m *MemoryFile) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(m.Data) {
		m.Data = append(m.Data, make([]byte, end-len(m.Data))...)
	}
	copy(m.Data[off:end], p)
	return len(p), nil
}

func (m *MemoryFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.Data)) {
		return 0, io.EOF
	}
	n := copy(p, m.Data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *MemoryFile) Close() error {
	m.Closed = true
	return nil
}

func (m *MemoryFile) Sync() error {
	m.Syncs++
	return nil
}

// Len returns the number of bytes held by the file.
func (m *MemoryFile) Len() int {
	return len(m.Data)
}
