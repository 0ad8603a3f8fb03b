package utils

import "sync"

// NoCopy is embedded into writers and readers which own a file and cached state. go vet reports copies of structs
// holding a sync.Locker, which makes accidental copies of those handles visible.
type NoCopy struct{}

var _ sync.Locker = (*NoCopy)(nil)

// Lock does nothing.
func (*NoCopy) Lock() {}

// Unlock does nothing.
func (*NoCopy) Unlock() {}
