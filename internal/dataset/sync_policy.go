package dataset

import (
	"errors"
	"fmt"
)

var ErrSyncPolicyUnsupported = errors.New("unsupported dataset sync policy")

// SyncPolicyType describes when the content of the dataset file is flushed to stable storage.
type SyncPolicyType int

const (
	SyncPolicyTypeNone SyncPolicyType = iota + 1 // We do not start at 0 to detect missing values.
	SyncPolicyTypeOnClose
	SyncPolicyTypeEveryBlock
)

// String returns a string representation of the sync policy type.
func (s SyncPolicyType) String() string {
	switch s {
	case SyncPolicyTypeNone:
		return "none"
	case SyncPolicyTypeOnClose:
		return "close"
	case SyncPolicyTypeEveryBlock:
		return "block"
	default:
		return "unknown"
	}
}

// SyncPolicyTypes provides a list of supported sync policies. Helpful for writing tests and benchmarks which iterate
// over all possibilities.
var SyncPolicyTypes = []SyncPolicyType{
	SyncPolicyTypeNone,
	SyncPolicyTypeOnClose,
	SyncPolicyTypeEveryBlock,
}

// DefaultSyncPolicy makes a dataset durable once it was closed, which is the only point in time a dataset is
// guaranteed to be readable anyway.
const DefaultSyncPolicy = SyncPolicyTypeOnClose

// ParseSyncPolicyType returns the sync policy type with the given name.
func ParseSyncPolicyType(name string) (SyncPolicyType, error) {
	for _, syncPolicyType := range SyncPolicyTypes {
		if syncPolicyType.String() == name {
			return syncPolicyType, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSyncPolicyUnsupported, name)
}

// SyncPolicy is the interface every sync policy needs to implement.
type SyncPolicy interface {
	// BlockFlushed is called after a block was written to the file.
	BlockFlushed() error

	// Closing is called after index and header were written and before the file is closed.
	Closing() error
}

// Syncer is implemented by files which can be flushed to stable storage, like os.File.
type Syncer interface {
	Sync() error
}

// GetSyncPolicy returns an instance of the sync policy matching the sync policy type. Files which can not be synced
// always get a policy which does nothing.
func GetSyncPolicy(syncPolicyType SyncPolicyType, file WriterFile) (SyncPolicy, error) {
	syncFile, ok := file.(Syncer)
	switch syncPolicyType {
	case SyncPolicyTypeNone:
		return &SyncPolicyNone{}, nil
	case SyncPolicyTypeOnClose:
		if !ok {
			return &SyncPolicyNone{}, nil
		}
		return NewSyncPolicyOnClose(syncFile), nil
	case SyncPolicyTypeEveryBlock:
		if !ok {
			return &SyncPolicyNone{}, nil
		}
		return NewSyncPolicyEveryBlock(syncFile), nil
	default:
		return nil, ErrSyncPolicyUnsupported
	}
}

func syncError(err error) error {
	return writeFailure(fmt.Errorf("syncing the dataset file: %w", err))
}
