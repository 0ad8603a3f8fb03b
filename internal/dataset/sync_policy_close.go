package dataset

// SyncPolicyOnClose is flushing the content of the dataset to disk once, after index and header were written.
type SyncPolicyOnClose struct {
	file Syncer
}

// SyncPolicyOnClose implements SyncPolicy.
var _ SyncPolicy = (*SyncPolicyOnClose)(nil)

func NewSyncPolicyOnClose(file Syncer) *SyncPolicyOnClose {
	return &SyncPolicyOnClose{
		file: file,
	}
}

func (s *SyncPolicyOnClose) BlockFlushed() error {
	return nil
}

func (s *SyncPolicyOnClose) Closing() error {
	if err := s.file.Sync(); err != nil {
		return syncError(err)
	}
	return nil
}
