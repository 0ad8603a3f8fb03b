package dataset

// SyncPolicyEveryBlock is flushing the content of the dataset to disk after every block and on close. Blocks are
// still not reachable without the index written on close, but the data is on stable storage for recovery tools.
type SyncPolicyEveryBlock struct {
	file Syncer
}

// SyncPolicyEveryBlock implements SyncPolicy.
var _ SyncPolicy = (*SyncPolicyEveryBlock)(nil)

func NewSyncPolicyEveryBlock(file Syncer) *SyncPolicyEveryBlock {
	return &SyncPolicyEveryBlock{
		file: file,
	}
}

func (s *SyncPolicyEveryBlock) BlockFlushed() error {
	if err := s.file.Sync(); err != nil {
		return syncError(err)
	}
	return nil
}

func (s *SyncPolicyEveryBlock) Closing() error {
	if err := s.file.Sync(); err != nil {
		return syncError(err)
	}
	return nil
}
