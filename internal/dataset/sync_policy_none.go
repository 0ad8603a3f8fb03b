package dataset

// SyncPolicyNone is never flushing the content of the dataset to disk. This might improve performance but increases
// the risk of data loss in case of a hardware failure.
type SyncPolicyNone struct{}

// SyncPolicyNone implements SyncPolicy.
var _ SyncPolicy = (*SyncPolicyNone)(nil)

func (s *SyncPolicyNone) BlockFlushed() error {
	return nil
}

func (s *SyncPolicyNone) Closing() error {
	return nil
}
