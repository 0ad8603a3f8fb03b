package dataset_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/backbone81/dataset/internal/dataset"
	"github.com/backbone81/dataset/internal/utils"
)

var _ = Describe("SyncPolicy", func() {
	It("should parse every sync policy by name", func() {
		for _, syncPolicyType := range dataset.SyncPolicyTypes {
			Expect(dataset.ParseSyncPolicyType(syncPolicyType.String())).To(Equal(syncPolicyType))
		}
		Expect(dataset.ParseSyncPolicyType("sometimes")).Error().To(MatchError(dataset.ErrSyncPolicyUnsupported))
	})

	It("should not sync files which can not be synced", func() {
		syncPolicy, err := dataset.GetSyncPolicy(dataset.SyncPolicyTypeEveryBlock, writerOnly{&utils.DiscardFile{}})
		Expect(err).ToNot(HaveOccurred())
		Expect(syncPolicy).To(BeAssignableToTypeOf(&dataset.SyncPolicyNone{}))
	})

	It("should reject unknown sync policies", func() {
		Expect(dataset.GetSyncPolicy(dataset.SyncPolicyType(42), &utils.MemoryFile{})).Error().To(MatchError(dataset.ErrSyncPolicyUnsupported))
	})
})

// writerOnly hides the Sync method of the wrapped file.
type writerOnly struct {
	file *utils.DiscardFile
}

func (w writerOnly) WriteAt(p []byte, off int64) (int, error) {
	return w.file.WriteAt(p, off)
}

func (w writerOnly) Close() error {
	return w.file.Close()
}
