package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backbone81/dataset/pkg/dataset"
)

var (
	sortOutputFile  string
	sortKey         string
	sortKeyType     string
	sortCacheBlocks int
	sortBlockLength int
)

// sortCmd represents the sort command.
var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Writes the records of the dataset sorted by a key into a new dataset.",
	Long: `Writes the records of the dataset sorted by a key into a new dataset.

The key is "self" for sorting by the record itself, "index:N" for sorting list records by their N-th element or
"field:NAME" for sorting map records by the field NAME. Records with equal keys keep their order. The new dataset
keeps compression and serializer of the source and only replaces the output file once it is complete.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sortOutputFile == "" {
			return errors.New("missing output file")
		}
		extract, err := parseKey(sortKey)
		if err != nil {
			return err
		}

		reader, err := dataset.Open[any](filePath)
		if err != nil {
			return err
		}
		defer reader.Close() //nolint:errcheck

		blockLength := sortBlockLength
		if blockLength == 0 {
			blockLength = reader.BlockLength()
		}
		writer, err := dataset.CreateAtomic[any](sortOutputFile, blockLength,
			dataset.WithCompression(reader.Header().Compression),
			dataset.WithSerializer(reader.Header().Serializer),
		)
		if err != nil {
			return err
		}

		progress := dataset.WithSortProgress(func(done int, total int) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\rsorted %d of %d records", done, total)
		})
		switch sortKeyType {
		case "number":
			err = dataset.Sort[any, float64](reader, writer, numberKey(extract), sortCacheBlocks, progress)
		case "string":
			err = dataset.Sort[any, string](reader, writer, stringKey(extract), sortCacheBlocks, progress)
		default:
			err = fmt.Errorf("unsupported key type %q", sortKeyType)
		}
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return errors.Join(err, writer.Abort())
		}
		return writer.Close()
	},
}

func init() {
	rootCmd.AddCommand(sortCmd)

	sortCmd.Flags().StringVarP(&sortOutputFile, "output-file", "o", "", "The dataset file to write the sorted records to.")
	sortCmd.Flags().StringVarP(&sortKey, "key", "k", "self", "The key to sort by: self, index:N or field:NAME.")
	sortCmd.Flags().StringVar(&sortKeyType, "key-type", "number", "The type of the key: number or string.")
	sortCmd.Flags().IntVar(&sortCacheBlocks, "cache-blocks", 16, "The number of blocks held in memory while sorting.")
	sortCmd.Flags().IntVar(&sortBlockLength, "block-length", 0, "The block length of the new dataset. Defaults to the block length of the source.")
}
