package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/backbone81/dataset/pkg/dataset"
)

var (
	importInputFile   string
	importAppend      bool
	importBlockLength int
	importCompression string
	importSerializer  string
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Writes JSON lines into a dataset.",
	Long: `Writes JSON lines into a dataset.

Every non-empty line of the input becomes one record. A new dataset only replaces the file once all lines were
written. With --append the records are added to the existing dataset instead.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := cmd.InOrStdin()
		if importInputFile != "" && importInputFile != "-" {
			file, err := os.Open(importInputFile)
			if err != nil {
				return err
			}
			defer file.Close() //nolint:errcheck
			input = file
		}

		if importAppend {
			return appendRecords(input)
		}

		compression, err := dataset.ParseCompression(importCompression)
		if err != nil {
			return err
		}
		serializer, err := dataset.ParseSerializer(importSerializer)
		if err != nil {
			return err
		}
		writer, err := dataset.CreateAtomic[any](filePath, importBlockLength,
			dataset.WithCompression(compression),
			dataset.WithSerializer(serializer),
		)
		if err != nil {
			return err
		}
		return importRecords(input, writer)
	},
}

// appendRecords decodes all of input before the dataset is opened. An append session overwrites the index of the
// previous session with its first block, so it must never be abandoned. Records already appended when a later one
// fails are committed by closing the appender.
func appendRecords(input io.Reader) error {
	var readErr error
	records := slices.Collect(jsonLines(input, &readErr))
	if readErr != nil {
		return readErr
	}

	appender, err := dataset.OpenAppender[any](filePath)
	if err != nil {
		return err
	}
	if err := appender.Extend(records); err != nil {
		return errors.Join(err, appender.Close())
	}
	return appender.Close()
}

// importRecords writes every JSON line of input to writer and closes it. The writer is aborted on failure.
func importRecords(input io.Reader, writer *dataset.Writer[any]) error {
	var readErr error
	if err := writer.ExtendSeq(jsonLines(input, &readErr)); err != nil {
		return errors.Join(err, writer.Abort())
	}
	if readErr != nil {
		return errors.Join(readErr, writer.Abort())
	}
	return writer.Close()
}

// jsonLines returns a sequence over the decoded JSON lines of input. Decoding stops at the first failure, which is
// stored in err.
func jsonLines(input io.Reader, err *error) iter.Seq[any] {
	return func(yield func(any) bool) {
		scanner := bufio.NewScanner(input)
		scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			data := bytes.TrimSpace(scanner.Bytes())
			if len(data) == 0 {
				continue
			}
			decoder := json.NewDecoder(bytes.NewReader(data))
			decoder.UseNumber()
			var record any
			if decodeErr := decoder.Decode(&record); decodeErr != nil {
				*err = fmt.Errorf("decoding line %d: %w", line, decodeErr)
				return
			}
			if !yield(dataset.NormalizeJSONNumbers(record)) {
				return
			}
		}
		if scanErr := scanner.Err(); scanErr != nil {
			*err = fmt.Errorf("reading input: %w", scanErr)
		}
	}
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importInputFile, "input-file", "i", "-", "The JSON lines file to read. Defaults to stdin.")
	importCmd.Flags().BoolVar(&importAppend, "append", false, "Append to the existing dataset instead of replacing it.")
	importCmd.Flags().IntVar(&importBlockLength, "block-length", 1000, "The number of records per block of a new dataset.")
	importCmd.Flags().StringVar(&importCompression, "compression", "lz4", "The compression of a new dataset: none, zlib, lz4, snappy, zstd or brotli.")
	importCmd.Flags().StringVar(&importSerializer, "serializer", "msgpack", "The serializer of a new dataset: msgpack or json.")
}
