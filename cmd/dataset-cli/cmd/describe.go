package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/backbone81/dataset/pkg/dataset"
)

var describeOutput string

// description is the summary of a dataset file printed by the describe command.
type description struct {
	File          string `yaml:"file"`
	Version       uint16 `yaml:"version"`
	Serializer    string `yaml:"serializer"`
	Compression   string `yaml:"compression"`
	BlockLength   int    `yaml:"blockLength"`
	Length        int    `yaml:"length"`
	Blocks        int    `yaml:"blocks"`
	IndexStart    int64  `yaml:"indexStart"`
	IndexSize     int64  `yaml:"indexSize"`
	IndexSizeRaw  int64  `yaml:"indexSizeRaw"`
	BlockBytes    int64  `yaml:"blockBytes"`
	BlockBytesRaw int64  `yaml:"blockBytesRaw"`
	LargestBlock  int64  `yaml:"largestBlock"`
	SmallestBlock int64  `yaml:"smallestBlock"`
}

// describeCmd represents the describe command.
var describeCmd = &cobra.Command{
	Use:          "describe",
	Short:        "Provides detailed information about the dataset.",
	Long:         `Provides detailed information about the dataset.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := dataset.Open[any](filePath)
		if err != nil {
			return err
		}
		defer reader.Close() //nolint:errcheck

		return writeDescription(cmd.OutOrStdout(), describe(filePath, reader.Header(), reader.Index()), describeOutput)
	},
}

func describe(file string, header dataset.Header, index []dataset.IndexEntry) description {
	result := description{
		File:         file,
		Version:      header.Version,
		Serializer:   header.Serializer.String(),
		Compression:  header.Compression.String(),
		BlockLength:  header.BlockLength,
		Length:       header.Length,
		Blocks:       len(index),
		IndexStart:   header.IndexStart,
		IndexSize:    header.IndexSize,
		IndexSizeRaw: header.IndexSizeRaw,
	}
	for i, entry := range index {
		result.BlockBytes += entry.Size
		result.BlockBytesRaw += entry.RawSize
		if i == 0 || entry.Size > result.LargestBlock {
			result.LargestBlock = entry.Size
		}
		if i == 0 || entry.Size < result.SmallestBlock {
			result.SmallestBlock = entry.Size
		}
	}
	return result
}

func writeDescription(writer io.Writer, desc description, output string) error {
	switch output {
	case "yaml":
		encoder := yaml.NewEncoder(writer)
		if err := encoder.Encode(desc); err != nil {
			return err
		}
		return encoder.Close()
	case "text":
		_, err := fmt.Fprintf(writer, `File:            %s
Version:         %d
Serializer:      %s
Compression:     %s
Block Length:    %d
Length:          %d
Blocks:          %d
Index:           %d bytes at %d (%d bytes raw)
Block Bytes:     %d (%d bytes raw)
Block Sizes:     %d to %d bytes
`,
			desc.File, desc.Version, desc.Serializer, desc.Compression, desc.BlockLength, desc.Length, desc.Blocks,
			desc.IndexSize, desc.IndexStart, desc.IndexSizeRaw, desc.BlockBytes, desc.BlockBytesRaw,
			desc.SmallestBlock, desc.LargestBlock)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().StringVarP(
		&describeOutput,
		"output",
		"o",
		"text",
		"The output format: text or yaml.",
	)
}
