package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/backbone81/dataset/pkg/dataset"
)

var (
	dumpOutput string
	dumpMmap   bool
)

// dumpCmd represents the dump command.
var dumpCmd = &cobra.Command{
	Use:   "dump [selector]",
	Short: "Prints records of the dataset.",
	Long: `Prints records of the dataset.

Without a selector all records are printed. The selector can be a single position like "5" or "-1", a comma separated
list of positions like "3,1,2" or a slice like "10:20", "::-1" or "-5:".`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var selectorText string
		if len(args) == 1 {
			selectorText = args[0]
		}
		sel, err := parseSelector(selectorText)
		if err != nil {
			return err
		}

		var options []dataset.ReaderOption
		if dumpMmap {
			options = append(options, dataset.WithMmap())
		}
		reader, err := dataset.Open[any](filePath, options...)
		if err != nil {
			return err
		}
		defer reader.Close() //nolint:errcheck

		records, err := selectRecords(reader, sel)
		if err != nil {
			return err
		}
		return writeRecords(cmd.OutOrStdout(), records, dumpOutput)
	},
}

func writeRecords(writer io.Writer, records []any, output string) error {
	switch output {
	case "json":
		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("encoding record as json: %w", err)
			}
			if _, err := writer.Write(pretty.Pretty(data)); err != nil {
				return err
			}
		}
		return nil
	case "jsonl":
		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("encoding record as json: %w", err)
			}
			if _, err := writer.Write(append(pretty.Ugly(data), '\n')); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		encoder := yaml.NewEncoder(writer)
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("encoding records as yaml: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringVarP(
		&dumpOutput,
		"output",
		"o",
		"json",
		"The output format: json, jsonl or yaml.",
	)
	dumpCmd.Flags().BoolVar(
		&dumpMmap,
		"mmap",
		false,
		"Memory map the dataset file instead of reading it.",
	)
}
