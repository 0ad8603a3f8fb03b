package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	filePath string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dataset-cli",
	Short: "A tool for inspecting and manipulating datasets.",
	Long:  `A tool for inspecting and manipulating datasets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("parsing the log level: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&filePath,
		"file",
		"f",
		"",
		"The dataset file to work on.",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"warn",
		"The minimum level of log messages: debug, info, warn or error.",
	)
	_ = rootCmd.MarkPersistentFlagRequired("file")
}
