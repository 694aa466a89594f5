package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nmtkit/internal/logging"
	"nmtkit/internal/runs"
)

var rootCmd = &cobra.Command{
	Use:   "nmtkit",
	Short: "Configuration and data toolkit for feedback-driven NMT training",
	Long: "nmtkit validates and normalizes the YAML training configuration of a\n" +
		"recurrent encoder-decoder NMT system, prepares vocabularies and corpora,\n" +
		"re-aligns token-level feedback with BPE output, and tracks training runs.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the training configuration (overrides NMTKIT_CONFIG env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("db", "", "Path to the run registry database (overrides NMTKIT_DB env var)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigPath returns the configuration path using the --config
// flag (highest priority), then the NMTKIT_CONFIG env var.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	if p := os.Getenv("NMTKIT_CONFIG"); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("no configuration given: set --config or NMTKIT_CONFIG")
}

// resolveDBPath returns the registry path using --db, then the package
// default (NMTKIT_DB env var, then the XDG data path).
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	return runs.DefaultDBPath()
}

// newLogger builds the process logger from the --verbose flag.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(verbose)
}
