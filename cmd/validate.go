package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nmtkit/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the training configuration",
	Long: "Validate loads the configuration, checks the document structure and\n" +
		"every range, choice, and cross-field constraint, and exits non-zero\n" +
		"when anything is wrong.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		fmt.Printf("%s: OK (%s-%s, %s level, %s scheduling)\n",
			path, cfg.Data.Src, cfg.Data.Trg, cfg.Data.Level, cfg.Training.Scheduling)
		if cfg.Data.HasFeedback() {
			fmt.Printf("token-level feedback enabled: %s\n", cfg.Data.FeedbackPath())
		}
		return nil
	},
}
