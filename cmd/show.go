package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nmtkit/internal/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the normalized configuration",
	Long: "Show loads the configuration, applies defaults, environment\n" +
		"overrides, and normalization, and prints the result as YAML.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}
