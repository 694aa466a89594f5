package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nmtkit/internal/feedback"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Prepare token-level feedback files",
}

var feedbackDistributeCmd = &cobra.Command{
	Use:   "distribute <target.bpe> <rewards>",
	Short: "Re-align token-level rewards with a BPE-split target file",
	Long: "Distribute reads a BPE-preprocessed target file and a reward file\n" +
		"aligned with the unsplit tokenization, and writes a reward file\n" +
		"aligned with the BPE units: every unit of a split token carries the\n" +
		"reward of its original.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")

		n, err := feedback.DistributeAll(args[0], args[1], out)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d lines\n", out, n)
		return nil
	},
}

func init() {
	feedbackDistributeCmd.Flags().StringP("output", "o", "feedback.bpe", "Output file for the re-aligned rewards")

	feedbackCmd.AddCommand(feedbackDistributeCmd)
}
