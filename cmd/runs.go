package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nmtkit/internal/runs"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect registered training runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List training runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.List(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-24s  %s\n", "ID", "Started", "Config", "Model Dir")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range list {
			fmt.Printf("%-36s  %-19s  %-24s  %s\n",
				r.ID,
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.ConfigPath, 24),
				r.ModelDir)
		}
		return nil
	},
}

var runsHistoryCmd = &cobra.Command{
	Use:   "history <run-id>",
	Short: "Show the validation history of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		hist, err := s.History(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		if len(hist) == 0 {
			fmt.Println("No validations recorded for this run.")
			return nil
		}

		fmt.Printf("%-8s  %-8s  %10s  %12s\n", "Step", "Metric", "Score", "LR")
		fmt.Println(strings.Repeat("─", 44))
		for _, v := range hist {
			fmt.Printf("%-8d  %-8s  %10.4f  %12.8f\n", v.Step, v.Metric, v.Score, v.LearningRate)
		}
		return nil
	},
}

var runsBestCmd = &cobra.Command{
	Use:   "best <run-id>",
	Short: "Show the best validation of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minimize, _ := cmd.Flags().GetBool("minimize")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		best, err := s.Best(context.Background(), args[0], minimize)
		if err != nil {
			return fmt.Errorf("best: %w", err)
		}

		fmt.Printf("step %d: %s %.4f (lr %.8f)\n", best.Step, best.Metric, best.Score, best.LearningRate)
		return nil
	},
}

var runsLogCmd = &cobra.Command{
	Use:   "log <run-id>",
	Short: "Record a validation result for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		step, _ := cmd.Flags().GetInt("step")
		metric, _ := cmd.Flags().GetString("metric")
		score, _ := cmd.Flags().GetFloat64("score")
		lr, _ := cmd.Flags().GetFloat64("lr")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		v := runs.Validation{
			RunID:        args[0],
			Step:         step,
			Metric:       metric,
			Score:        score,
			LearningRate: lr,
		}
		if err := s.LogValidation(context.Background(), v); err != nil {
			return fmt.Errorf("log validation: %w", err)
		}
		return nil
	},
}

var runsStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Register a new training run for the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}
		modelDir, _ := cmd.Flags().GetString("model-dir")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := s.Create(context.Background(), path, modelDir)
		if err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		fmt.Println(run.ID)
		return nil
	},
}

func openStore(cmd *cobra.Command) (*runs.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := runs.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	runsBestCmd.Flags().Bool("minimize", false, "Pick the lowest score (perplexity or loss metrics)")
	runsStartCmd.Flags().String("model-dir", "", "Model directory recorded for the run")

	runsLogCmd.Flags().Int("step", 0, "Training step of the validation")
	runsLogCmd.Flags().String("metric", "bleu", "Validation metric name")
	runsLogCmd.Flags().Float64("score", 0, "Metric score")
	runsLogCmd.Flags().Float64("lr", 0, "Learning rate at validation time")
	runsLogCmd.MarkFlagRequired("step")
	runsLogCmd.MarkFlagRequired("score")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsHistoryCmd)
	runsCmd.AddCommand(runsBestCmd)
	runsCmd.AddCommand(runsStartCmd)
	runsCmd.AddCommand(runsLogCmd)
}
