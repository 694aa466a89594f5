package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nmtkit/internal/config"
	"nmtkit/internal/corpus"
	"nmtkit/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Build and inspect vocabularies",
}

var vocabBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build source and target vocabularies from the training corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cfg.Data.Train == "" {
			return fmt.Errorf("data.train is required to build vocabularies")
		}

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		loader := corpus.NewLoader(cfg.Data)
		var ds *corpus.Dataset
		if cfg.Data.HasFeedback() {
			ds, err = loader.LoadWeighted(
				cfg.Data.SrcPath(cfg.Data.Train),
				cfg.Data.TrgPath(cfg.Data.Train),
				cfg.Data.FeedbackPath())
		} else {
			ds, err = loader.LoadParallel(
				cfg.Data.SrcPath(cfg.Data.Train),
				cfg.Data.TrgPath(cfg.Data.Train), true)
		}
		if err != nil {
			return err
		}
		logger.Debug("training corpus loaded",
			zap.Int("examples", ds.Len()),
			zap.Int("filtered", ds.Filtered))

		src, trg, err := vocab.BuildPair(ds, cfg.Data)
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Training.ModelDir
		}
		srcPath := filepath.Join(outDir, "vocab."+cfg.Data.Src)
		trgPath := filepath.Join(outDir, "vocab."+cfg.Data.Trg)

		if err := src.Save(srcPath); err != nil {
			return err
		}
		if err := trg.Save(trgPath); err != nil {
			return err
		}

		fmt.Printf("%s: %d tokens\n", srcPath, src.Len())
		fmt.Printf("%s: %d tokens\n", trgPath, trg.Len())
		return nil
	},
}

var vocabCheckCmd = &cobra.Command{
	Use:   "check <vocab-file>",
	Short: "Check a vocabulary file for duplicates and report its size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vocab.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d tokens (including %d specials)\n", args[0], v.Len(), 4)
		return nil
	},
}

func init() {
	vocabBuildCmd.Flags().String("out", "", "Output directory (default: training.model_dir)")

	vocabCmd.AddCommand(vocabBuildCmd)
	vocabCmd.AddCommand(vocabCheckCmd)
}
