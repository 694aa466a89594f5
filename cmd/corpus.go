package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nmtkit/internal/config"
	"nmtkit/internal/corpus"
	"nmtkit/internal/vocab"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the configured corpora",
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report sizes, length filtering, and OOV rates for each corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		loader := corpus.NewLoader(cfg.Data)

		type split struct {
			name   string
			prefix string
			train  bool
		}
		splits := []split{}
		if cfg.Data.Train != "" {
			splits = append(splits, split{"train", cfg.Data.Train, true})
		}
		if cfg.Data.Dev != "" {
			splits = append(splits, split{"dev", cfg.Data.Dev, false})
		}
		if cfg.Data.Test != "" {
			splits = append(splits, split{"test", cfg.Data.Test, false})
		}
		if len(splits) == 0 {
			return fmt.Errorf("no corpora configured under data")
		}

		// Vocabularies come from the training split when present; OOV
		// columns stay empty otherwise.
		var srcVocab, trgVocab *vocab.Vocabulary
		datasets := make(map[string]*corpus.Dataset, len(splits))
		for _, sp := range splits {
			var ds *corpus.Dataset
			var err error
			if sp.train {
				if cfg.Data.HasFeedback() {
					ds, err = loader.LoadWeighted(
						cfg.Data.SrcPath(sp.prefix), cfg.Data.TrgPath(sp.prefix),
						cfg.Data.FeedbackPath())
				} else {
					ds, err = loader.LoadParallel(
						cfg.Data.SrcPath(sp.prefix), cfg.Data.TrgPath(sp.prefix), true)
				}
			} else {
				ds, err = loader.LoadEval(cfg.Data.SrcPath(sp.prefix), cfg.Data.TrgPath(sp.prefix))
			}
			if err != nil {
				return fmt.Errorf("%s: %w", sp.name, err)
			}
			datasets[sp.name] = ds

			if sp.train {
				srcVocab, trgVocab, err = vocab.BuildPair(ds, cfg.Data)
				if err != nil {
					return err
				}
			}
		}

		fmt.Printf("%-6s  %10s  %9s  %9s  %9s  %8s  %8s\n",
			"Split", "Sentences", "Filtered", "SrcTok", "TrgTok", "SrcOOV", "TrgOOV")
		fmt.Println(strings.Repeat("─", 72))

		for _, sp := range splits {
			ds := datasets[sp.name]
			var srcTok, trgTok int
			for _, ex := range ds.Examples {
				srcTok += len(ex.Src)
				trgTok += len(ex.Trg)
			}

			srcOOV, trgOOV := "-", "-"
			if srcVocab != nil {
				srcOOV = fmt.Sprintf("%.2f%%", 100*vocab.OOVRate(srcVocab, ds, vocab.SrcSide))
				if trgTok > 0 {
					trgOOV = fmt.Sprintf("%.2f%%", 100*vocab.OOVRate(trgVocab, ds, vocab.TrgSide))
				}
			}

			fmt.Printf("%-6s  %10d  %9d  %9d  %9d  %8s  %8s\n",
				sp.name, ds.Len(), ds.Filtered, srcTok, trgTok, srcOOV, trgOOV)
		}

		if srcVocab != nil {
			fmt.Println()
			fmt.Printf("src vocabulary: %d tokens, trg vocabulary: %d tokens\n",
				srcVocab.Len(), trgVocab.Len())
		}
		return nil
	},
}

func init() {
	corpusCmd.AddCommand(corpusStatsCmd)
}
