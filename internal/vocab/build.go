package vocab

import (
	"golang.org/x/sync/errgroup"

	"nmtkit/internal/config"
	"nmtkit/internal/corpus"
)

// BuildPair derives the source and target vocabularies from a loaded
// training dataset, honoring the limits and frequency cutoffs from the
// data section. When a fixed vocabulary file is configured for a side,
// that file is loaded instead of counting the corpus. The two sides are
// built concurrently.
func BuildPair(ds *corpus.Dataset, data config.DataConfig) (src, trg *Vocabulary, err error) {
	var g errgroup.Group

	g.Go(func() error {
		var err error
		src, err = buildSide(ds, data.SrcVocab, data.SrcVocMinFreq, data.SrcVocLimit, srcTokens)
		return err
	})
	g.Go(func() error {
		var err error
		trg, err = buildSide(ds, data.TrgVocab, data.TrgVocMinFreq, data.TrgVocLimit, trgTokens)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return src, trg, nil
}

func buildSide(ds *corpus.Dataset, vocabFile string, minFreq, limit int, side func(corpus.Example) []string) (*Vocabulary, error) {
	if vocabFile != "" {
		return Load(vocabFile)
	}

	freqs := make(map[string]int)
	for _, ex := range ds.Examples {
		for _, tok := range side(ex) {
			freqs[tok]++
		}
	}
	return Build(freqs, minFreq, limit), nil
}

func srcTokens(ex corpus.Example) []string { return ex.Src }
func trgTokens(ex corpus.Example) []string { return ex.Trg }

// OOVRate reports the fraction of tokens in the given side of a dataset
// that fall outside the vocabulary. Empty datasets report zero.
func OOVRate(v *Vocabulary, ds *corpus.Dataset, side func(corpus.Example) []string) float64 {
	var total, unk int
	for _, ex := range ds.Examples {
		for _, tok := range side(ex) {
			total++
			if v.IsUnk(tok) {
				unk++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(unk) / float64(total)
}

// SrcSide and TrgSide select a side for OOVRate.
var (
	SrcSide = srcTokens
	TrgSide = trgTokens
)
