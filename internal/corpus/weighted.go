package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"nmtkit/internal/config"
)

// LoadWeighted reads a parallel corpus plus a line-aligned feedback file
// carrying one float weight per target token. Every kept example must
// have exactly one weight per target token; a mismatch is an error, not
// a skip. At the char level each token weight is replicated over the
// token's runes and the following space, with the trailing space weight
// dropped.
func (l *Loader) LoadWeighted(srcPath, trgPath, fbPath string) (*Dataset, error) {
	srcLines, err := readLines(srcPath)
	if err != nil {
		return nil, err
	}
	trgLines, err := readLines(trgPath)
	if err != nil {
		return nil, err
	}
	fbLines, err := readLines(fbPath)
	if err != nil {
		return nil, err
	}
	if len(srcLines) != len(trgLines) || len(trgLines) != len(fbLines) {
		return nil, fmt.Errorf("corpus and feedback files differ in length: %d src, %d trg, %d feedback lines",
			len(srcLines), len(trgLines), len(fbLines))
	}

	ds := &Dataset{}
	for i := range srcLines {
		src := l.tokenize(srcLines[i])
		trg := l.tokenize(trgLines[i])
		if len(src) == 0 || len(trg) == 0 {
			continue
		}

		weights, err := parseWeights(fbLines[i])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if l.level == config.LevelChar {
			// Weights arrive aligned with whitespace tokens even for
			// char-level models.
			weights, err = ExpandCharWeights(l.caser.Apply(trgLines[i]), weights)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		if len(weights) != len(trg) {
			return nil, fmt.Errorf("line %d: %d weights for %d target tokens",
				i+1, len(weights), len(trg))
		}

		if len(src) > l.maxLen || len(trg) > l.maxLen {
			ds.Filtered++
			continue
		}
		ds.Examples = append(ds.Examples, Example{Src: src, Trg: trg, Weights: weights})
	}
	return ds, nil
}

// ExpandCharWeights distributes token-level weights over the characters
// of the target line: each token's weight covers its runes plus the
// space that follows, and the weight added for the final space is
// removed again.
func ExpandCharWeights(trgLine string, weights []float64) ([]float64, error) {
	tokens := strings.Fields(trgLine)
	if len(tokens) != len(weights) {
		return nil, fmt.Errorf("%d weights for %d tokens", len(weights), len(tokens))
	}

	var expanded []float64
	for i, tok := range tokens {
		n := len([]rune(tok)) + 1
		for j := 0; j < n; j++ {
			expanded = append(expanded, weights[i])
		}
	}
	if len(expanded) > 0 {
		expanded = expanded[:len(expanded)-1]
	}
	return expanded, nil
}

func parseWeights(line string) ([]float64, error) {
	fields := strings.Fields(line)
	weights := make([]float64, len(fields))
	for i, f := range fields {
		w, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("weight %d: %w", i+1, err)
		}
		weights[i] = w
	}
	return weights, nil
}
