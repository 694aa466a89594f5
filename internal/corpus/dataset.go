package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"nmtkit/internal/config"
)

// Example is one sentence pair. Trg is nil for monolingual data and
// Weights is nil unless the example carries token-level feedback.
type Example struct {
	Src     []string
	Trg     []string
	Weights []float64
}

// Dataset is an ordered collection of examples plus counters describing
// what the length filter dropped.
type Dataset struct {
	Examples []Example

	// Filtered counts train pairs dropped by the length filter.
	Filtered int
}

// Len returns the number of examples.
func (d *Dataset) Len() int { return len(d.Examples) }

// Loader reads corpus files according to the data configuration.
type Loader struct {
	level  string
	maxLen int
	caser  Caser
}

// NewLoader builds a Loader from the data section. The caser follows the
// source language's casing rules; per data.py, lowercasing applies to
// both sides.
func NewLoader(data config.DataConfig) *Loader {
	return &Loader{
		level:  data.Level,
		maxLen: data.MaxSentLength,
		caser:  NewCaser(data.Src, data.Lowercase),
	}
}

// LoadParallel reads a line-aligned sentence pair corpus. Pairs with a
// blank side are skipped. When filter is true (training data), pairs
// where either side exceeds max_sent_length are dropped and counted.
func (l *Loader) LoadParallel(srcPath, trgPath string, filter bool) (*Dataset, error) {
	srcLines, err := readLines(srcPath)
	if err != nil {
		return nil, err
	}
	trgLines, err := readLines(trgPath)
	if err != nil {
		return nil, err
	}
	if len(srcLines) != len(trgLines) {
		return nil, fmt.Errorf("corpus sides differ in length: %s has %d lines, %s has %d",
			srcPath, len(srcLines), trgPath, len(trgLines))
	}

	ds := &Dataset{}
	for i := range srcLines {
		src := l.tokenize(srcLines[i])
		trg := l.tokenize(trgLines[i])
		if len(src) == 0 || len(trg) == 0 {
			continue
		}
		if filter && (len(src) > l.maxLen || len(trg) > l.maxLen) {
			ds.Filtered++
			continue
		}
		ds.Examples = append(ds.Examples, Example{Src: src, Trg: trg})
	}
	return ds, nil
}

// LoadMono reads a source-only corpus. Blank lines are skipped.
func (l *Loader) LoadMono(srcPath string) (*Dataset, error) {
	lines, err := readLines(srcPath)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	for _, line := range lines {
		src := l.tokenize(line)
		if len(src) == 0 {
			continue
		}
		ds.Examples = append(ds.Examples, Example{Src: src})
	}
	return ds, nil
}

// LoadEval reads a dev or test corpus. When the target side is missing
// on disk the corpus degrades to a monolingual dataset instead of
// erroring, matching the reference pipeline.
func (l *Loader) LoadEval(srcPath, trgPath string) (*Dataset, error) {
	if _, err := os.Stat(trgPath); err != nil {
		if os.IsNotExist(err) {
			return l.LoadMono(srcPath)
		}
		return nil, fmt.Errorf("stat %s: %w", trgPath, err)
	}
	return l.LoadParallel(srcPath, trgPath, false)
}

func (l *Loader) tokenize(line string) []string {
	return Tokenize(l.caser.Apply(strings.TrimSpace(line)), l.level)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
