// Package vocab builds and stores token vocabularies. A vocabulary is an
// ordered token list; the four special tokens always occupy the first
// indices, and unknown tokens resolve to <unk>.
package vocab

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Special tokens shared by every vocabulary.
const (
	UnkToken = "<unk>"
	PadToken = "<pad>"
	BosToken = "<s>"
	EosToken = "</s>"
)

// Indices of the special tokens.
const (
	UnkID = iota
	PadID
	BosID
	EosID
)

var specials = []string{UnkToken, PadToken, BosToken, EosToken}

// Vocabulary maps between tokens and indices.
type Vocabulary struct {
	itos []string
	stoi map[string]int
}

// New builds a vocabulary from an ordered token list. The specials are
// prepended; tokens that repeat a special are skipped, other duplicates
// are an error.
func New(tokens []string) (*Vocabulary, error) {
	v := &Vocabulary{stoi: make(map[string]int, len(tokens)+len(specials))}
	for _, s := range specials {
		v.add(s)
	}
	for _, tok := range tokens {
		if _, ok := v.stoi[tok]; ok {
			if isSpecial(tok) {
				continue
			}
			return nil, fmt.Errorf("duplicate token %q", tok)
		}
		v.add(tok)
	}
	return v, nil
}

// Build creates a vocabulary from token frequencies: tokens below
// minFreq are dropped, the rest are ordered by descending frequency with
// lexicographic tie-break, and maxSize caps the non-special count
// (0 = unlimited).
func Build(freqs map[string]int, minFreq, maxSize int) *Vocabulary {
	kept := make([]string, 0, len(freqs))
	for tok, n := range freqs {
		if n >= minFreq && !isSpecial(tok) {
			kept = append(kept, tok)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if freqs[kept[i]] != freqs[kept[j]] {
			return freqs[kept[i]] > freqs[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if maxSize > 0 && len(kept) > maxSize {
		kept = kept[:maxSize]
	}

	v, _ := New(kept) // kept is deduplicated by construction
	return v
}

// Load reads a vocabulary file with one token per line. Specials in the
// file are ignored; they are always present at the head.
func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	var tokens []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		tokens = append(tokens, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}

	v, err := New(tokens)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	return v, nil
}

// Save writes the non-special tokens one per line, creating parent
// directories. Load(Save(v)) restores the same vocabulary.
func (v *Vocabulary) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create vocabulary directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vocabulary: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, tok := range v.itos[len(specials):] {
		fmt.Fprintln(w, tok)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write vocabulary: %w", err)
	}
	return f.Close()
}

// Lookup returns the index of tok, or the <unk> index if absent.
func (v *Vocabulary) Lookup(tok string) int {
	if id, ok := v.stoi[tok]; ok {
		return id
	}
	return UnkID
}

// Token returns the token at index id.
func (v *Vocabulary) Token(id int) (string, error) {
	if id < 0 || id >= len(v.itos) {
		return "", fmt.Errorf("index %d out of range for vocabulary of size %d", id, len(v.itos))
	}
	return v.itos[id], nil
}

// IsUnk reports whether tok is outside the vocabulary.
func (v *Vocabulary) IsUnk(tok string) bool {
	_, ok := v.stoi[tok]
	return !ok
}

// Len returns the vocabulary size including specials.
func (v *Vocabulary) Len() int { return len(v.itos) }

// Tokens returns the full ordered token list, specials first.
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.itos))
	copy(out, v.itos)
	return out
}

func (v *Vocabulary) add(tok string) {
	v.stoi[tok] = len(v.itos)
	v.itos = append(v.itos, tok)
}

func isSpecial(tok string) bool {
	for _, s := range specials {
		if tok == s {
			return true
		}
	}
	return false
}
