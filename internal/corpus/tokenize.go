// Package corpus loads and prepares parallel, monolingual, and
// feedback-weighted translation corpora as described by the data section
// of the training configuration.
package corpus

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"nmtkit/internal/config"
)

// Tokenize splits a line according to the tokenization level. Word and
// bpe corpora are whitespace-delimited (bpe files arrive pre-split);
// char level yields one token per rune, whitespace included.
func Tokenize(line, level string) []string {
	if level == config.LevelChar {
		runes := []rune(line)
		tokens := make([]string, len(runes))
		for i, r := range runes {
			tokens[i] = string(r)
		}
		return tokens
	}
	return strings.Fields(line)
}

// Caser lowercases corpus lines with the casing rules of the corpus
// language, so e.g. Turkish dotless I is handled correctly.
type Caser struct {
	enabled bool
	lower   cases.Caser
}

// NewCaser returns a Caser for the given language suffix. When lowercase
// is false the Caser passes lines through unchanged. Unknown suffixes
// fall back to language-neutral casing.
func NewCaser(lang string, lowercase bool) Caser {
	if !lowercase {
		return Caser{}
	}
	return Caser{enabled: true, lower: cases.Lower(language.Make(lang))}
}

// Apply lowercases the line when casing is enabled.
func (c Caser) Apply(line string) string {
	if !c.enabled {
		return line
	}
	return c.lower.String(line)
}
