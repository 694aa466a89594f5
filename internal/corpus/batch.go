package corpus

import (
	"math/rand"
	"sort"

	"nmtkit/internal/config"
)

// BatchOptions controls how a dataset is cut into batches.
type BatchOptions struct {
	// BatchSize is the number of sentences per batch, or the target-token
	// budget when Type is "token".
	BatchSize int
	Type      string // "sentence" or "token"

	// Train enables shuffling and within-batch length sorting. Eval
	// batches keep corpus order so outputs stay aligned with the input
	// files.
	Train   bool
	Shuffle bool
	Seed    int64
}

// Batches cuts the dataset into batches. Training batches are sorted by
// descending source length within each batch (packed recurrent states
// need sorted input); evaluation batches preserve corpus order.
func Batches(ds *Dataset, opts BatchOptions) [][]Example {
	examples := ds.Examples
	if opts.Train && opts.Shuffle {
		shuffled := make([]Example, len(examples))
		copy(shuffled, examples)
		rand.New(rand.NewSource(opts.Seed)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		examples = shuffled
	}

	var batches [][]Example
	if opts.Type == config.BatchTypeToken {
		batches = tokenBatches(examples, opts.BatchSize)
	} else {
		batches = sentenceBatches(examples, opts.BatchSize)
	}

	if opts.Train {
		for _, b := range batches {
			sort.SliceStable(b, func(i, j int) bool {
				return len(b[i].Src) > len(b[j].Src)
			})
		}
	}
	return batches
}

func sentenceBatches(examples []Example, size int) [][]Example {
	var batches [][]Example
	for len(examples) > 0 {
		n := min(size, len(examples))
		batches = append(batches, examples[:n])
		examples = examples[n:]
	}
	return batches
}

// tokenBatches groups examples until the target-token budget is reached.
// A single example larger than the budget still forms its own batch.
func tokenBatches(examples []Example, budget int) [][]Example {
	var batches [][]Example
	var current []Example
	tokens := 0
	for _, ex := range examples {
		n := len(ex.Trg)
		if n == 0 {
			n = len(ex.Src)
		}
		if len(current) > 0 && tokens+n > budget {
			batches = append(batches, current)
			current = nil
			tokens = 0
		}
		current = append(current, ex)
		tokens += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
