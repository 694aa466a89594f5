package train

import (
	"math"

	"nmtkit/internal/config"
)

// EarlyStopper tracks the early-stopping metric across validations.
// Perplexity and loss are minimized; the evaluation metric (BLEU or
// chrF) is maximized.
type EarlyStopper struct {
	minimize bool
	patience int

	best float64
	seen bool
	bad  int
}

// NewEarlyStopper builds an EarlyStopper from the training section.
func NewEarlyStopper(cfg config.TrainingConfig) *EarlyStopper {
	minimize := cfg.EarlyStoppingMetric == "ppl" || cfg.EarlyStoppingMetric == "loss"
	best := math.Inf(-1)
	if minimize {
		best = math.Inf(1)
	}
	return &EarlyStopper{
		minimize: minimize,
		patience: cfg.Patience,
		best:     best,
	}
}

// IsBetter reports whether score improves on the best value seen so far.
func (e *EarlyStopper) IsBetter(score float64) bool {
	if e.minimize {
		return score < e.best
	}
	return score > e.best
}

// Update records a validation score and reports whether it improved.
func (e *EarlyStopper) Update(score float64) (improved bool) {
	if e.IsBetter(score) {
		e.best = score
		e.seen = true
		e.bad = 0
		return true
	}
	e.bad++
	return false
}

// Best returns the best score recorded. The second value is false until
// the first Update.
func (e *EarlyStopper) Best() (float64, bool) {
	return e.best, e.seen
}

// ShouldStop reports whether patience is used up.
func (e *EarlyStopper) ShouldStop() bool {
	return e.bad > e.patience
}
