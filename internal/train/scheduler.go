// Package train implements the bookkeeping policies the training section
// of the configuration drives: learning-rate scheduling, early stopping,
// and checkpoint retention. The gradient math lives in the external
// trainer; these types only decide when to decay, stop, and delete.
package train

import (
	"fmt"

	"nmtkit/internal/config"
)

// Scheduler adjusts the learning rate after each validation according to
// the configured scheduling policy.
type Scheduler struct {
	mode     string
	lr       float64
	initial  float64
	minLR    float64
	factor   float64
	patience int

	validations int
	bad         int
}

// NewScheduler builds a Scheduler from the training section.
func NewScheduler(cfg config.TrainingConfig) (*Scheduler, error) {
	switch cfg.Scheduling {
	case "plateau", "decaying", "exponential":
	default:
		return nil, fmt.Errorf("unknown scheduling policy %q", cfg.Scheduling)
	}
	return &Scheduler{
		mode:     cfg.Scheduling,
		lr:       cfg.LearningRate,
		initial:  cfg.LearningRate,
		minLR:    cfg.LearningRateMin,
		factor:   cfg.DecreaseFactor,
		patience: cfg.Patience,
	}, nil
}

// LR returns the current learning rate.
func (s *Scheduler) LR() float64 { return s.lr }

// Step advances the schedule by one validation. For the plateau policy,
// improved reports whether the early-stopping metric improved; the rate
// drops by the decrease factor after patience validations without
// improvement. The decaying policy divides the initial rate by the
// validation count, and the exponential policy multiplies by the factor
// every validation. The rate never falls below the configured minimum.
func (s *Scheduler) Step(improved bool) float64 {
	s.validations++

	switch s.mode {
	case "plateau":
		if improved {
			s.bad = 0
			break
		}
		s.bad++
		if s.bad > s.patience {
			s.lr *= s.factor
			s.bad = 0
		}
	case "decaying":
		s.lr = s.initial / float64(s.validations)
	case "exponential":
		s.lr *= s.factor
	}

	if s.lr < s.minLR {
		s.lr = s.minLR
	}
	return s.lr
}

// Exhausted reports whether the rate has decayed to the minimum, the
// usual secondary stop condition next to early stopping.
func (s *Scheduler) Exhausted() bool {
	return s.lr <= s.minLR && s.minLR > 0
}
