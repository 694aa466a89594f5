package train

import (
	"math"
	"testing"

	"nmtkit/internal/config"
)

func trainingCfg() config.TrainingConfig {
	return config.TrainingConfig{
		Scheduling:          "plateau",
		LearningRate:        0.1,
		LearningRateMin:     0.001,
		DecreaseFactor:      0.5,
		Patience:            2,
		EarlyStoppingMetric: "eval_metric",
	}
}

func TestScheduler_Plateau(t *testing.T) {
	s, err := NewScheduler(trainingCfg())
	if err != nil {
		t.Fatal(err)
	}

	// Two bad validations are within patience.
	s.Step(false)
	s.Step(false)
	if s.LR() != 0.1 {
		t.Fatalf("LR = %g, want unchanged within patience", s.LR())
	}

	// The third exceeds patience and halves the rate.
	if got := s.Step(false); got != 0.05 {
		t.Fatalf("LR = %g, want 0.05", got)
	}

	// Improvement resets the bad counter.
	s.Step(true)
	s.Step(false)
	s.Step(false)
	if s.LR() != 0.05 {
		t.Errorf("LR = %g, bad counter should have been reset", s.LR())
	}
}

func TestScheduler_PlateauFloor(t *testing.T) {
	cfg := trainingCfg()
	cfg.LearningRate = 0.002
	s, _ := NewScheduler(cfg)

	for i := 0; i < 20; i++ {
		s.Step(false)
	}
	if s.LR() != cfg.LearningRateMin {
		t.Errorf("LR = %g, want floor %g", s.LR(), cfg.LearningRateMin)
	}
	if !s.Exhausted() {
		t.Error("scheduler at the floor should report exhaustion")
	}
}

func TestScheduler_Decaying(t *testing.T) {
	cfg := trainingCfg()
	cfg.Scheduling = "decaying"
	s, _ := NewScheduler(cfg)

	s.Step(false)
	if s.LR() != 0.1 {
		t.Errorf("after 1 validation LR = %g, want 0.1", s.LR())
	}
	s.Step(true)
	if math.Abs(s.LR()-0.05) > 1e-12 {
		t.Errorf("after 2 validations LR = %g, want 0.05", s.LR())
	}
	s.Step(false)
	s.Step(false)
	if math.Abs(s.LR()-0.025) > 1e-12 {
		t.Errorf("after 4 validations LR = %g, want 0.025", s.LR())
	}
}

func TestScheduler_Exponential(t *testing.T) {
	cfg := trainingCfg()
	cfg.Scheduling = "exponential"
	s, _ := NewScheduler(cfg)

	s.Step(true)
	s.Step(true)
	if math.Abs(s.LR()-0.025) > 1e-12 {
		t.Errorf("LR = %g, want 0.025 after two decays", s.LR())
	}
}

func TestNewScheduler_BadPolicy(t *testing.T) {
	cfg := trainingCfg()
	cfg.Scheduling = "cosine"
	if _, err := NewScheduler(cfg); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestEarlyStopper_Maximize(t *testing.T) {
	cfg := trainingCfg()
	cfg.Patience = 1
	e := NewEarlyStopper(cfg)

	if _, ok := e.Best(); ok {
		t.Error("Best should be unset before any update")
	}
	if !e.Update(10.0) {
		t.Error("first score should improve")
	}
	if e.Update(9.0) {
		t.Error("lower BLEU is not an improvement")
	}
	if e.ShouldStop() {
		t.Error("one bad validation is within patience")
	}
	if e.Update(8.0) {
		t.Error("lower BLEU is not an improvement")
	}
	if !e.ShouldStop() {
		t.Error("patience exhausted, should stop")
	}

	best, ok := e.Best()
	if !ok || best != 10.0 {
		t.Errorf("Best = %g, %v; want 10.0, true", best, ok)
	}
}

func TestEarlyStopper_Minimize(t *testing.T) {
	cfg := trainingCfg()
	cfg.EarlyStoppingMetric = "ppl"
	e := NewEarlyStopper(cfg)

	if !e.Update(100.0) || !e.Update(50.0) {
		t.Error("falling perplexity should improve")
	}
	if e.Update(60.0) {
		t.Error("rising perplexity is not an improvement")
	}
}
