package config

import (
	"strings"
	"testing"
)

// valid returns a minimal configuration that passes Validate.
func valid() *Config {
	cfg := Default()
	cfg.Data.Src = "de"
	cfg.Data.Trg = "en"
	cfg.Data.Train = "corpus/train"
	cfg.Training.ModelDir = "models/out"
	return cfg
}

func TestValidate_OK(t *testing.T) {
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"missing src", func(c *Config) { c.Data.Src = "" }, "data.src"},
		{"bad level", func(c *Config) { c.Data.Level = "subword" }, "data.level"},
		{"zero sent length", func(c *Config) { c.Data.MaxSentLength = 0 }, "data.max_sent_length"},
		{"negative voc limit", func(c *Config) { c.Data.SrcVocLimit = -1 }, "data.src_voc_limit"},
		{"zero min freq", func(c *Config) { c.Data.TrgVocMinFreq = 0 }, "data.trg_voc_min_freq"},
		{"feedback without train", func(c *Config) { c.Data.Feedback = "fbk"; c.Data.Train = "" }, "data.feedback"},
		{"zero beam", func(c *Config) { c.Testing.BeamSize = 0 }, "testing.beam_size"},
		{"negative alpha", func(c *Config) { c.Testing.Alpha = -0.5 }, "testing.alpha"},
		{"bad optimizer", func(c *Config) { c.Training.Optimizer = "adamw" }, "training.optimizer"},
		{"zero lr", func(c *Config) { c.Training.LearningRate = 0 }, "training.learning_rate"},
		{"lr min above lr", func(c *Config) { c.Training.LearningRateMin = 1 }, "training.learning_rate_min"},
		{"bad batch type", func(c *Config) { c.Training.BatchType = "bucket" }, "training.batch_type"},
		{"bad scheduler", func(c *Config) { c.Training.Scheduling = "cosine" }, "training.scheduling"},
		{"decrease factor above one", func(c *Config) { c.Training.DecreaseFactor = 1.5 }, "training.decrease_factor"},
		{"zero epochs", func(c *Config) { c.Training.Epochs = 0 }, "training.epochs"},
		{"bad eval metric", func(c *Config) { c.Training.EvalMetric = "ter" }, "training.eval_metric"},
		{"bad stopping metric", func(c *Config) { c.Training.EarlyStoppingMetric = "bleu" }, "training.early_stopping_metric"},
		{"negative valid sent index", func(c *Config) { c.Training.PrintValidSents = []int{0, -2} }, "training.print_valid_sents[1]"},
		{"missing model dir", func(c *Config) { c.Training.ModelDir = "" }, "training.model_dir"},
		{"bad rnn type", func(c *Config) { c.Model.Encoder.RNNType = "rnn" }, "model.encoder.rnn_type"},
		{"dropout one", func(c *Config) { c.Model.Decoder.Dropout = 1.0 }, "model.decoder.dropout"},
		{"negative hidden dropout", func(c *Config) { c.Model.Decoder.HiddenDropout = -0.1 }, "model.decoder.hidden_dropout"},
		{"bad attention", func(c *Config) { c.Model.Decoder.Attention = "dot" }, "model.decoder.attention"},
		{"bad init hidden", func(c *Config) { c.Model.Decoder.InitHidden = "mean" }, "model.decoder.init_hidden"},
		{"zero embedding dim", func(c *Config) { c.Model.Encoder.Embeddings.EmbeddingDim = 0 }, "model.encoder.embeddings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	cfg := valid()
	cfg.Data.Level = "subword"
	cfg.Training.BatchSize = 0
	cfg.Model.Decoder.Dropout = 1.2

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"data.level", "training.batch_size", "model.decoder.dropout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error missing %q: %v", want, err)
		}
	}
}

func TestValidate_TiedEmbeddings(t *testing.T) {
	cfg := valid()
	cfg.Model.TiedEmbeddings = true
	cfg.Data.SrcVocab = "vocab.src"
	cfg.Data.TrgVocab = "vocab.trg"
	if err := cfg.Validate(); err == nil {
		t.Fatal("tied embeddings with distinct vocab files should be rejected")
	}

	cfg.Data.TrgVocab = "vocab.src"
	if err := cfg.Validate(); err != nil {
		t.Errorf("tied embeddings with shared vocab file rejected: %v", err)
	}
}

func TestValidate_InitHiddenLast(t *testing.T) {
	cfg := valid()
	cfg.Model.Decoder.InitHidden = "last"
	cfg.Model.Encoder.Bidirectional = true
	cfg.Model.Encoder.HiddenSize = 128
	cfg.Model.Decoder.HiddenSize = 128
	if err := cfg.Validate(); err == nil {
		t.Fatal("bidirectional encoder doubles the output; sizes no longer match")
	}

	cfg.Model.Decoder.HiddenSize = 256
	if err := cfg.Validate(); err != nil {
		t.Errorf("matching sizes rejected: %v", err)
	}

	cfg.Model.Encoder.Bidirectional = false
	cfg.Model.Decoder.HiddenSize = 128
	if err := cfg.Validate(); err != nil {
		t.Errorf("unidirectional matching sizes rejected: %v", err)
	}
}
