package config

import (
	"errors"
	"fmt"
	"slices"
)

// Legal choices for enumerated options.
var (
	Levels               = []string{LevelWord, LevelBPE, LevelChar}
	Optimizers           = []string{"sgd", "adam", "adagrad", "adadelta", "rmsprop"}
	BatchTypes           = []string{BatchTypeSentence, BatchTypeToken}
	Schedulers           = []string{"plateau", "decaying", "exponential"}
	EvalMetrics          = []string{"bleu", "chrf"}
	EarlyStoppingMetrics = []string{"ppl", "loss", "eval_metric"}
	RNNTypes             = []string{"gru", "lstm"}
	Attentions           = []string{"bahdanau", "luong"}
	InitHiddenOptions    = []string{"bridge", "zero", "last"}
)

// Validate checks every range, choice, and cross-field constraint and
// reports all violations at once rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []error

	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	choice := func(value string, legal []string, key string) {
		if !slices.Contains(legal, value) {
			errs = append(errs, fmt.Errorf("%s: %q is not one of %v", key, value, legal))
		}
	}

	// data
	check(c.Data.Src != "", "data.src: language suffix is required")
	check(c.Data.Trg != "", "data.trg: language suffix is required")
	choice(c.Data.Level, Levels, "data.level")
	check(c.Data.MaxSentLength > 0, "data.max_sent_length: must be positive, got %d", c.Data.MaxSentLength)
	check(c.Data.SrcVocLimit >= 0, "data.src_voc_limit: must be non-negative, got %d", c.Data.SrcVocLimit)
	check(c.Data.TrgVocLimit >= 0, "data.trg_voc_limit: must be non-negative, got %d", c.Data.TrgVocLimit)
	check(c.Data.SrcVocMinFreq >= 1, "data.src_voc_min_freq: must be at least 1, got %d", c.Data.SrcVocMinFreq)
	check(c.Data.TrgVocMinFreq >= 1, "data.trg_voc_min_freq: must be at least 1, got %d", c.Data.TrgVocMinFreq)
	check(!c.Data.HasFeedback() || c.Data.Train != "",
		"data.feedback: requires data.train to be set")

	// testing
	check(c.Testing.BeamSize >= 1, "testing.beam_size: must be at least 1, got %d", c.Testing.BeamSize)
	check(c.Testing.Alpha >= 0, "testing.alpha: must be non-negative, got %g", c.Testing.Alpha)

	// training
	choice(c.Training.Optimizer, Optimizers, "training.optimizer")
	check(c.Training.LearningRate > 0, "training.learning_rate: must be positive, got %g", c.Training.LearningRate)
	check(c.Training.LearningRateMin >= 0, "training.learning_rate_min: must be non-negative, got %g", c.Training.LearningRateMin)
	check(c.Training.LearningRateMin < c.Training.LearningRate || c.Training.LearningRate <= 0,
		"training.learning_rate_min: %g is not below learning_rate %g",
		c.Training.LearningRateMin, c.Training.LearningRate)
	check(c.Training.WeightDecay >= 0, "training.weight_decay: must be non-negative, got %g", c.Training.WeightDecay)
	check(c.Training.ClipGradNorm >= 0, "training.clip_grad_norm: must be non-negative, got %g", c.Training.ClipGradNorm)
	check(c.Training.BatchSize >= 1, "training.batch_size: must be at least 1, got %d", c.Training.BatchSize)
	choice(c.Training.BatchType, BatchTypes, "training.batch_type")
	choice(c.Training.Scheduling, Schedulers, "training.scheduling")
	check(c.Training.Patience >= 0, "training.patience: must be non-negative, got %d", c.Training.Patience)
	check(c.Training.DecreaseFactor > 0 && c.Training.DecreaseFactor <= 1,
		"training.decrease_factor: must be in (0, 1], got %g", c.Training.DecreaseFactor)
	check(c.Training.Epochs >= 1, "training.epochs: must be at least 1, got %d", c.Training.Epochs)
	check(c.Training.ValidationFreq >= 1, "training.validation_freq: must be at least 1, got %d", c.Training.ValidationFreq)
	check(c.Training.LoggingFreq >= 1, "training.logging_freq: must be at least 1, got %d", c.Training.LoggingFreq)
	choice(c.Training.EvalMetric, EvalMetrics, "training.eval_metric")
	choice(c.Training.EarlyStoppingMetric, EarlyStoppingMetrics, "training.early_stopping_metric")
	check(c.Training.MaxOutputLength >= 1, "training.max_output_length: must be at least 1, got %d", c.Training.MaxOutputLength)
	check(c.Training.ModelDir != "", "training.model_dir: is required")
	check(c.Training.KeepLastCkpts >= 0, "training.keep_last_ckpts: must be non-negative, got %d", c.Training.KeepLastCkpts)
	for i, idx := range c.Training.PrintValidSents {
		check(idx >= 0, "training.print_valid_sents[%d]: must be non-negative, got %d", i, idx)
	}

	// model
	errs = append(errs, validateEmbeddings("model.encoder.embeddings", c.Model.Encoder.Embeddings)...)
	errs = append(errs, validateEmbeddings("model.decoder.embeddings", c.Model.Decoder.Embeddings)...)
	choice(c.Model.Encoder.RNNType, RNNTypes, "model.encoder.rnn_type")
	choice(c.Model.Decoder.RNNType, RNNTypes, "model.decoder.rnn_type")
	check(c.Model.Encoder.HiddenSize >= 1, "model.encoder.hidden_size: must be at least 1, got %d", c.Model.Encoder.HiddenSize)
	check(c.Model.Decoder.HiddenSize >= 1, "model.decoder.hidden_size: must be at least 1, got %d", c.Model.Decoder.HiddenSize)
	check(c.Model.Encoder.NumLayers >= 1, "model.encoder.num_layers: must be at least 1, got %d", c.Model.Encoder.NumLayers)
	check(c.Model.Decoder.NumLayers >= 1, "model.decoder.num_layers: must be at least 1, got %d", c.Model.Decoder.NumLayers)
	check(validDropout(c.Model.Encoder.Dropout), "model.encoder.dropout: must be in [0, 1), got %g", c.Model.Encoder.Dropout)
	check(validDropout(c.Model.Decoder.Dropout), "model.decoder.dropout: must be in [0, 1), got %g", c.Model.Decoder.Dropout)
	check(validDropout(c.Model.Decoder.HiddenDropout), "model.decoder.hidden_dropout: must be in [0, 1), got %g", c.Model.Decoder.HiddenDropout)
	choice(c.Model.Decoder.Attention, Attentions, "model.decoder.attention")
	choice(c.Model.Decoder.InitHidden, InitHiddenOptions, "model.decoder.init_hidden")

	if c.Model.TiedEmbeddings && c.Data.SrcVocab != c.Data.TrgVocab {
		errs = append(errs, errors.New(
			"model.tied_embeddings: requires identical src_vocab and trg_vocab files"))
	}

	// The "last" bridge copies the encoder's final state into the decoder,
	// so the effective encoder output size must match the decoder's.
	if c.Model.Decoder.InitHidden == "last" {
		encOut := c.Model.Encoder.HiddenSize
		if c.Model.Encoder.Bidirectional {
			encOut *= 2
		}
		if encOut != c.Model.Decoder.HiddenSize {
			errs = append(errs, fmt.Errorf(
				"model.decoder.init_hidden: \"last\" needs encoder output size %d to equal decoder hidden_size %d",
				encOut, c.Model.Decoder.HiddenSize))
		}
	}

	return errors.Join(errs...)
}

func validateEmbeddings(key string, e EmbeddingsConfig) []error {
	if e.EmbeddingDim < 1 {
		return []error{fmt.Errorf("%s.embedding_dim: must be at least 1, got %d", key, e.EmbeddingDim)}
	}
	return nil
}

func validDropout(p float64) bool {
	return p >= 0 && p < 1
}
