// Package config defines the YAML training configuration for a recurrent
// encoder-decoder NMT system with token-level feedback weights, and the
// loading, defaulting, and validation around it. The configuration is
// parsed once at process start; everything downstream receives a value
// that has already passed Validate.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Tokenization levels for data.level.
const (
	LevelWord = "word"
	LevelBPE  = "bpe"
	LevelChar = "char"
)

// Batch types for training.batch_type.
const (
	BatchTypeSentence = "sentence"
	BatchTypeToken    = "token"
)

// Config is the full training configuration document.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Testing  TestingConfig  `yaml:"testing"`
	Training TrainingConfig `yaml:"training"`
	Model    ModelConfig    `yaml:"model"`
}

// DataConfig describes corpora, tokenization, and vocabulary construction.
type DataConfig struct {
	// Language suffixes; corpus files are <prefix>.<suffix>.
	Src string `yaml:"src"`
	Trg string `yaml:"trg"`

	// Path prefixes for the corpora. Train is required when a vocabulary
	// has to be built; dev and test are optional.
	Train string `yaml:"train"`
	Dev   string `yaml:"dev"`
	Test  string `yaml:"test"`

	// Feedback is an optional file suffix for per-token weight files
	// aligned with the training target side.
	Feedback string `yaml:"feedback"`

	// Level selects word, bpe, or char tokenization. BPE corpora arrive
	// pre-split, so word and bpe both tokenize on whitespace.
	Level string `yaml:"level"`

	// Lowercase applies to both sides before tokenization.
	Lowercase bool `yaml:"lowercase"`

	// MaxSentLength drops training pairs where either side is longer.
	MaxSentLength int `yaml:"max_sent_length"`

	// Vocabulary caps and frequency cutoffs. A limit of 0 means
	// unlimited; min frequency 1 keeps every token.
	SrcVocLimit   int `yaml:"src_voc_limit"`
	TrgVocLimit   int `yaml:"trg_voc_limit"`
	SrcVocMinFreq int `yaml:"src_voc_min_freq"`
	TrgVocMinFreq int `yaml:"trg_voc_min_freq"`

	// Optional fixed vocabulary files. When set, the corpus-derived
	// vocabulary is skipped.
	SrcVocab string `yaml:"src_vocab"`
	TrgVocab string `yaml:"trg_vocab"`
}

// TestingConfig holds inference-time decoding parameters. The toolkit
// validates them and passes them through; decoding itself lives in the
// trainer.
type TestingConfig struct {
	BeamSize   int     `yaml:"beam_size"`
	Alpha      float64 `yaml:"alpha"`
	ReturnLogp bool    `yaml:"return_logp"`
}

// TrainingConfig holds optimizer, batching, scheduling, and checkpoint
// settings.
type TrainingConfig struct {
	RandomSeed int `yaml:"random_seed"`

	Optimizer       string  `yaml:"optimizer"`
	LearningRate    float64 `yaml:"learning_rate"`
	LearningRateMin float64 `yaml:"learning_rate_min"`
	WeightDecay     float64 `yaml:"weight_decay"`
	ClipGradNorm    float64 `yaml:"clip_grad_norm"`

	BatchSize int    `yaml:"batch_size"`
	BatchType string `yaml:"batch_type"`

	Scheduling          string  `yaml:"scheduling"`
	Patience            int     `yaml:"patience"`
	DecreaseFactor      float64 `yaml:"decrease_factor"`
	Epochs              int     `yaml:"epochs"`
	ValidationFreq      int     `yaml:"validation_freq"`
	LoggingFreq         int     `yaml:"logging_freq"`
	EvalMetric          string  `yaml:"eval_metric"`
	EarlyStoppingMetric string  `yaml:"early_stopping_metric"`

	Shuffle         bool  `yaml:"shuffle"`
	UseCuda         bool  `yaml:"use_cuda"`
	MaxOutputLength int   `yaml:"max_output_length"`
	PrintValidSents []int `yaml:"print_valid_sents"`

	ModelDir      string `yaml:"model_dir"`
	Overwrite     bool   `yaml:"overwrite"`
	KeepLastCkpts int    `yaml:"keep_last_ckpts"`
}

// ModelConfig describes the encoder-decoder architecture.
type ModelConfig struct {
	TiedEmbeddings bool          `yaml:"tied_embeddings"`
	Encoder        EncoderConfig `yaml:"encoder"`
	Decoder        DecoderConfig `yaml:"decoder"`
}

// EmbeddingsConfig configures one embedding table.
type EmbeddingsConfig struct {
	EmbeddingDim int  `yaml:"embedding_dim"`
	Scale        bool `yaml:"scale"`
	Freeze       bool `yaml:"freeze"`
}

// EncoderConfig configures the recurrent encoder.
type EncoderConfig struct {
	RNNType       string           `yaml:"rnn_type"`
	Embeddings    EmbeddingsConfig `yaml:"embeddings"`
	HiddenSize    int              `yaml:"hidden_size"`
	NumLayers     int              `yaml:"num_layers"`
	Bidirectional bool             `yaml:"bidirectional"`
	Dropout       float64          `yaml:"dropout"`
	Freeze        bool             `yaml:"freeze"`
}

// DecoderConfig configures the attentional recurrent decoder.
type DecoderConfig struct {
	RNNType       string           `yaml:"rnn_type"`
	Embeddings    EmbeddingsConfig `yaml:"embeddings"`
	HiddenSize    int              `yaml:"hidden_size"`
	NumLayers     int              `yaml:"num_layers"`
	Dropout       float64          `yaml:"dropout"`
	HiddenDropout float64          `yaml:"hidden_dropout"`
	Attention     string           `yaml:"attention"`
	InitHidden    string           `yaml:"init_hidden"`
	InputFeeding  bool             `yaml:"input_feeding"`
	Freeze        bool             `yaml:"freeze"`
}

// Default returns the configuration with all documented defaults filled in.
// Loading a file overlays the document on top of this value, so omitted
// keys keep their defaults.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Level:         LevelWord,
			MaxSentLength: 50,
			SrcVocMinFreq: 1,
			TrgVocMinFreq: 1,
		},
		Testing: TestingConfig{
			BeamSize: 5,
			Alpha:    1.0,
		},
		Training: TrainingConfig{
			RandomSeed:          42,
			Optimizer:           "adam",
			LearningRate:        1e-3,
			LearningRateMin:     1e-5,
			ClipGradNorm:        5.0,
			BatchSize:           20,
			BatchType:           "sentence",
			Scheduling:          "plateau",
			Patience:            5,
			DecreaseFactor:      0.5,
			Epochs:              10,
			ValidationFreq:      1000,
			LoggingFreq:         100,
			EvalMetric:          "bleu",
			EarlyStoppingMetric: "eval_metric",
			Shuffle:             true,
			MaxOutputLength:     100,
			KeepLastCkpts:       5,
		},
		Model: ModelConfig{
			Encoder: EncoderConfig{
				RNNType: "gru",
				Embeddings: EmbeddingsConfig{
					EmbeddingDim: 64,
				},
				HiddenSize:    128,
				NumLayers:     1,
				Bidirectional: true,
				Dropout:       0.1,
			},
			Decoder: DecoderConfig{
				RNNType: "gru",
				Embeddings: EmbeddingsConfig{
					EmbeddingDim: 64,
				},
				HiddenSize:    128,
				NumLayers:     1,
				Dropout:       0.1,
				HiddenDropout: 0.1,
				Attention:     "bahdanau",
				InitHidden:    "bridge",
				InputFeeding:  true,
			},
		},
	}
}

// Load reads, structurally validates, decodes, and semantically validates
// the configuration at path. Missing keys fall back to Default values;
// environment overrides are applied before validation.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := ValidateDocument(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Normalize fills values that are derived from other fields rather than
// true defaults: an unset minimum learning rate, a missing decoder hidden
// size (mirrors the encoder), and min-frequency zero meaning "keep all".
func (c *Config) Normalize() {
	if c.Data.SrcVocMinFreq == 0 {
		c.Data.SrcVocMinFreq = 1
	}
	if c.Data.TrgVocMinFreq == 0 {
		c.Data.TrgVocMinFreq = 1
	}
	if c.Model.Decoder.HiddenSize == 0 {
		c.Model.Decoder.HiddenSize = c.Model.Encoder.HiddenSize
	}
	if c.Model.Decoder.Embeddings.EmbeddingDim == 0 {
		c.Model.Decoder.Embeddings.EmbeddingDim = c.Model.Encoder.Embeddings.EmbeddingDim
	}
}

// applyEnvOverrides lets deployment-specific settings win over the file.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("NMTKIT_MODEL_DIR"); dir != "" {
		c.Training.ModelDir = dir
	}
	if v := os.Getenv("NMTKIT_USE_CUDA"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Training.UseCuda = b
		}
	}
	if v := os.Getenv("NMTKIT_SEED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Training.RandomSeed = n
		}
	}
}

// SrcPath returns the path of the src side of the corpus at prefix.
func (d DataConfig) SrcPath(prefix string) string { return prefix + "." + d.Src }

// TrgPath returns the path of the trg side of the corpus at prefix.
func (d DataConfig) TrgPath(prefix string) string { return prefix + "." + d.Trg }

// FeedbackPath returns the path of the weight file for the training corpus.
func (d DataConfig) FeedbackPath() string { return d.Train + "." + d.Feedback }

// HasFeedback reports whether a feedback suffix is configured.
func (d DataConfig) HasFeedback() bool { return d.Feedback != "" }
