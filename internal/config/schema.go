package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// documentSchema is the structural schema for the configuration document.
// It rejects unknown sections and wrongly-typed scalars before decoding;
// ranges and cross-field rules live in Validate.
var documentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"data": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"src":              map[string]any{"type": "string"},
				"trg":              map[string]any{"type": "string"},
				"train":            map[string]any{"type": "string"},
				"dev":              map[string]any{"type": "string"},
				"test":             map[string]any{"type": "string"},
				"feedback":         map[string]any{"type": "string"},
				"level":            map[string]any{"type": "string", "enum": []any{"word", "bpe", "char"}},
				"lowercase":        map[string]any{"type": "boolean"},
				"max_sent_length":  map[string]any{"type": "integer"},
				"src_voc_limit":    map[string]any{"type": "integer"},
				"trg_voc_limit":    map[string]any{"type": "integer"},
				"src_voc_min_freq": map[string]any{"type": "integer"},
				"trg_voc_min_freq": map[string]any{"type": "integer"},
				"src_vocab":        map[string]any{"type": "string"},
				"trg_vocab":        map[string]any{"type": "string"},
			},
			"additionalProperties": false,
		},
		"testing": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"beam_size":   map[string]any{"type": "integer"},
				"alpha":       map[string]any{"type": "number"},
				"return_logp": map[string]any{"type": "boolean"},
			},
			"additionalProperties": false,
		},
		"training": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"random_seed":           map[string]any{"type": "integer"},
				"optimizer":             map[string]any{"type": "string"},
				"learning_rate":         map[string]any{"type": "number"},
				"learning_rate_min":     map[string]any{"type": "number"},
				"weight_decay":          map[string]any{"type": "number"},
				"clip_grad_norm":        map[string]any{"type": "number"},
				"batch_size":            map[string]any{"type": "integer"},
				"batch_type":            map[string]any{"type": "string"},
				"scheduling":            map[string]any{"type": "string"},
				"patience":              map[string]any{"type": "integer"},
				"decrease_factor":       map[string]any{"type": "number"},
				"epochs":                map[string]any{"type": "integer"},
				"validation_freq":       map[string]any{"type": "integer"},
				"logging_freq":          map[string]any{"type": "integer"},
				"eval_metric":           map[string]any{"type": "string"},
				"early_stopping_metric": map[string]any{"type": "string"},
				"shuffle":               map[string]any{"type": "boolean"},
				"use_cuda":              map[string]any{"type": "boolean"},
				"max_output_length":     map[string]any{"type": "integer"},
				"print_valid_sents": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
				"model_dir":       map[string]any{"type": "string"},
				"overwrite":       map[string]any{"type": "boolean"},
				"keep_last_ckpts": map[string]any{"type": "integer"},
			},
			"additionalProperties": false,
		},
		"model": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tied_embeddings": map[string]any{"type": "boolean"},
				"encoder":         rnnSchema(true),
				"decoder":         rnnSchema(false),
			},
			"additionalProperties": false,
		},
	},
	"additionalProperties": false,
}

func rnnSchema(encoder bool) map[string]any {
	props := map[string]any{
		"rnn_type": map[string]any{"type": "string"},
		"embeddings": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"embedding_dim": map[string]any{"type": "integer"},
				"scale":         map[string]any{"type": "boolean"},
				"freeze":        map[string]any{"type": "boolean"},
			},
			"additionalProperties": false,
		},
		"hidden_size": map[string]any{"type": "integer"},
		"num_layers":  map[string]any{"type": "integer"},
		"dropout":     map[string]any{"type": "number"},
		"freeze":      map[string]any{"type": "boolean"},
	}
	if encoder {
		props["bidirectional"] = map[string]any{"type": "boolean"}
	} else {
		props["hidden_dropout"] = map[string]any{"type": "number"}
		props["attention"] = map[string]any{"type": "string"}
		props["init_hidden"] = map[string]any{"type": "string"}
		props["input_feeding"] = map[string]any{"type": "boolean"}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ValidateDocument checks the raw YAML document against the structural
// schema. It catches typos in section or option names and wrongly-typed
// values with positions the semantic validator cannot give.
func ValidateDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("empty configuration document")
	}

	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}

	// The validator expects a JSON-shaped value; round-trip the decoded
	// YAML through encoding/json to normalize the scalar types.
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("document validation failed: %w", err)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://nmtkit-config.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}
