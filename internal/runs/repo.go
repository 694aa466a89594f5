package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

// Run is one registered training run.
type Run struct {
	ID         string
	ConfigPath string
	ModelDir   string
	StartedAt  time.Time
}

// Validation is one recorded validation result.
type Validation struct {
	RunID        string
	Step         int
	Metric       string
	Score        float64
	LearningRate float64
	CreatedAt    time.Time
}

// Create registers a new run and returns it with a fresh ID.
func (s *Store) Create(ctx context.Context, configPath, modelDir string) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		ConfigPath: configPath,
		ModelDir:   modelDir,
		StartedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, config_path, model_dir, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.ConfigPath, run.ModelDir, run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, config_path, model_dir, started_at FROM runs WHERE id = ?`, id)

	var r Run
	if err := row.Scan(&r.ID, &r.ConfigPath, &r.ModelDir, &r.StartedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return &r, nil
}

// List returns runs newest first, up to limit (0 = unlimited).
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, config_path, model_dir, started_at FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ConfigPath, &r.ModelDir, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LogValidation records a validation result for a run.
func (s *Store) LogValidation(ctx context.Context, v Validation) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO validations (run_id, step, metric, score, learning_rate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.RunID, v.Step, v.Metric, v.Score, v.LearningRate, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert validation: %w", err)
	}
	return nil
}

// History returns a run's validations in step order.
func (s *Store) History(ctx context.Context, runID string) ([]Validation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, step, metric, score, learning_rate, created_at
		 FROM validations WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("query validations: %w", err)
	}
	defer rows.Close()

	var out []Validation
	for rows.Next() {
		var v Validation
		if err := rows.Scan(&v.RunID, &v.Step, &v.Metric, &v.Score, &v.LearningRate, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan validation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Best returns the validation with the best score for a run; minimize
// selects the direction (true for ppl/loss, false for BLEU/chrF).
// Returns ErrNotFound when the run has no validations.
func (s *Store) Best(ctx context.Context, runID string, minimize bool) (*Validation, error) {
	order := "DESC"
	if minimize {
		order = "ASC"
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, step, metric, score, learning_rate, created_at
		 FROM validations WHERE run_id = ?
		 ORDER BY score `+order+`, step ASC LIMIT 1`, runID)

	var v Validation
	if err := row.Scan(&v.RunID, &v.Step, &v.Metric, &v.Score, &v.LearningRate, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan validation: %w", err)
	}
	return &v, nil
}
