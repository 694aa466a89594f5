package train

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// checkpoint files are named <step>.ckpt by the trainer.
const ckptSuffix = ".ckpt"

// Retention deletes old checkpoints from a model directory, keeping the
// newest keep files by step number. keep = 0 keeps everything.
type Retention struct {
	keep   int
	logger *zap.Logger
}

// NewRetention builds a Retention policy. A nil logger is replaced by a
// no-op logger.
func NewRetention(keep int, logger *zap.Logger) *Retention {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retention{keep: keep, logger: logger}
}

// Apply removes all but the newest checkpoints from modelDir and returns
// the deleted paths. Files that do not parse as <step>.ckpt are left
// alone.
func (r *Retention) Apply(modelDir string) ([]string, error) {
	if r.keep == 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(modelDir)
	if err != nil {
		return nil, fmt.Errorf("read model dir: %w", err)
	}

	type ckpt struct {
		step int
		path string
	}
	var ckpts []ckpt
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ckptSuffix) {
			continue
		}
		step, err := strconv.Atoi(strings.TrimSuffix(e.Name(), ckptSuffix))
		if err != nil {
			continue
		}
		ckpts = append(ckpts, ckpt{step: step, path: filepath.Join(modelDir, e.Name())})
	}
	if len(ckpts) <= r.keep {
		return nil, nil
	}

	sort.Slice(ckpts, func(i, j int) bool { return ckpts[i].step > ckpts[j].step })

	var deleted []string
	for _, c := range ckpts[r.keep:] {
		if err := os.Remove(c.path); err != nil {
			return deleted, fmt.Errorf("remove checkpoint: %w", err)
		}
		r.logger.Info("deleted old checkpoint",
			zap.Int("step", c.step),
			zap.String("path", c.path))
		deleted = append(deleted, c.path)
	}
	return deleted, nil
}
