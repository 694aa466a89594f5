// Package feedback re-aligns token-level reward files with BPE-split
// corpora. Rewards are collected against the whitespace tokenization a
// human or metric saw; after BPE preprocessing each original token may
// have been split into several units, and every unit must carry the
// reward of its unsplit original before the weighted loss can use it.
package feedback

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ContinuationMarker is the suffix BPE places on units that continue in
// the following unit.
const ContinuationMarker = "@@"

// Distribute maps rewards aligned with the unsplit tokenization onto the
// BPE units of one sentence. A unit carrying the continuation marker and
// every unit that follows it up to the end of the original token share
// that token's reward.
func Distribute(units, rewards []string) ([]string, error) {
	unsplit := 0
	for _, u := range units {
		if !strings.Contains(u, ContinuationMarker) {
			unsplit++
		}
	}
	if unsplit != len(rewards) {
		return nil, fmt.Errorf("%d rewards for %d unsplit tokens", len(rewards), unsplit)
	}

	out := make([]string, len(units))
	tok := 0
	for i, u := range units {
		out[i] = rewards[tok]
		// The marker means the original token continues; only its last
		// unit advances to the next reward.
		if !strings.Contains(u, ContinuationMarker) {
			tok++
		}
	}
	return out, nil
}

// DistributeAll streams a BPE-split target file and its reward file into
// an output reward file aligned with the BPE units. The two inputs must
// have the same number of lines. Returns the number of lines written.
func DistributeAll(targetPath, rewardPath, outPath string) (int, error) {
	target, err := os.Open(targetPath)
	if err != nil {
		return 0, fmt.Errorf("open target: %w", err)
	}
	defer target.Close()

	reward, err := os.Open(rewardPath)
	if err != nil {
		return 0, fmt.Errorf("open rewards: %w", err)
	}
	defer reward.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}

	n, err := distribute(target, reward, out)
	if err != nil {
		out.Close()
		return 0, err
	}
	return n, out.Close()
}

func distribute(target, reward io.Reader, out io.Writer) (int, error) {
	targetSc := bufio.NewScanner(target)
	targetSc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	rewardSc := bufio.NewScanner(reward)
	rewardSc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	w := bufio.NewWriter(out)

	line := 0
	for targetSc.Scan() {
		line++
		if !rewardSc.Scan() {
			return 0, fmt.Errorf("reward file ends at line %d while target continues", line-1)
		}

		units := strings.Fields(targetSc.Text())
		rewards := strings.Fields(rewardSc.Text())

		aligned, err := Distribute(units, rewards)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		fmt.Fprintln(w, strings.Join(aligned, " "))
	}
	if err := targetSc.Err(); err != nil {
		return 0, fmt.Errorf("read target: %w", err)
	}
	if rewardSc.Scan() {
		return 0, fmt.Errorf("reward file has more lines than target (%d)", line)
	}
	if err := rewardSc.Err(); err != nil {
		return 0, fmt.Errorf("read rewards: %w", err)
	}

	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("write output: %w", err)
	}
	return line, nil
}
