package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"nmtkit/internal/config"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testData() config.DataConfig {
	return config.DataConfig{
		Src:           "de",
		Trg:           "en",
		Level:         config.LevelWord,
		MaxSentLength: 5,
	}
}

func TestLoadParallel(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "train.de", "ein Haus\nein sehr sehr sehr langes Haus am See\n\nein Baum\n")
	trg := writeFile(t, dir, "train.en", "a house\na very very very long house by the lake\n\na tree\n")

	ds, err := NewLoader(testData()).LoadParallel(src, trg, true)
	if err != nil {
		t.Fatalf("LoadParallel: %v", err)
	}

	if ds.Len() != 2 {
		t.Fatalf("got %d examples, want 2 (one filtered, one blank)", ds.Len())
	}
	if ds.Filtered != 1 {
		t.Errorf("Filtered = %d, want 1", ds.Filtered)
	}
	if got := ds.Examples[0].Src; len(got) != 2 || got[0] != "ein" {
		t.Errorf("first src = %v", got)
	}
}

func TestLoadParallel_NoFilterForEval(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "dev.de", "ein sehr sehr sehr langes Haus am See\n")
	trg := writeFile(t, dir, "dev.en", "a very very very long house by the lake\n")

	ds, err := NewLoader(testData()).LoadParallel(src, trg, false)
	if err != nil {
		t.Fatalf("LoadParallel: %v", err)
	}
	if ds.Len() != 1 || ds.Filtered != 0 {
		t.Errorf("eval data should not be length-filtered: len=%d filtered=%d", ds.Len(), ds.Filtered)
	}
}

func TestLoadParallel_MisalignedSides(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "train.de", "eins\nzwei\n")
	trg := writeFile(t, dir, "train.en", "one\n")

	if _, err := NewLoader(testData()).LoadParallel(src, trg, true); err == nil {
		t.Fatal("expected error for misaligned corpus sides")
	}
}

func TestLoadEval_MissingTargetDegradesToMono(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "test.de", "ein Haus\nein Baum\n")

	ds, err := NewLoader(testData()).LoadEval(src, filepath.Join(dir, "test.en"))
	if err != nil {
		t.Fatalf("LoadEval: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("got %d examples, want 2", ds.Len())
	}
	if ds.Examples[0].Trg != nil {
		t.Error("mono examples should have no target side")
	}
}

func TestLoader_Lowercase(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "train.de", "Ein HAUS\n")
	trg := writeFile(t, dir, "train.en", "A HOUSE\n")

	data := testData()
	data.Lowercase = true
	ds, err := NewLoader(data).LoadParallel(src, trg, true)
	if err != nil {
		t.Fatalf("LoadParallel: %v", err)
	}
	if got := ds.Examples[0].Src[1]; got != "haus" {
		t.Errorf("src token = %q, want lowercased", got)
	}
	if got := ds.Examples[0].Trg[1]; got != "house" {
		t.Errorf("trg token = %q, want lowercased", got)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		level string
		line  string
		want  int
	}{
		{config.LevelWord, "ein kleines Haus", 3},
		{config.LevelBPE, "ein kl@@ eines Haus", 4},
		{config.LevelChar, "ab c", 4},
		{config.LevelWord, "", 0},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.line, tt.level); len(got) != tt.want {
			t.Errorf("Tokenize(%q, %s) = %v, want %d tokens", tt.line, tt.level, got, tt.want)
		}
	}
}

func TestTokenize_CharKeepsSpaces(t *testing.T) {
	got := Tokenize("ab c", config.LevelChar)
	want := []string{"a", "b", " ", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("char tokens = %v, want %v", got, want)
		}
	}
}
