package train

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCkpt(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRetention_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1000.ckpt", "2000.ckpt", "3000.ckpt", "4000.ckpt"} {
		writeCkpt(t, dir, name)
	}

	deleted, err := NewRetention(2, nil).Apply(dir)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("deleted %d files, want 2", len(deleted))
	}

	for name, want := range map[string]bool{
		"1000.ckpt": false, "2000.ckpt": false, "3000.ckpt": true, "4000.ckpt": true,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists := err == nil; exists != want {
			t.Errorf("%s: exists=%v, want %v", name, exists, want)
		}
	}
}

func TestRetention_ZeroKeepsAll(t *testing.T) {
	dir := t.TempDir()
	writeCkpt(t, dir, "1000.ckpt")
	writeCkpt(t, dir, "2000.ckpt")

	deleted, err := NewRetention(0, nil).Apply(dir)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(deleted) != 0 {
		t.Errorf("deleted %d files, want none", len(deleted))
	}
}

func TestRetention_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeCkpt(t, dir, "1000.ckpt")
	writeCkpt(t, dir, "2000.ckpt")
	writeCkpt(t, dir, "best.ckpt") // no step number
	writeCkpt(t, dir, "config.yaml")

	if _, err := NewRetention(1, nil).Apply(dir); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	for _, name := range []string{"best.ckpt", "config.yaml", "2000.ckpt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s should survive", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "1000.ckpt")); err == nil {
		t.Error("1000.ckpt should be deleted")
	}
}

func TestRetention_FewerThanKeep(t *testing.T) {
	dir := t.TempDir()
	writeCkpt(t, dir, "1000.ckpt")

	deleted, err := NewRetention(5, nil).Apply(dir)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(deleted) != 0 {
		t.Errorf("deleted %d files, want none", len(deleted))
	}
}
