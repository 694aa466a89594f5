package vocab

import (
	"path/filepath"
	"testing"
)

func TestNew_SpecialsFirst(t *testing.T) {
	v, err := New([]string{"haus", "baum"})
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != 6 {
		t.Fatalf("Len = %d, want 6", v.Len())
	}
	if v.Lookup(UnkToken) != UnkID || v.Lookup(PadToken) != PadID ||
		v.Lookup(BosToken) != BosID || v.Lookup(EosToken) != EosID {
		t.Error("specials not at fixed indices")
	}
	if v.Lookup("haus") != 4 {
		t.Errorf("haus = %d, want 4", v.Lookup("haus"))
	}
}

func TestNew_Duplicate(t *testing.T) {
	if _, err := New([]string{"haus", "haus"}); err == nil {
		t.Fatal("expected error for duplicate token")
	}
	// Repeating a special is tolerated.
	if _, err := New([]string{"<unk>", "haus"}); err != nil {
		t.Fatalf("repeated special should be skipped: %v", err)
	}
}

func TestLookup_Unknown(t *testing.T) {
	v, _ := New([]string{"haus"})
	if got := v.Lookup("schloss"); got != UnkID {
		t.Errorf("unknown token = %d, want %d", got, UnkID)
	}
	if !v.IsUnk("schloss") || v.IsUnk("haus") {
		t.Error("IsUnk misclassifies")
	}
}

func TestBuild_FrequencyOrderAndCutoffs(t *testing.T) {
	freqs := map[string]int{
		"der": 10, "die": 10, "das": 5, "haus": 2, "baum": 1,
	}

	v := Build(freqs, 2, 0)
	want := []string{"<unk>", "<pad>", "<s>", "</s>", "der", "die", "das", "haus"}
	got := v.Tokens()
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokens = %v, want %v (frequency desc, lexicographic ties)", got, want)
		}
	}
}

func TestBuild_SizeCap(t *testing.T) {
	freqs := map[string]int{"a": 5, "b": 4, "c": 3, "d": 2}
	v := Build(freqs, 1, 2)
	if v.Len() != 6 {
		t.Fatalf("Len = %d, want 4 specials + 2 tokens", v.Len())
	}
	if v.IsUnk("a") || v.IsUnk("b") {
		t.Error("most frequent tokens should survive the cap")
	}
	if !v.IsUnk("c") {
		t.Error("capped token should be unknown")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	v := Build(map[string]int{"haus": 3, "baum": 2, "see": 1}, 1, 0)
	path := filepath.Join(t.TempDir(), "vocab", "train.txt")

	if err := v.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Len() != v.Len() {
		t.Fatalf("loaded Len = %d, want %d", loaded.Len(), v.Len())
	}
	for _, tok := range []string{"haus", "baum", "see"} {
		if loaded.Lookup(tok) != v.Lookup(tok) {
			t.Errorf("%s: index %d != %d", tok, loaded.Lookup(tok), v.Lookup(tok))
		}
	}
}

func TestToken_OutOfRange(t *testing.T) {
	v, _ := New(nil)
	if _, err := v.Token(99); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
	tok, err := v.Token(BosID)
	if err != nil || tok != BosToken {
		t.Errorf("Token(BosID) = %q, %v", tok, err)
	}
}
