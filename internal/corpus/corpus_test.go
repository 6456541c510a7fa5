package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadSingleFile verifies loading one explicit file.
func TestLoadSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "capture.bmt")
	if err := os.WriteFile(path, []byte{1, 2, 3, 4}, 0600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	f := c.Files[0]
	if f.Name != "capture.bmt" {
		t.Errorf("Name = %q, want capture.bmt", f.Name)
	}
	if f.Base() != "capture" {
		t.Errorf("Base() = %q, want capture", f.Base())
	}
	if len(f.Digest) != 64 {
		t.Errorf("Digest length = %d, want 64 hex chars", len(f.Digest))
	}
}

// TestLoadDirectory verifies extension filtering and lexicographic order.
func TestLoadDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string][]byte{
		"b.bmt":      {1, 2, 3},
		"a.BMT":      {1, 2, 3, 4, 5},
		"notes.txt":  []byte("ignored"),
		"c.bmt.bak":  []byte("ignored"),
		"short.bmt":  {1, 2},
		"z_last.bmt": {9, 9, 9, 9},
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			t.Fatal(err)
		}
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"a.BMT", "b.bmt", "short.bmt", "z_last.bmt"}
	if c.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", c.Len(), len(want))
	}
	for i, name := range want {
		if c.Files[i].Name != name {
			t.Errorf("Files[%d].Name = %q, want %q", i, c.Files[i].Name, name)
		}
	}

	if c.MinLen() != 2 {
		t.Errorf("MinLen() = %d, want 2 (shortest member)", c.MinLen())
	}
}

// TestLoadMissingPath verifies that an absent input is fatal.
func TestLoadMissingPath(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.bmt")); err == nil {
		t.Error("expected error for missing input")
	}
}

// TestDigestStable verifies that identical bytes yield identical digests.
func TestDigestStable(t *testing.T) {
	t.Parallel()

	a := Digest([]byte{0xDE, 0xAD})
	b := Digest([]byte{0xDE, 0xAD})
	if a != b {
		t.Errorf("digests differ for identical input: %s vs %s", a, b)
	}
	if a == Digest([]byte{0xDE, 0xAE}) {
		t.Error("digests collide for different input")
	}
}

// TestMinLenEmptyCorpus verifies the zero-member bound.
func TestMinLenEmptyCorpus(t *testing.T) {
	t.Parallel()

	c := &Corpus{}
	if c.MinLen() != 0 {
		t.Errorf("MinLen() = %d, want 0", c.MinLen())
	}
}
