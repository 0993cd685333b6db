package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDirectory verifies scripts load sorted by filename with non-script
// files skipped.
func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"cylinder.py": "cylinder content",
		"block.py":    "block content",
		"notes.txt":   "should be skipped",
		"README.md":   "should be skipped",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if c.Docs[0].Name != "block.py" || c.Docs[1].Name != "cylinder.py" {
		t.Errorf("order = [%s, %s], want sorted [block.py, cylinder.py]", c.Docs[0].Name, c.Docs[1].Name)
	}
	if c.Docs[0].Text != "block content" {
		t.Errorf("block.py text = %q", c.Docs[0].Text)
	}
	if c.Index == nil {
		t.Error("Load returned corpus without a built index")
	}
}

// TestLoadMissingDirectory verifies a clear error for an absent corpus dir.
func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestLoadInvalidUTF8 verifies stray legacy-encoded bytes are dropped.
func TestLoadInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	data := append([]byte("import NXOpen\n"), 0xff, 0xfe)
	data = append(data, []byte("# done\n")...)
	if err := os.WriteFile(filepath.Join(dir, "odd.py"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "import NXOpen\n# done\n"
	if c.Docs[0].Text != want {
		t.Errorf("text = %q, want %q", c.Docs[0].Text, want)
	}
}

// TestLoadJSON verifies the corpus-export array format preserves order.
func TestLoadJSON(t *testing.T) {
	data := []byte(`[
  {"filename": "extrude.py", "content": "extrude body"},
  {"filename": "block.py", "content": "block body"}
]`)
	c, err := LoadJSON(data)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if c.Docs[0].Name != "extrude.py" || c.Docs[1].Name != "block.py" {
		t.Errorf("order = [%s, %s], want array order preserved", c.Docs[0].Name, c.Docs[1].Name)
	}
}

// TestLoadJSONMalformed verifies a parse error surfaces.
func TestLoadJSONMalformed(t *testing.T) {
	if _, err := LoadJSON([]byte(`{"not": "an array"}`)); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

// TestLoadEmbedded verifies the bundled corpus is present and indexed.
func TestLoadEmbedded(t *testing.T) {
	c := LoadEmbedded()
	if c.Len() == 0 {
		t.Fatal("embedded corpus is empty")
	}
	names := c.Names()
	found := false
	for _, n := range names {
		if n == "block.py" {
			found = true
		}
	}
	if !found {
		t.Errorf("embedded corpus %v missing block.py", names)
	}
	if c.Index == nil {
		t.Error("embedded corpus has no index")
	}
}
