package corpus

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

//go:embed examples/*.py
var embeddedFS embed.FS

// scriptExtensions lists file extensions treated as example scripts.
var scriptExtensions = []string{".py"}

// Load reads every example script in dir (sorted by filename, so corpus order
// is stable across loads) and builds a Corpus. File reads run concurrently;
// document order is fixed by the sorted name list, not by read completion.
func Load(dir string) (*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !isScript(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]Document, len(names))
	g := new(errgroup.Group)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("reading example %s: %w", name, err)
			}
			docs[i] = Document{Name: name, Text: decodeText(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(docs), nil
}

// jsonEntry matches the exported corpus JSON format: an array of
// {"filename": ..., "content": ...} objects.
type jsonEntry struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// LoadJSON builds a Corpus from corpus-export JSON data, preserving the
// array order as corpus order.
func LoadJSON(data []byte) (*Corpus, error) {
	var entries []jsonEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing corpus JSON: %w", err)
	}
	docs := make([]Document, len(entries))
	for i, e := range entries {
		docs[i] = Document{Name: e.Filename, Text: e.Content}
	}
	return New(docs), nil
}

// LoadEmbedded builds the bundled default corpus from the example scripts
// compiled into the binary. It cannot fail at runtime; errors indicate a
// broken build and panic.
func LoadEmbedded() *Corpus {
	entries, err := embeddedFS.ReadDir("examples")
	if err != nil {
		panic(fmt.Sprintf("corpus: reading embedded examples: %v", err))
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]Document, len(names))
	for i, name := range names {
		data, err := embeddedFS.ReadFile("examples/" + name)
		if err != nil {
			panic(fmt.Sprintf("corpus: reading embedded example %s: %v", name, err))
		}
		docs[i] = Document{Name: name, Text: string(data)}
	}
	return New(docs)
}

func isScript(name string) bool {
	for _, ext := range scriptExtensions {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return true
		}
	}
	return false
}

// decodeText converts raw file bytes to a string, dropping invalid UTF-8
// sequences. Example scripts exported from Windows tooling occasionally
// carry stray legacy-encoded bytes.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}
