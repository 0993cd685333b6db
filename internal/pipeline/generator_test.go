package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/msmohankumar/nx-codebot/internal/composer"
	"github.com/msmohankumar/nx-codebot/internal/corpus"
	"github.com/msmohankumar/nx-codebot/internal/matcher"
	"github.com/msmohankumar/nx-codebot/internal/provider"
)

const blockExample = `# block.py
import NXOpen

def main():
    the_session = NXOpen.Session.GetSession()
    length = "{param1}"
    width = "{param2}"
    height = "{param3}"
    block_builder = work_part.Features.CreateBlockFeatureBuilder(None)
    block_builder.Commit()
    block_builder.Destroy()
`

// mockProvider returns a canned response or error; Explain is unused here.
type mockProvider struct {
	response string
	err      error
	delay    time.Duration
	prompt   string
}

func (m *mockProvider) Generate(ctx context.Context, promptText string) (string, error) {
	m.prompt = promptText
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", provider.ErrProvider
		}
	}
	return m.response, m.err
}

func (m *mockProvider) Explain(ctx context.Context, code string) (string, error) {
	return "", errors.New("not implemented")
}

type memRecorder struct {
	results []Result
}

func (r *memRecorder) RecordGeneration(res Result) error {
	r.results = append(r.results, res)
	return nil
}

func testStore() *corpus.Store {
	return corpus.NewStore(corpus.New([]corpus.Document{
		{Name: "block.py", Text: blockExample},
	}))
}

func TestGenerate_Success(t *testing.T) {
	prov := &mockProvider{
		response: "Here is the script:\n```python\n" + blockExample + "```",
	}
	rec := &memRecorder{}
	g := New(testStore(), composer.New(), prov, rec, 0)

	res := g.Generate(context.Background(), "create a block 100 100 50", nil)

	if res.Status != StatusOK {
		t.Fatalf("Status = %q (err %v), want %q", res.Status, res.Err, StatusOK)
	}
	if res.Match.Strategy != matcher.StrategyKeyword {
		t.Errorf("Strategy = %q, want %q", res.Match.Strategy, matcher.StrategyKeyword)
	}
	if res.Match.Confidence != matcher.KeywordConfidence {
		t.Errorf("Confidence = %v, want %v", res.Match.Confidence, matcher.KeywordConfidence)
	}
	if strings.Contains(res.Code, "{param") {
		t.Errorf("Code contains unresolved placeholders:\n%s", res.Code)
	}
	for _, want := range []string{`"100"`, `"50"`} {
		if !strings.Contains(res.Code, want) {
			t.Errorf("Code missing substituted value %s", want)
		}
	}
	if res.Quality.Score != 100 {
		t.Errorf("Quality.Score = %d, want 100", res.Quality.Score)
	}
	if len(rec.results) != 1 {
		t.Errorf("recorded %d results, want 1", len(rec.results))
	}
	if !strings.Contains(prov.prompt, "block.py") {
		t.Error("prompt does not reference the matched example")
	}
}

func TestGenerate_EmptyCorpusFallbackPrompt(t *testing.T) {
	prov := &mockProvider{
		response: "```python\nimport NXOpen\n\ndef main():\n    pass  # padding padding\n```",
	}
	g := New(corpus.NewStore(corpus.New(nil)), composer.New(), prov, nil, 0)

	res := g.Generate(context.Background(), "make a cylinder", nil)

	if res.Match.Matched() {
		t.Error("Match.Matched() = true for empty corpus")
	}
	if strings.Contains(res.Prompt, "Reference example") {
		t.Error("fallback prompt contains example labeling")
	}
	if res.Status != StatusOK {
		t.Errorf("Status = %q, want %q", res.Status, StatusOK)
	}
}

func TestGenerate_ProviderFailure(t *testing.T) {
	prov := &mockProvider{err: provider.ErrProvider}
	g := New(testStore(), composer.New(), prov, nil, 0)

	res := g.Generate(context.Background(), "create a block", nil)

	if res.Status != StatusProviderFailed {
		t.Fatalf("Status = %q, want %q", res.Status, StatusProviderFailed)
	}
	if !errors.Is(res.Err, provider.ErrProvider) {
		t.Errorf("Err = %v, want ErrProvider", res.Err)
	}
	if res.Code != "" {
		t.Errorf("Code = %q, want empty", res.Code)
	}
}

func TestGenerate_ExtractionFailureKeepsRawResponse(t *testing.T) {
	prov := &mockProvider{response: "I am sorry, I cannot help with that."}
	g := New(testStore(), composer.New(), prov, nil, 0)

	res := g.Generate(context.Background(), "create a block", nil)

	if res.Status != StatusNoCode {
		t.Fatalf("Status = %q, want %q", res.Status, StatusNoCode)
	}
	if res.RawResponse != prov.response {
		t.Errorf("RawResponse = %q, want raw text retained", res.RawResponse)
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil for extraction failure", res.Err)
	}
}

func TestGenerate_TimeoutMapsToProviderFailure(t *testing.T) {
	prov := &mockProvider{response: "late", delay: time.Second}
	g := New(testStore(), composer.New(), prov, nil, 50*time.Millisecond)

	res := g.Generate(context.Background(), "create a block", nil)

	if res.Status != StatusProviderFailed {
		t.Errorf("Status = %q, want %q", res.Status, StatusProviderFailed)
	}
}

func TestGenerate_ExplicitValuesWin(t *testing.T) {
	prov := &mockProvider{
		response: "```python\n" + blockExample + "```",
	}
	g := New(testStore(), composer.New(), prov, nil, 0)

	res := g.Generate(context.Background(), "create a block 1 2 3", []string{"7", "8", "9"})

	for _, want := range []string{`"7"`, `"8"`, `"9"`} {
		if !strings.Contains(res.Code, want) {
			t.Errorf("Code missing explicit value %s", want)
		}
	}
}
