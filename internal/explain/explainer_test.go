package explain

import (
	"context"
	"errors"
	"testing"
)

type mockExplainer struct {
	response string
	err      error
	calls    int
}

func (m *mockExplainer) Explain(ctx context.Context, code string) (string, error) {
	m.calls++
	return m.response, m.err
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("import NXOpen")
	b := Fingerprint("import NXOpen")
	if a != b {
		t.Errorf("Fingerprint not deterministic: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Fingerprint length = %d, want 64 hex chars", len(a))
	}
	if Fingerprint("import NXOpen\n") == a {
		t.Error("different code produced the same fingerprint")
	}
}

func TestExplain_CacheMissThenHit(t *testing.T) {
	mock := &mockExplainer{response: "creates a block"}
	e := New(mock, NewMemoryCache())

	first, err := e.Explain(context.Background(), "some code")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if first.Cached {
		t.Error("first call reported cached = true")
	}
	if first.Explanation != "creates a block" {
		t.Errorf("Explanation = %q", first.Explanation)
	}

	second, err := e.Explain(context.Background(), "some code")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if !second.Cached {
		t.Error("second call reported cached = false")
	}
	if mock.calls != 1 {
		t.Errorf("provider calls = %d, want 1", mock.calls)
	}
}

func TestExplain_ProviderError(t *testing.T) {
	mock := &mockExplainer{err: errors.New("backend down")}
	e := New(mock, NewMemoryCache())

	if _, err := e.Explain(context.Background(), "code"); err == nil {
		t.Error("Explain() error = nil, want error")
	}
}

func TestExplain_EmptyCode(t *testing.T) {
	e := New(&mockExplainer{}, nil)
	if _, err := e.Explain(context.Background(), ""); err == nil {
		t.Error("Explain(\"\") error = nil, want error")
	}
}

func TestExplain_NilCache(t *testing.T) {
	mock := &mockExplainer{response: "ok"}
	e := New(mock, nil)

	for range 2 {
		if _, err := e.Explain(context.Background(), "code"); err != nil {
			t.Fatalf("Explain() error = %v", err)
		}
	}
	if mock.calls != 2 {
		t.Errorf("provider calls = %d, want 2 without cache", mock.calls)
	}
}
