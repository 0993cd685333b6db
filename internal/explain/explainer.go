// Package explain produces natural-language explanations of generated code,
// cached under a stable content fingerprint.
package explain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// CacheStore persists explanations keyed by content fingerprint.
type CacheStore interface {
	// GetExplanation returns the cached explanation for key. The boolean is
	// false on a cache miss.
	GetExplanation(key string) (string, bool, error)

	// PutExplanation stores an explanation under key.
	PutExplanation(key, explanation string) error
}

// CodeExplainer is the provider call used for cache misses.
type CodeExplainer interface {
	Explain(ctx context.Context, code string) (string, error)
}

// Fingerprint returns the stable cache key for a code snippet: the SHA-256
// hex digest of its exact text. Identical code always yields the same key.
func Fingerprint(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// Result is one explanation lookup outcome.
type Result struct {
	Fingerprint string
	Explanation string
	Cached      bool
}

// Explainer resolves explanations through the cache first, falling back to
// the provider. Cache failures degrade to a provider call; they never fail
// the request.
type Explainer struct {
	provider CodeExplainer
	cache    CacheStore
}

// New creates an Explainer. cache may be nil to disable caching.
func New(provider CodeExplainer, cache CacheStore) *Explainer {
	return &Explainer{provider: provider, cache: cache}
}

// Explain returns the explanation for code, from cache when available.
func (e *Explainer) Explain(ctx context.Context, code string) (Result, error) {
	if code == "" {
		return Result{}, fmt.Errorf("nothing to explain: empty code")
	}

	key := Fingerprint(code)

	if e.cache != nil {
		cached, ok, err := e.cache.GetExplanation(key)
		if err != nil {
			slog.Warn("explanation cache read failed", "error", err)
		} else if ok {
			return Result{Fingerprint: key, Explanation: cached, Cached: true}, nil
		}
	}

	explanation, err := e.provider.Explain(ctx, code)
	if err != nil {
		return Result{}, fmt.Errorf("explaining code: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.PutExplanation(key, explanation); err != nil {
			slog.Warn("explanation cache write failed", "error", err)
		}
	}

	return Result{Fingerprint: key, Explanation: explanation}, nil
}
