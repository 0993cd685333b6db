// Package pipeline orchestrates one code-generation request: analyze the
// request, match an example, extract its patterns, compose the prompt, call
// the generation provider, parse the response, and score the result.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/msmohankumar/nx-codebot/internal/composer"
	"github.com/msmohankumar/nx-codebot/internal/corpus"
	"github.com/msmohankumar/nx-codebot/internal/extract"
	"github.com/msmohankumar/nx-codebot/internal/intent"
	"github.com/msmohankumar/nx-codebot/internal/matcher"
	"github.com/msmohankumar/nx-codebot/internal/params"
	"github.com/msmohankumar/nx-codebot/internal/patterns"
	"github.com/msmohankumar/nx-codebot/internal/provider"
	"github.com/msmohankumar/nx-codebot/internal/quality"
)

const defaultGenerateTimeout = 90 * time.Second

// Status tags the outcome of one pipeline run so callers branch on a value
// instead of inspecting error types.
type Status string

const (
	// StatusOK: code was generated, extracted, and scored.
	StatusOK Status = "ok"
	// StatusProviderFailed: the generation call itself failed; Err is set.
	StatusProviderFailed Status = "provider_failed"
	// StatusNoCode: the provider answered but no code block could be
	// recovered; RawResponse is retained for inspection.
	StatusNoCode Status = "no_code"
)

// Result is the request-scoped outcome of one generation run. The pipeline
// holds no state between calls; the caller owns the Result.
type Result struct {
	Request     string
	Params      []string
	Match       matcher.Result
	Patterns    patterns.Summary
	Prompt      string
	RawResponse string
	Code        string
	Quality     quality.Report
	Status      Status
	Err         error
	Duration    time.Duration
}

// Recorder persists finished runs. Implementations must tolerate partial
// results (failed runs are recorded too).
type Recorder interface {
	RecordGeneration(Result) error
}

// Generator runs the generation pipeline against the active corpus snapshot.
type Generator struct {
	corpus   *corpus.Store
	composer *composer.Composer
	provider provider.Provider
	recorder Recorder // optional
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a Generator. recorder may be nil to skip history. A timeout
// <= 0 selects the default.
func New(store *corpus.Store, comp *composer.Composer, prov provider.Provider, recorder Recorder, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &Generator{
		corpus:   store,
		composer: comp,
		provider: prov,
		recorder: recorder,
		timeout:  timeout,
		logger:   slog.Default(),
	}
}

// Generate runs the full pipeline for one request. values parameterize the
// generated code's {paramN} tokens; when nil, numeric tokens from the request
// (or the matched operation's conventional defaults) are used. Provider and
// extraction failures are reported in the Result, never as a panic or a
// crash; a timeout of the provider call surfaces as StatusProviderFailed.
func (g *Generator) Generate(ctx context.Context, request string, values []string) Result {
	start := time.Now()
	res := Result{Request: request}
	defer func() {
		res.Duration = time.Since(start)
		g.record(res)
	}()

	if values == nil {
		values = intent.Params(request)
	}
	res.Params = values

	snapshot := g.corpus.Snapshot()
	res.Match = matcher.Match(snapshot, request)

	if res.Match.Matched() {
		res.Patterns = patterns.Extract(res.Match.Document.Text)
		res.Prompt = g.composer.ComposeWithExample(request, res.Match.Document, res.Patterns)
	} else {
		g.logger.Debug("no example matched, using fallback prompt", "request", request)
		res.Prompt = g.composer.ComposeWithoutExample(request)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.provider.Generate(callCtx, res.Prompt)
	if err != nil {
		res.Status = StatusProviderFailed
		res.Err = err
		return res
	}
	res.RawResponse = raw

	code, ok := extract.Extract(raw)
	if !ok {
		res.Status = StatusNoCode
		return res
	}

	res.Code = params.Replace(code, values)
	res.Quality = quality.Score(res.Code)
	res.Status = StatusOK

	g.logger.Debug("generation complete",
		"matched", res.Match.Matched(),
		"strategy", res.Match.Strategy,
		"confidence", res.Match.Confidence,
		"score", res.Quality.Score,
	)
	return res
}

func (g *Generator) record(res Result) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.RecordGeneration(res); err != nil {
		g.logger.Warn("recording generation failed", "error", err)
	}
}
