package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/msmohankumar/nx-codebot/internal/corpus"
	"github.com/msmohankumar/nx-codebot/internal/explain"
	"github.com/msmohankumar/nx-codebot/internal/matcher"
	"github.com/msmohankumar/nx-codebot/internal/pipeline"
	"github.com/msmohankumar/nx-codebot/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// GenerateRunner abstracts the generation pipeline for the API layer.
type GenerateRunner interface {
	Generate(ctx context.Context, request string, values []string) pipeline.Result
}

// ExplainRunner abstracts cached code explanation for the API layer.
type ExplainRunner interface {
	Explain(ctx context.Context, code string) (explain.Result, error)
}

// Deps holds dependencies for the HTTP API.
type Deps struct {
	Generator GenerateRunner
	Explainer ExplainRunner // optional; if nil, /v1/explain reports unavailable
	Corpus    *corpus.Store
	Store     *storage.Store // optional; if nil, history routes report unavailable
	Token     string         // optional; empty disables bearer auth
}

// NewHandler returns the REST API handler. /health stays open; everything
// under /v1 requires the bearer token when one is configured.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(deps))

	r.Route("/v1", func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		}
		r.Post("/generate", handleGenerate(deps))
		r.Post("/match", handleMatch(deps))
		r.Post("/explain", handleExplain(deps))
		r.Get("/corpus", handleCorpus(deps))
		r.Get("/history", handleListHistory(deps))
		r.Get("/history/{id}", handleGetHistory(deps))
	})

	return r
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status":    "ok",
			"documents": deps.Corpus.Snapshot().Len(),
		})
	}
}

type GenerateRequest struct {
	Request string   `json:"request"`
	Params  []string `json:"params"`
}

// GenerateResponse is the full pipeline outcome for one request.
type GenerateResponse struct {
	Code           string          `json:"code"`
	RawResponse    string          `json:"raw_response,omitempty"`
	MatchedExample string          `json:"matched_example,omitempty"`
	Strategy       string          `json:"strategy,omitempty"`
	Confidence     float64         `json:"confidence"`
	Quality        QualityResponse `json:"quality"`
	Status         string          `json:"status"`
	DurationMs     int64           `json:"duration_ms"`
}

type QualityResponse struct {
	Score     int             `json:"score"`
	Message   string          `json:"message"`
	Checklist map[string]bool `json:"checklist,omitempty"`
}

func handleGenerate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Request == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "request is required")
			return
		}

		res := deps.Generator.Generate(r.Context(), req.Request, req.Params)
		if res.Status == pipeline.StatusProviderFailed {
			httpError(w, http.StatusBadGateway, "api_error", "generation failed: %v", res.Err)
			return
		}

		writeJSON(w, toGenerateResponse(res))
	}
}

func toGenerateResponse(res pipeline.Result) GenerateResponse {
	out := GenerateResponse{
		Code:       res.Code,
		Status:     string(res.Status),
		DurationMs: res.Duration.Milliseconds(),
		Quality: QualityResponse{
			Score:     res.Quality.Score,
			Message:   res.Quality.Message,
			Checklist: res.Quality.Checklist,
		},
	}
	if res.Match.Matched() {
		out.MatchedExample = res.Match.Document.Name
		out.Strategy = string(res.Match.Strategy)
		out.Confidence = res.Match.Confidence
	}
	if res.Status == pipeline.StatusNoCode {
		out.RawResponse = res.RawResponse
	}
	return out
}

type MatchRequest struct {
	Request string `json:"request"`
}

type MatchResponse struct {
	Matched    bool    `json:"matched"`
	Example    string  `json:"example,omitempty"`
	Strategy   string  `json:"strategy,omitempty"`
	Confidence float64 `json:"confidence"`
}

func handleMatch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req MatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Request == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "request is required")
			return
		}

		res := matcher.Match(deps.Corpus.Snapshot(), req.Request)
		out := MatchResponse{Matched: res.Matched(), Confidence: res.Confidence}
		if res.Matched() {
			out.Example = res.Document.Name
			out.Strategy = string(res.Strategy)
		}
		writeJSON(w, out)
	}
}

type ExplainRequest struct {
	Code string `json:"code"`
}

type ExplainResponse struct {
	Fingerprint string `json:"fingerprint"`
	Explanation string `json:"explanation"`
	Cached      bool   `json:"cached"`
}

func handleExplain(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		if deps.Explainer == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "explanation not available")
			return
		}

		var req ExplainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Code == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "code is required")
			return
		}

		res, err := deps.Explainer.Explain(r.Context(), req.Code)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "explanation failed: %v", err)
			return
		}

		writeJSON(w, ExplainResponse{
			Fingerprint: res.Fingerprint,
			Explanation: res.Explanation,
			Cached:      res.Cached,
		})
	}
}

func handleCorpus(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := deps.Corpus.Snapshot()
		names := snapshot.Names()
		if names == nil {
			names = []string{}
		}
		writeJSON(w, map[string]any{
			"documents": names,
			"count":     snapshot.Len(),
		})
	}
}

// HistoryEntry is the list view of one recorded generation. Prompt and
// response bodies are only exposed on the detail route.
type HistoryEntry struct {
	ID             string  `json:"id"`
	CreatedAt      string  `json:"created_at"`
	Request        string  `json:"request"`
	MatchedExample string  `json:"matched_example,omitempty"`
	Strategy       string  `json:"strategy,omitempty"`
	Confidence     float64 `json:"confidence"`
	Score          int     `json:"score"`
	Status         string  `json:"status"`
	DurationMs     int64   `json:"duration_ms"`
}

func handleListHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "history not available")
			return
		}

		limit := parseIntParam(r, "limit", 20, 100)
		gens, err := deps.Store.ListGenerations(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list history: %v", err)
			return
		}

		entries := make([]HistoryEntry, len(gens))
		for i, g := range gens {
			entries[i] = toHistoryEntry(g)
		}
		writeJSON(w, entries)
	}
}

func handleGetHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "history not available")
			return
		}

		id := chi.URLParam(r, "id")
		g, err := deps.Store.GetGeneration(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "generation not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get generation: %v", err)
			return
		}

		writeJSON(w, map[string]any{
			"id":              g.ID,
			"created_at":      g.CreatedAt.Format(time.RFC3339),
			"request":         g.Request,
			"matched_example": g.MatchedExample,
			"strategy":        g.Strategy,
			"confidence":      g.Confidence,
			"prompt":          g.Prompt,
			"raw_response":    g.RawResponse,
			"code":            g.Code,
			"score":           g.Score,
			"status":          g.Status,
			"error":           g.ErrorText,
			"duration_ms":     g.DurationMs,
		})
	}
}

func toHistoryEntry(g storage.Generation) HistoryEntry {
	return HistoryEntry{
		ID:             g.ID,
		CreatedAt:      g.CreatedAt.Format(time.RFC3339),
		Request:        g.Request,
		MatchedExample: g.MatchedExample,
		Strategy:       g.Strategy,
		Confidence:     g.Confidence,
		Score:          g.Score,
		Status:         g.Status,
		DurationMs:     g.DurationMs,
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
