package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

func TestGenerateRequestShape(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /v1/generate": `{"code":"import NXOpen","status":"ok","matched_example":"block.py","strategy":"keyword","confidence":0.85,"quality":{"score":100,"message":"High quality - production ready"}}`,
	})
	client := ts.client()

	resp, err := client.post("/v1/generate", map[string]any{
		"request": "create a block 100 100 50",
		"params":  []string{"100", "100", "50"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result struct {
		Code           string `json:"code"`
		Status         string `json:"status"`
		MatchedExample string `json:"matched_example"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Code != "import NXOpen" {
		t.Errorf("code = %q", result.Code)
	}
	if result.MatchedExample != "block.py" {
		t.Errorf("matched_example = %q", result.MatchedExample)
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Method != "POST" || r.Path != "/v1/generate" {
		t.Errorf("request = %s %s", r.Method, r.Path)
	}
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["request"] != "create a block 100 100 50" {
		t.Errorf("body.request = %v", body["request"])
	}
	params, ok := body["params"].([]any)
	if !ok || len(params) != 3 {
		t.Errorf("body.params = %v", body["params"])
	}
}

func TestExplainRequestShape(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /v1/explain": `{"fingerprint":"abc","explanation":"Imports the NXOpen module.","cached":true}`,
	})
	client := ts.client()

	resp, err := client.post("/v1/explain", map[string]any{"code": "import NXOpen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result struct {
		Explanation string `json:"explanation"`
		Cached      bool   `json:"cached"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Explanation != "Imports the NXOpen module." {
		t.Errorf("explanation = %q", result.Explanation)
	}
	if !result.Cached {
		t.Error("cached = false, want true")
	}
}

func TestHistoryQueryString(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /v1/history": `[{"id":"11112222-aaaa","created_at":"2026-01-02T03:04:05Z","request":"create a block","score":85,"status":"ok"}]`,
	})
	client := ts.client()

	resp, err := client.get("/v1/history?limit=5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entries []map[string]any
	if err := decodeJSON(resp, &entries); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	r := ts.requests[0]
	if !strings.Contains(r.Path, "limit=5") {
		t.Errorf("path = %q, want limit=5 in query", r.Path)
	}
}

func TestDecodeJSONServerError(t *testing.T) {
	ts := newTestServer(t, nil)
	client := ts.client()

	resp, err := client.get("/v1/no-such-route")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}

	var out map[string]any
	err = decodeJSON(resp, &out)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q, want it to mention 404", err)
	}
}

func TestNoTokenOmitsAuthHeader(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /health": `{"status":"ok"}`,
	})
	client := ts.client()
	client.token = ""

	if _, err := client.get("/health"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ts.requests[0].Auth; got != "" {
		t.Errorf("auth header = %q, want empty", got)
	}
}
