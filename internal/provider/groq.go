package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"
	defaultTimeout = 60 * time.Second
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
)

// explainSystemPrompt is the directive used for code explanations.
const explainSystemPrompt = "You are an expert CAD developer assistant. " +
	"Explain the following Siemens NXOpen Python code snippet in clear, concise steps."

// GroqClient talks to the Groq OpenAI-compatible chat completions API.
type GroqClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ Provider = (*GroqClient)(nil)

// NewGroqClient creates a client with the given API key and model. An empty
// model selects the default.
func NewGroqClient(apiKey, model string) *GroqClient {
	if model == "" {
		model = defaultModel
	}
	return &GroqClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewGroqClientWithBaseURL creates a client pointing at a custom base URL
// (for testing).
func NewGroqClientWithBaseURL(apiKey, model, baseURL string) *GroqClient {
	c := NewGroqClient(apiKey, model)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends promptText as a single user message and returns the
// assistant's response text.
func (c *GroqClient) Generate(ctx context.Context, promptText string) (string, error) {
	return c.chat(ctx, []chatMessage{
		{Role: "user", Content: promptText},
	})
}

// Explain requests a step-by-step explanation of a code snippet.
func (c *GroqClient) Explain(ctx context.Context, code string) (string, error) {
	return c.chat(ctx, []chatMessage{
		{Role: "system", Content: explainSystemPrompt},
		{Role: "user", Content: "Explain this code:\n" + code},
	})
}

// chat performs one completion call, retrying with exponential backoff on
// rate limiting. All failure paths wrap ErrProvider.
func (c *GroqClient) chat(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", providerErr("marshaling request: %v", err)
	}

	var lastErr error
	for attempt := range maxRetries {
		text, err := c.doChat(ctx, body)
		if err == nil {
			return text, nil
		}

		if !isRateLimit(err) {
			return "", err
		}

		lastErr = err
		if attempt < maxRetries-1 {
			backoff := time.Duration(float64(initialBackoff) * math.Pow(2, float64(attempt)))
			select {
			case <-ctx.Done():
				return "", providerErr("cancelled while backing off: %v", ctx.Err())
			case <-time.After(backoff):
			}
		}
	}

	return "", providerErr("rate limited after %d retries: %v", maxRetries, lastErr)
}

func (c *GroqClient) doChat(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", providerErr("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", providerErr("calling chat completions: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &rateLimitError{status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", providerErr("chat completions returned HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", providerErr("decoding response: %v", err)
	}
	if parsed.Error != nil {
		return "", providerErr("backend error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", providerErr("response contains no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// rateLimitError is returned on HTTP 429.
type rateLimitError struct {
	status int
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limited (HTTP %d)", e.status)
}

func (e *rateLimitError) Is(target error) bool {
	return target == ErrProvider
}

func isRateLimit(err error) bool {
	_, ok := err.(*rateLimitError)
	return ok
}
