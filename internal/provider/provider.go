// Package provider abstracts the text-generation backend. The pipeline sees
// a single blocking call: prompt in, text out, may fail.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrProvider marks transport or backend failures of the generation call.
// Callers use it to distinguish "the provider failed" from "the provider
// answered but no code could be extracted".
var ErrProvider = errors.New("generation provider failure")

// Provider is the text-generation contract consumed by the pipeline.
type Provider interface {
	// Generate sends promptText to the backend and returns the raw response
	// text. Errors (including timeouts) wrap ErrProvider.
	Generate(ctx context.Context, promptText string) (string, error)

	// Explain asks the backend for a natural-language explanation of a code
	// snippet. Errors wrap ErrProvider.
	Explain(ctx context.Context, code string) (string, error)
}

// providerErr wraps err so that errors.Is(err, ErrProvider) holds.
func providerErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProvider, fmt.Sprintf(format, args...))
}
