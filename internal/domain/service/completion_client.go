package service

import (
	"context"
	"errors"
)

// Sentinel failures the completion client can report besides upstream HTTP errors.
var (
	// ErrAPIKeyMissing indicates the server-side provider key is not configured.
	ErrAPIKeyMissing = errors.New("completion API key is not configured")

	// ErrMalformedResponse indicates the upstream answered 2xx but without the
	// expected candidate content, an upstream-contract violation.
	ErrMalformedResponse = errors.New("malformed completion response")
)

// Completion is the text returned by the generative-language API for a single
// prompt. For structured requests the text is a JSON document.
type Completion struct {
	Text string
}

// UpstreamError reports a non-success response from the generative-language
// API. The status code and raw body are forwarded to the caller.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return "generative-language API returned non-success status"
}

// CompletionClient sends a single-turn prompt to the generative-language API.
// The provider API key is held by the implementation and never surfaces.
type CompletionClient interface {
	Generate(ctx context.Context, prompt string, structured bool) (*Completion, error)
}
