package usecase

import (
	"context"
	"encoding/json"
)

// CompletionOutput carries the proxy result. Exactly one field is set:
// Structured holds the parsed JSON document in structured mode, Text the raw
// model text otherwise.
type CompletionOutput struct {
	Text       string
	Structured json.RawMessage
}

// CompletionUsecase forwards a single-turn prompt to the generative-language
// API on behalf of the caller, keeping the provider credential server-side.
type CompletionUsecase interface {
	Complete(ctx context.Context, prompt string, structured bool) (*CompletionOutput, error)
}
