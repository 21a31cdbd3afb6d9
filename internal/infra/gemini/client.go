// Package gemini calls the Google generative-language REST API. The API key
// stays inside this package: it is appended to the request URL only and never
// logged or echoed to callers.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"journal/config"
	"journal/internal/domain/service"

	"github.com/pkg/errors"
)

const requestTimeout = 30 * time.Second

type client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a CompletionClient from configuration. A missing key is
// reported per request, not at startup, so the rest of the service can run
// without a generative-language credential.
func NewClient(cfg *config.Config, logger *slog.Logger) service.CompletionClient {
	gemini := cfg.Gemini
	if gemini == nil {
		gemini = &config.GeminiConfig{}
	}

	return &client{
		apiKey:   gemini.APIKey,
		model:    gemini.Model,
		endpoint: gemini.Endpoint,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends a single-turn prompt. Structured mode asks the model for a
// machine-parseable JSON body via the response MIME type hint.
func (c *client) Generate(ctx context.Context, prompt string, structured bool) (*service.Completion, error) {
	if c.apiKey == "" {
		return nil, service.ErrAPIKeyMissing
	}

	payload := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
	}
	if structured {
		payload.GenerationConfig.ResponseMIMEType = "application/json"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reach generative-language API")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read generative-language response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Generative-language API error",
			slog.Int("status", resp.StatusCode),
			slog.String("model", c.model),
		)

		return nil, &service.UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errors.Wrap(service.ErrMalformedResponse, err.Error())
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, service.ErrMalformedResponse
	}

	return &service.Completion{Text: parsed.Candidates[0].Content.Parts[0].Text}, nil
}

func (c *client) requestURL() string {
	return c.endpoint + "/models/" + c.model + ":generateContent?key=" + url.QueryEscape(c.apiKey)
}
