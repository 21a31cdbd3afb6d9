package gemini

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"journal/config"
	"journal/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path  string
	query string
	body  map[string]any
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (service.CompletionClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Gemini: &config.GeminiConfig{
			APIKey:   "secret-key",
			Model:    "gemini-2.0-flash",
			Endpoint: server.URL,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewClient(cfg, logger), server
}

func completionResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + strconvQuote(text) + `}]}}]}`
}

func strconvQuote(s string) string {
	quoted, _ := json.Marshal(s)

	return string(quoted)
}

func TestClient_Generate_Text(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.query = r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("hello from the model")))
	})

	completion, err := client.Generate(context.Background(), "say hello", false)

	require.NoError(t, err)
	assert.Equal(t, "hello from the model", completion.Text)
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", captured.path)
	assert.Equal(t, "key=secret-key", captured.query)

	generationConfig, _ := captured.body["generationConfig"].(map[string]any)
	assert.NotContains(t, generationConfig, "responseMimeType")
}

func TestClient_Generate_StructuredSetsMimeType(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse(`{"mood":"calm"}`)))
	})

	completion, err := client.Generate(context.Background(), "analyze", true)

	require.NoError(t, err)
	assert.JSONEq(t, `{"mood":"calm"}`, completion.Text)

	generationConfig, ok := captured.body["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", generationConfig["responseMimeType"])
}

func TestClient_Generate_MissingKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer server.Close()

	cfg := &config.Config{
		Gemini: &config.GeminiConfig{Model: "gemini-2.0-flash", Endpoint: server.URL},
	}
	client := NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Generate(context.Background(), "anything", false)

	assert.ErrorIs(t, err, service.ErrAPIKeyMissing)
	assert.False(t, called, "no upstream call without a key")
}

func TestClient_Generate_UpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	_, err := client.Generate(context.Background(), "anything", false)

	var upstream *service.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.JSONEq(t, `{"error":{"message":"quota exceeded"}}`, upstream.Body)
}

func TestClient_Generate_EmptyCandidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), "anything", false)

	assert.ErrorIs(t, err, service.ErrMalformedResponse)
}
