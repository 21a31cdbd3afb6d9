package impl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	domainerrors "journal/internal/domain/errors"
	"journal/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompletionClient returns a canned completion or error.
type fakeCompletionClient struct {
	completion *service.Completion
	err        error

	lastPrompt     string
	lastStructured bool
}

func (c *fakeCompletionClient) Generate(_ context.Context, prompt string, structured bool) (*service.Completion, error) {
	c.lastPrompt = prompt
	c.lastStructured = structured
	if c.err != nil {
		return nil, c.err
	}

	return c.completion, nil
}

func newTestCompletionService(client service.CompletionClient) *completionService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCompletionService(client, logger).(*completionService)
}

func TestCompletionService_Complete_Text(t *testing.T) {
	client := &fakeCompletionClient{completion: &service.Completion{Text: "a short reflection"}}
	svc := newTestCompletionService(client)

	output, err := svc.Complete(context.Background(), "reflect on my day", false)

	require.NoError(t, err)
	assert.Equal(t, "a short reflection", output.Text)
	assert.Nil(t, output.Structured)
	assert.Equal(t, "reflect on my day", client.lastPrompt)
	assert.False(t, client.lastStructured)
}

func TestCompletionService_Complete_StructuredPassesJSONThrough(t *testing.T) {
	client := &fakeCompletionClient{completion: &service.Completion{Text: `{"themes":["growth"],"mood":"calm"}`}}
	svc := newTestCompletionService(client)

	output, err := svc.Complete(context.Background(), "analyze", true)

	require.NoError(t, err)
	assert.True(t, client.lastStructured)
	assert.JSONEq(t, `{"themes":["growth"],"mood":"calm"}`, string(output.Structured))
}

func TestCompletionService_Complete_StructuredRejectsNonJSON(t *testing.T) {
	client := &fakeCompletionClient{completion: &service.Completion{Text: "not json at all"}}
	svc := newTestCompletionService(client)

	_, err := svc.Complete(context.Background(), "analyze", true)

	assert.ErrorIs(t, err, domainerrors.ErrCompletionContract)
}

func TestCompletionService_Complete_UpstreamErrorPassesThrough(t *testing.T) {
	upstream := &service.UpstreamError{StatusCode: http.StatusTooManyRequests, Body: `{"error":"quota"}`}
	client := &fakeCompletionClient{err: upstream}
	svc := newTestCompletionService(client)

	_, err := svc.Complete(context.Background(), "prompt", false)

	var forwarded *service.UpstreamError
	require.ErrorAs(t, err, &forwarded)
	assert.Equal(t, http.StatusTooManyRequests, forwarded.StatusCode)
	assert.Equal(t, `{"error":"quota"}`, forwarded.Body)
}

func TestCompletionService_Complete_MissingKey(t *testing.T) {
	client := &fakeCompletionClient{err: service.ErrAPIKeyMissing}
	svc := newTestCompletionService(client)

	_, err := svc.Complete(context.Background(), "prompt", false)

	assert.ErrorIs(t, err, domainerrors.ErrCompletionKeyMissing)
}

func TestCompletionService_Complete_MalformedUpstreamShape(t *testing.T) {
	client := &fakeCompletionClient{err: service.ErrMalformedResponse}
	svc := newTestCompletionService(client)

	_, err := svc.Complete(context.Background(), "prompt", true)

	assert.ErrorIs(t, err, domainerrors.ErrCompletionContract)
}

func TestCompletionService_Complete_UnexpectedErrorCarriesDetails(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("connection refused")}
	svc := newTestCompletionService(client)

	_, err := svc.Complete(context.Background(), "prompt", false)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode())
	assert.Equal(t, "connection refused", appErr.Details())
}
