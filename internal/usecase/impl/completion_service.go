package impl

import (
	"context"
	"encoding/json"
	"log/slog"

	deliverycontext "journal/internal/delivery/context"
	domainerrors "journal/internal/domain/errors"
	"journal/internal/domain/service"
	"journal/internal/usecase"

	"github.com/pkg/errors"
)

// completionService implements the CompletionUsecase interface.
type completionService struct {
	client service.CompletionClient
	logger *slog.Logger
}

// NewCompletionService is the constructor for completionService.
func NewCompletionService(client service.CompletionClient, logger *slog.Logger) usecase.CompletionUsecase {
	return &completionService{
		client: client,
		logger: logger,
	}
}

func (srv *completionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Complete forwards the prompt upstream. In structured mode the model's text
// must parse as JSON; text that does not is an upstream-contract violation.
// Upstream HTTP failures pass through untouched so the handler can forward
// their status and body.
func (srv *completionService) Complete(ctx context.Context, prompt string, structured bool) (*usecase.CompletionOutput, error) {
	completion, err := srv.client.Generate(ctx, prompt, structured)
	if err != nil {
		return nil, srv.mapClientError(ctx, err)
	}

	if !structured {
		return &usecase.CompletionOutput{Text: completion.Text}, nil
	}

	raw := json.RawMessage(completion.Text)
	if !json.Valid(raw) {
		srv.log(ctx).Error("Structured completion is not valid JSON")

		return nil, domainerrors.ErrCompletionContract
	}

	return &usecase.CompletionOutput{Structured: raw}, nil
}

func (srv *completionService) mapClientError(ctx context.Context, err error) error {
	var upstream *service.UpstreamError
	if errors.As(err, &upstream) {
		// Forwarded as-is by the handler, status code and body included.
		return err
	}

	if errors.Is(err, service.ErrAPIKeyMissing) {
		return domainerrors.ErrCompletionKeyMissing
	}
	if errors.Is(err, service.ErrMalformedResponse) {
		return domainerrors.ErrCompletionContract
	}

	srv.log(ctx).Error("Completion request failed", slog.Any("error", err))

	return domainerrors.ErrInternalError.WithDetails(err.Error())
}
