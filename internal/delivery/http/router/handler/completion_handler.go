package handler

import (
	"log/slog"
	"net/http"

	"journal/internal/delivery/http/response"
	"journal/internal/domain/service"
	"journal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CompletionHandler proxies prompts to the generative-language API so the
// provider key never reaches the client.
type CompletionHandler struct {
	uc     usecase.CompletionUsecase
	logger *slog.Logger
}

// NewCompletionHandler is the constructor for CompletionHandler, injected by Fx.
func NewCompletionHandler(uc usecase.CompletionUsecase, logger *slog.Logger) *CompletionHandler {
	return &CompletionHandler{
		uc:     uc,
		logger: logger,
	}
}

type completionRequest struct {
	Prompt     string `json:"prompt" validate:"required"`
	Structured bool   `json:"structured"`
}

// Complete handles POST requests to the completion proxy.
func (h *CompletionHandler) Complete(c echo.Context) error {
	var req completionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "Invalid JSON in request body.")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, `Missing "prompt" in request body.`)
	}

	output, err := h.uc.Complete(c.Request().Context(), req.Prompt, req.Structured)
	if err != nil {
		var upstream *service.UpstreamError
		if errors.As(err, &upstream) {
			// Forward the provider's verdict: its status code, its raw body.
			return response.Error(c, upstream.StatusCode, "Failed to fetch from completion API.", upstream.Body)
		}

		return errors.WithStack(err)
	}

	if output.Structured != nil {
		return c.JSONBlob(http.StatusOK, output.Structured)
	}

	return c.JSON(http.StatusOK, map[string]string{"text": output.Text})
}
