// Package handler contains the HTTP handlers for the application.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"journal/internal/delivery/http/middleware"
	"journal/internal/delivery/http/response"
	"journal/internal/domain/constants"
	domainerrors "journal/internal/domain/errors"
	"journal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// JournalHandler dispatches the action-based journal gateway requests.
type JournalHandler struct {
	uc     usecase.JournalUsecase
	logger *slog.Logger
}

// NewJournalHandler is the constructor for JournalHandler, injected by Fx.
func NewJournalHandler(uc usecase.JournalUsecase, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{
		uc:     uc,
		logger: logger,
	}
}

// gatewayRequest is the single wire envelope: an action name plus an
// action-specific data payload, decoded per action.
type gatewayRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type entryRefData struct {
	EntryID string `json:"entryId"`
}

type updateEntryData struct {
	EntryID    string         `json:"entryId"`
	UpdateData map[string]any `json:"updateData"`
}

type listEntriesData struct {
	Limit int `json:"limit"`
}

// Dispatch handles POST requests to the journal gateway. The caller has
// already been authenticated by the auth middleware; every branch below binds
// the owner to the verified identity only.
func (h *JournalHandler) Dispatch(c echo.Context) error {
	caller := middleware.GetCaller(c)
	if caller == nil {
		return response.Unauthorized(c, "Missing Authorization Bearer token.")
	}

	var req gatewayRequest
	if err := c.Bind(&req); err != nil || req.Action == "" {
		return response.BadRequest(c, "Missing or invalid request body.")
	}

	ctx := c.Request().Context()

	switch req.Action {
	case constants.ActionCreateEntry:
		var input usecase.CreateEntryInput
		if err := decodeData(req.Data, &input); err != nil {
			return response.BadRequest(c, "Missing or invalid request body.")
		}

		entry, err := h.uc.CreateEntry(ctx, caller, &input)
		if err != nil {
			return errors.WithStack(err)
		}

		return c.JSON(http.StatusOK, entry)

	case constants.ActionGetEntry:
		var data entryRefData
		if err := decodeData(req.Data, &data); err != nil || data.EntryID == "" {
			return response.BadRequest(c, "Missing entryId.")
		}

		entry, err := h.uc.GetEntry(ctx, caller.UID, data.EntryID)
		if err != nil {
			return errors.WithStack(err)
		}

		return c.JSON(http.StatusOK, entry)

	case constants.ActionUpdateEntry:
		var data updateEntryData
		if err := decodeData(req.Data, &data); err != nil || data.EntryID == "" {
			return response.BadRequest(c, "Missing entryId.")
		}

		entry, err := h.uc.UpdateEntry(ctx, caller.UID, data.EntryID, data.UpdateData)
		if err != nil {
			return errors.WithStack(err)
		}

		return c.JSON(http.StatusOK, entry)

	case constants.ActionGetUserEntries:
		var data listEntriesData
		if err := decodeData(req.Data, &data); err != nil {
			return response.BadRequest(c, "Missing or invalid request body.")
		}

		entries, err := h.uc.ListEntries(ctx, caller.UID, data.Limit)
		if err != nil {
			return errors.WithStack(err)
		}

		return c.JSON(http.StatusOK, entries)

	case constants.ActionDeleteEntry:
		var data entryRefData
		if err := decodeData(req.Data, &data); err != nil || data.EntryID == "" {
			return response.BadRequest(c, "Missing entryId.")
		}

		if err := h.uc.DeleteEntry(ctx, caller.UID, data.EntryID); err != nil {
			return errors.WithStack(err)
		}

		return c.JSON(http.StatusOK, map[string]bool{"success": true})

	default:
		return errors.WithStack(domainerrors.ErrUnknownAction)
	}
}

// decodeData unmarshals an action payload. An absent payload decodes to the
// zero value so actions with optional data (getUserEntries) still work.
func decodeData(data json.RawMessage, target any) error {
	if len(data) == 0 {
		return nil
	}

	return errors.WithStack(json.Unmarshal(data, target))
}
