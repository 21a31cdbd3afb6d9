// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"journal/config"
	deliverycontext "journal/internal/delivery/context"
	"journal/internal/domain/entity"
	domainerrors "journal/internal/domain/errors"
	"journal/internal/domain/repository"
	"journal/internal/domain/service"
	"journal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// journalService implements the JournalUsecase interface.
type journalService struct {
	entryRepo repository.EntryRepository
	events    service.EventPublisher
	listLimit int
	logger    *slog.Logger
}

// JournalServiceParams holds dependencies for journalService, injected by Fx.
type JournalServiceParams struct {
	fx.In

	EntryRepo repository.EntryRepository
	Events    service.EventPublisher
	Config    *config.Config
	Logger    *slog.Logger
}

// NewJournalService is the constructor for journalService. It receives all dependencies as interfaces.
func NewJournalService(params JournalServiceParams) usecase.JournalUsecase {
	return &journalService{
		entryRepo: params.EntryRepo,
		events:    params.Events,
		listLimit: params.Config.Journal.ListLimit,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *journalService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateEntry persists a new entry. The owner is stamped from the verified
// caller regardless of anything present in the input payload.
func (srv *journalService) CreateEntry(ctx context.Context, caller *service.VerifiedToken, input *usecase.CreateEntryInput) (*entity.JournalEntry, error) {
	entry := &entity.JournalEntry{
		UserID:             caller.UID,
		UserEmail:          caller.Email,
		Title:              input.Title,
		Content:            input.Content,
		VoiceTranscription: input.VoiceTranscription,
		EmotionalAnalysis:  input.EmotionalAnalysis,
		AIInsights:         input.AIInsights,
		SynchronicityTags:  input.SynchronicityTags,
		ShadowWorkPrompts:  input.ShadowWorkPrompts,
		Mood:               input.Mood,
		Themes:             input.Themes,
		Triggers:           input.Triggers,
	}

	created, err := srv.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "create entry")
	}

	srv.log(ctx).Info("Journal entry created",
		slog.String("entry_id", created.ID),
		slog.String("user_id", created.UserID),
	)
	srv.publishEvent(ctx, service.EntryEventCreated, created.ID, created.UserID)

	return created, nil
}

// GetEntry returns the entry when it exists and belongs to the caller. An
// existing entry owned by someone else is an ownership violation, which the
// gateway reports as 403; absence is reported as 404. The distinction leaks
// existence to non-owners and is kept deliberately.
func (srv *journalService) GetEntry(ctx context.Context, callerUID, entryID string) (*entity.JournalEntry, error) {
	entry, err := srv.entryRepo.FindByID(ctx, entryID)
	if errors.Is(err, repository.ErrEntryNotFound) {
		return nil, domainerrors.ErrEntryNotFound
	}
	if err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "get entry")
	}

	if !entry.OwnedBy(callerUID) {
		srv.log(ctx).Warn("Entry ownership violation",
			slog.String("entry_id", entryID),
			slog.String("caller", callerUID),
		)

		return nil, domainerrors.ErrEntryOwnership
	}

	return entry, nil
}

// UpdateEntry verifies ownership, then merges the patch. The ownership check
// and the write are two separate store calls; the window between them is
// accepted because ownership never legitimately changes after creation.
func (srv *journalService) UpdateEntry(ctx context.Context, callerUID, entryID string, patch map[string]any) (*entity.JournalEntry, error) {
	if _, err := srv.GetEntry(ctx, callerUID, entryID); err != nil {
		return nil, err
	}

	sanitized := sanitizePatch(patch)

	updated, err := srv.entryRepo.Update(ctx, entryID, sanitized)
	if errors.Is(err, repository.ErrEntryNotFound) {
		return nil, domainerrors.ErrEntryNotFound
	}
	if err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "update entry")
	}

	srv.publishEvent(ctx, service.EntryEventUpdated, entryID, callerUID)

	return updated, nil
}

// ListEntries returns the caller's entries, newest first.
func (srv *journalService) ListEntries(ctx context.Context, callerUID string, limit int) ([]*entity.JournalEntry, error) {
	if limit <= 0 {
		limit = srv.listLimit
	}

	entries, err := srv.entryRepo.FindByOwner(ctx, callerUID, limit)
	if err != nil {
		return nil, domainerrors.NewStoreExecuteError(err, "list entries")
	}

	return entries, nil
}

// DeleteEntry verifies ownership, then removes the entry.
func (srv *journalService) DeleteEntry(ctx context.Context, callerUID, entryID string) error {
	if _, err := srv.GetEntry(ctx, callerUID, entryID); err != nil {
		return err
	}

	if err := srv.entryRepo.Delete(ctx, entryID); err != nil {
		return domainerrors.NewStoreExecuteError(err, "delete entry")
	}

	srv.log(ctx).Info("Journal entry deleted",
		slog.String("entry_id", entryID),
		slog.String("user_id", callerUID),
	)
	srv.publishEvent(ctx, service.EntryEventDeleted, entryID, callerUID)

	return nil
}

// publishEvent emits a lifecycle event. Publishing is best effort: failures
// are logged and never surfaced to the caller.
func (srv *journalService) publishEvent(ctx context.Context, eventType, entryID, userID string) {
	event := &service.EntryEvent{
		EventID:    uuid.New().String(),
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		EntryID:    entryID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}

	if err := srv.events.PublishEntryEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish entry event",
			slog.String("event_type", eventType),
			slog.String("entry_id", entryID),
			slog.Any("error", err),
		)
	}
}

// sanitizePatch drops fields a caller may never change. Identity is immutable
// after creation and creation time never changes.
func sanitizePatch(patch map[string]any) map[string]any {
	sanitized := make(map[string]any, len(patch))
	for key, value := range patch {
		if entity.ProtectedField(key) {
			continue
		}
		sanitized[key] = value
	}

	return sanitized
}
