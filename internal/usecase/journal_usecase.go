// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"journal/internal/domain/entity"
	"journal/internal/domain/service"
)

// --- Input DTOs ---

// CreateEntryInput defines the client-suppliable fields of a new entry.
// Identity fields are deliberately absent: userId and userEmail are stamped
// from the verified caller, never bound from the request.
type CreateEntryInput struct {
	Title              string         `json:"title"`
	Content            any            `json:"content"`
	VoiceTranscription *string        `json:"voiceTranscription"`
	EmotionalAnalysis  map[string]any `json:"emotionalAnalysis"`
	AIInsights         map[string]any `json:"aiInsights"`
	SynchronicityTags  []string       `json:"synchronicityTags"`
	ShadowWorkPrompts  []string       `json:"shadowWorkPrompts"`
	Mood               string         `json:"mood"`
	Themes             []string       `json:"themes"`
	Triggers           []string       `json:"triggers"`
}

// JournalUsecase defines the owner-scoped entry operations the gateway
// dispatches to. Every operation verifies or filters on the caller's verified
// identity; a mismatch is an authorization failure, not a not-found.
type JournalUsecase interface {
	// CreateEntry persists a new entry stamped with the caller's identity.
	CreateEntry(ctx context.Context, caller *service.VerifiedToken, input *CreateEntryInput) (*entity.JournalEntry, error)

	// GetEntry returns the entry if it exists and the caller owns it.
	GetEntry(ctx context.Context, callerUID, entryID string) (*entity.JournalEntry, error)

	// UpdateEntry re-validates ownership, then merges patch plus a refreshed
	// updatedAt into the stored entry and returns the result.
	UpdateEntry(ctx context.Context, callerUID, entryID string, patch map[string]any) (*entity.JournalEntry, error)

	// ListEntries returns the caller's entries, newest first, capped at limit
	// (the configured default applies when limit <= 0).
	ListEntries(ctx context.Context, callerUID string, limit int) ([]*entity.JournalEntry, error)

	// DeleteEntry re-validates ownership, then removes the entry.
	DeleteEntry(ctx context.Context, callerUID, entryID string) error
}
