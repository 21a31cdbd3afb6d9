// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"journal/internal/domain/entity"
)

// ErrEntryNotFound is a domain-specific error returned when an entry is not found.
var ErrEntryNotFound = errors.New("journal entry not found")

// EntryRepository defines the standard operations for journal entry persistence.
// The application layer will depend on this interface, not the concrete implementation.
// Every query that returns more than one entry is owner-scoped; the repository
// never exposes a way to list across owners.
type EntryRepository interface {
	// Create persists a new entry and returns it with the store-assigned ID
	// and server-assigned createdAt/updatedAt timestamps.
	Create(ctx context.Context, entry *entity.JournalEntry) (*entity.JournalEntry, error)

	// FindByID retrieves a single entry by its store-assigned ID.
	// Ownership is NOT checked here; callers compare UserID themselves.
	FindByID(ctx context.Context, id string) (*entity.JournalEntry, error)

	// FindByOwner returns up to limit entries owned by userID, newest first.
	FindByOwner(ctx context.Context, userID string, limit int) ([]*entity.JournalEntry, error)

	// FindByOwnerInRange returns up to limit entries owned by userID whose
	// creation timestamp falls within [start, end], newest first.
	FindByOwnerInRange(ctx context.Context, userID string, start, end time.Time, limit int) ([]*entity.JournalEntry, error)

	// Update merges the given fields into the stored entry, refreshes
	// updatedAt and returns the post-merge record.
	Update(ctx context.Context, id string, patch map[string]any) (*entity.JournalEntry, error)

	// Delete removes the entry. Deleting an absent entry is an error.
	Delete(ctx context.Context, id string) error
}
