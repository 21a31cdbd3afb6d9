package service

import (
	"context"
	"time"
)

// Entry event types published after successful mutations.
const (
	EntryEventCreated = "entry.created"
	EntryEventUpdated = "entry.updated"
	EntryEventDeleted = "entry.deleted"
)

// EntryEvent describes a journal entry lifecycle transition. Events are
// best-effort: a publish failure never fails the originating operation.
type EntryEvent struct {
	EventID    string    `json:"event_id"`
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`
	EntryID    string    `json:"entry_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishEntryEvent publishes an entry lifecycle event for async consumers
	PublishEntryEvent(ctx context.Context, event *EntryEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
