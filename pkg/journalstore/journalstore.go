// Package journalstore is the client-side entry store: owner-scoped CRUD,
// listing, substring search, and date-range queries over the journal
// collection, driven by the caller's own session. Every operation returns a
// result value; provider errors never escape as panics or raw errors.
package journalstore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"journal/internal/domain/entity"
	"journal/pkg/identity"
)

const (
	defaultCollection  = "journalEntries"
	defaultListLimit   = 50
	defaultSearchLimit = 20
)

// SessionSource yields the caller's current session. *identity.Client
// satisfies it.
type SessionSource interface {
	CurrentSession() *identity.Session
}

// CreateResult is the outcome of Create.
type CreateResult struct {
	Success bool                 `json:"success"`
	ID      string               `json:"id,omitempty"`
	Entry   *entity.JournalEntry `json:"entry,omitempty"`
	Error   string               `json:"error,omitempty"`
	Message string               `json:"message"`
}

// EntryResult is the outcome of Get.
type EntryResult struct {
	Success bool                 `json:"success"`
	Entry   *entity.JournalEntry `json:"entry,omitempty"`
	Error   string               `json:"error,omitempty"`
	Message string               `json:"message,omitempty"`
}

// ListResult is the outcome of List, Search, and GetByDateRange.
type ListResult struct {
	Success bool                  `json:"success"`
	Entries []entity.JournalEntry `json:"entries,omitempty"`
	Count   int                   `json:"count"`
	Error   string                `json:"error,omitempty"`
	Message string                `json:"message,omitempty"`
}

// MutateResult is the outcome of Update and Delete.
type MutateResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// Store is the entry store client.
type Store struct {
	client     *firestore.Client
	sessions   SessionSource
	collection string
}

// Option customizes a Store.
type Option func(*Store)

// WithCollection overrides the entry collection name.
func WithCollection(name string) Option {
	return func(s *Store) { s.collection = name }
}

// New creates an entry store backed by the given Firestore client and
// session source.
func New(client *firestore.Client, sessions SessionSource, opts ...Option) *Store {
	s := &Store{
		client:     client,
		sessions:   sessions,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) col() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

// Create stores a new entry stamped with the caller's identity and server
// timestamps.
func (s *Store) Create(ctx context.Context, input entity.JournalEntry) CreateResult {
	caller := s.sessions.CurrentSession()
	if caller == nil {
		return CreateResult{
			Error:   "user must be authenticated to create entries",
			Message: "Failed to create journal entry",
		}
	}

	now := time.Now().UTC()
	input.ID = ""
	input.UserID = caller.UID
	input.UserEmail = caller.Email
	input.CreatedAt = now
	input.UpdatedAt = now
	input.Normalize()

	ref, _, err := s.col().Add(ctx, &input)
	if err != nil {
		return CreateResult{Error: err.Error(), Message: "Failed to create journal entry"}
	}

	input.ID = ref.ID

	return CreateResult{
		Success: true,
		ID:      ref.ID,
		Entry:   &input,
		Message: "Journal entry created successfully!",
	}
}

// Get fetches one entry, distinguishing absence from ownership mismatch in
// the result message.
func (s *Store) Get(ctx context.Context, entryID string) EntryResult {
	caller := s.sessions.CurrentSession()
	if caller == nil {
		return EntryResult{
			Error:   "user must be authenticated",
			Message: "Failed to retrieve journal entry",
		}
	}

	snapshot, err := s.col().Doc(entryID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return EntryResult{Message: "Entry not found"}
	}
	if err != nil {
		return EntryResult{Error: err.Error(), Message: "Failed to retrieve journal entry"}
	}

	entry, err := snapshotToEntry(snapshot)
	if err != nil {
		return EntryResult{Error: err.Error(), Message: "Failed to retrieve journal entry"}
	}

	if !entry.OwnedBy(caller.UID) {
		return EntryResult{Message: "Unauthorized access to entry"}
	}

	return EntryResult{Success: true, Entry: entry}
}

// List returns the caller's most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ListResult {
	caller := s.sessions.CurrentSession()
	if caller == nil {
		return ListResult{
			Error:   "user must be authenticated",
			Message: "Failed to retrieve journal entries",
		}
	}

	if limit <= 0 {
		limit = defaultListLimit
	}

	entries, err := s.collect(ctx, s.ownerQuery(caller.UID).Limit(limit))
	if err != nil {
		return ListResult{Error: err.Error(), Message: "Failed to retrieve journal entries"}
	}

	return ListResult{Success: true, Entries: entries, Count: len(entries)}
}

// Update merges the given fields into an owned entry and refreshes its
// update timestamp. Ownership is re-checked through Get first.
func (s *Store) Update(ctx context.Context, entryID string, updateData map[string]any) MutateResult {
	caller := s.sessions.CurrentSession()
	if caller == nil {
		return MutateResult{
			Error:   "user must be authenticated",
			Message: "Failed to update journal entry",
		}
	}

	check := s.Get(ctx, entryID)
	if !check.Success {
		return MutateResult{Error: check.Error, Message: check.Message}
	}

	updates := make([]firestore.Update, 0, len(updateData)+1)
	for field, value := range updateData {
		if entity.ProtectedField(field) {
			continue
		}
		updates = append(updates, firestore.Update{Path: field, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})

	if _, err := s.col().Doc(entryID).Update(ctx, updates); err != nil {
		return MutateResult{Error: err.Error(), Message: "Failed to update journal entry"}
	}

	return MutateResult{Success: true, Message: "Journal entry updated successfully!"}
}

// Delete removes an owned entry. Ownership is re-checked through Get first.
func (s *Store) Delete(ctx context.Context, entryID string) MutateResult {
	caller := s.sessions.CurrentSession()
	if caller == nil {
		return MutateResult{
			Error:   "user must be authenticated",
			Message: "Failed to delete journal entry",
		}
	}

	check := s.Get(ctx, entryID)
	if !check.Success {
		return MutateResult{Error: check.Error, Message: check.Message}
	}

	if _, err := s.col().Doc(entryID).Delete(ctx); err != nil {
		return MutateResult{Error: err.Error(), Message: "Failed to delete journal entry"}
	}

	return MutateResult{Success: true, Message: "Journal entry deleted successfully!"}
}

// Search scans the caller's most recent entries for a case-insensitive
// substring match. Firestore has no native full-text search, so this filters
// one page client-side; the limit bounds the scanned page, not the matches.
func (s *Store) Search(ctx context.Context, term string, limit int) ListResult {
	caller := s.sessions.CurrentSession()
	if caller == nil {
		return ListResult{
			Error:   "user must be authenticated",
			Message: "Failed to search journal entries",
		}
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}

	page, err := s.collect(ctx, s.ownerQuery(caller.UID).Limit(limit))
	if err != nil {
		return ListResult{Error: err.Error(), Message: "Failed to search journal entries"}
	}

	needle := strings.ToLower(term)
	matches := make([]entity.JournalEntry, 0, len(page))
	for _, entry := range page {
		if strings.Contains(searchText(&entry), needle) {
			matches = append(matches, entry)
		}
	}

	return ListResult{Success: true, Entries: matches, Count: len(matches)}
}

// GetByDateRange returns the caller's entries created within [start, end],
// newest first.
func (s *Store) GetByDateRange(ctx context.Context, start, end time.Time, limit int) ListResult {
	caller := s.sessions.CurrentSession()
	if caller == nil {
		return ListResult{
			Error:   "user must be authenticated",
			Message: "Failed to retrieve entries for date range",
		}
	}

	if limit <= 0 {
		limit = defaultListLimit
	}

	query := s.ownerQuery(caller.UID).
		Where("createdAt", ">=", start).
		Where("createdAt", "<=", end).
		Limit(limit)

	entries, err := s.collect(ctx, query)
	if err != nil {
		return ListResult{Error: err.Error(), Message: "Failed to retrieve entries for date range"}
	}

	return ListResult{Success: true, Entries: entries, Count: len(entries)}
}

func (s *Store) ownerQuery(userID string) firestore.Query {
	return s.col().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
}

func (s *Store) collect(ctx context.Context, query firestore.Query) ([]entity.JournalEntry, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	entries := make([]entity.JournalEntry, 0)
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		entry, err := snapshotToEntry(snapshot)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return entries, nil
}

func snapshotToEntry(snapshot *firestore.DocumentSnapshot) (*entity.JournalEntry, error) {
	var entry entity.JournalEntry
	if err := snapshot.DataTo(&entry); err != nil {
		return nil, err
	}
	entry.ID = snapshot.Ref.ID
	entry.Normalize()

	return &entry, nil
}

// searchText flattens an entry's textual surface for substring matching:
// title, content, voice transcription, and string values nested in the
// analysis maps.
func searchText(entry *entity.JournalEntry) string {
	var parts []string
	parts = append(parts, entry.Title)
	parts = appendStrings(parts, entry.Content)
	if entry.VoiceTranscription != nil {
		parts = append(parts, *entry.VoiceTranscription)
	}
	for _, value := range entry.EmotionalAnalysis {
		parts = appendStrings(parts, value)
	}
	for _, value := range entry.AIInsights {
		parts = appendStrings(parts, value)
	}
	parts = append(parts, entry.Mood)
	parts = append(parts, entry.Themes...)

	return strings.ToLower(strings.Join(parts, " "))
}

func appendStrings(parts []string, value any) []string {
	switch v := value.(type) {
	case string:
		parts = append(parts, v)
	case map[string]any:
		for _, nested := range v {
			parts = appendStrings(parts, nested)
		}
	case []any:
		for _, nested := range v {
			parts = appendStrings(parts, nested)
		}
	}

	return parts
}
