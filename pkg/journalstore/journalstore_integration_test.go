package journalstore

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal/internal/domain/entity"
	"journal/pkg/identity"
)

// fakeSessions is a SessionSource with a settable session.
type fakeSessions struct {
	session *identity.Session
}

func (s *fakeSessions) CurrentSession() *identity.Session { return s.session }

var userA = &identity.Session{UID: "user-a", Email: "a@example.com"}

// newEmulatorStore connects to the Firestore emulator, skipping the test when
// none is configured.
func newEmulatorStore(t *testing.T, sessions SessionSource) *Store {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping Firestore integration test")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "journalstore-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	// A fresh collection per test keeps runs independent.
	return New(client, sessions, WithCollection("journalEntries-"+uuid.NewString()))
}

func TestStore_CreateAndGet(t *testing.T) {
	sessions := &fakeSessions{session: userA}
	store := newEmulatorStore(t, sessions)
	ctx := context.Background()

	created := store.Create(ctx, entity.JournalEntry{
		Title:   "First",
		Content: "written down",
		Mood:    "calm",
	})

	require.True(t, created.Success, created.Error)
	assert.Equal(t, "Journal entry created successfully!", created.Message)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "user-a", created.Entry.UserID)
	assert.Equal(t, "a@example.com", created.Entry.UserEmail)

	fetched := store.Get(ctx, created.ID)

	require.True(t, fetched.Success, fetched.Error)
	assert.Equal(t, "First", fetched.Entry.Title)
	assert.Equal(t, "calm", fetched.Entry.Mood)
	assert.Equal(t, created.ID, fetched.Entry.ID)
}

func TestStore_Get_NotFoundVsForeign(t *testing.T) {
	sessions := &fakeSessions{session: userA}
	store := newEmulatorStore(t, sessions)
	ctx := context.Background()

	missing := store.Get(ctx, "does-not-exist")
	assert.False(t, missing.Success)
	assert.Equal(t, "Entry not found", missing.Message)

	created := store.Create(ctx, entity.JournalEntry{Title: "Mine"})
	require.True(t, created.Success, created.Error)

	sessions.session = &identity.Session{UID: "user-b", Email: "b@example.com"}
	foreign := store.Get(ctx, created.ID)
	assert.False(t, foreign.Success)
	assert.Equal(t, "Unauthorized access to entry", foreign.Message)
}

func TestStore_Unauthenticated(t *testing.T) {
	sessions := &fakeSessions{}
	store := newEmulatorStore(t, sessions)
	ctx := context.Background()

	created := store.Create(ctx, entity.JournalEntry{Title: "nope"})
	assert.False(t, created.Success)
	assert.Equal(t, "Failed to create journal entry", created.Message)
	assert.NotEmpty(t, created.Error)

	listed := store.List(ctx, 0)
	assert.False(t, listed.Success)
	assert.Equal(t, "Failed to retrieve journal entries", listed.Message)
}

func TestStore_ListNewestFirst(t *testing.T) {
	sessions := &fakeSessions{session: userA}
	store := newEmulatorStore(t, sessions)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		created := store.Create(ctx, entity.JournalEntry{Title: title})
		require.True(t, created.Success, created.Error)
		time.Sleep(10 * time.Millisecond)
	}

	listed := store.List(ctx, 0)

	require.True(t, listed.Success, listed.Error)
	require.Equal(t, 3, listed.Count)
	assert.Equal(t, "three", listed.Entries[0].Title)
	assert.Equal(t, "one", listed.Entries[2].Title)

	capped := store.List(ctx, 2)
	require.True(t, capped.Success, capped.Error)
	assert.Equal(t, 2, capped.Count)
}

func TestStore_UpdateMergesAndProtectsIdentity(t *testing.T) {
	sessions := &fakeSessions{session: userA}
	store := newEmulatorStore(t, sessions)
	ctx := context.Background()

	created := store.Create(ctx, entity.JournalEntry{Title: "Before", Mood: "anxious"})
	require.True(t, created.Success, created.Error)

	updated := store.Update(ctx, created.ID, map[string]any{
		"title":  "After",
		"userId": "user-b",
	})

	require.True(t, updated.Success, updated.Error)
	assert.Equal(t, "Journal entry updated successfully!", updated.Message)

	fetched := store.Get(ctx, created.ID)
	require.True(t, fetched.Success, fetched.Error)
	assert.Equal(t, "After", fetched.Entry.Title)
	assert.Equal(t, "anxious", fetched.Entry.Mood)
	assert.Equal(t, "user-a", fetched.Entry.UserID)
	assert.False(t, fetched.Entry.UpdatedAt.Before(created.Entry.UpdatedAt))
}

func TestStore_Delete(t *testing.T) {
	sessions := &fakeSessions{session: userA}
	store := newEmulatorStore(t, sessions)
	ctx := context.Background()

	created := store.Create(ctx, entity.JournalEntry{Title: "Ephemeral"})
	require.True(t, created.Success, created.Error)

	deleted := store.Delete(ctx, created.ID)
	require.True(t, deleted.Success, deleted.Error)
	assert.Equal(t, "Journal entry deleted successfully!", deleted.Message)

	gone := store.Get(ctx, created.ID)
	assert.False(t, gone.Success)
	assert.Equal(t, "Entry not found", gone.Message)
}

func TestStore_Search(t *testing.T) {
	sessions := &fakeSessions{session: userA}
	store := newEmulatorStore(t, sessions)
	ctx := context.Background()

	for _, entry := range []entity.JournalEntry{
		{Title: "Dream journal", Content: "water everywhere"},
		{Title: "Groceries", Content: "milk and bread"},
		{Title: "Reflection", Content: map[string]any{"body": "the Water was rising"}},
	} {
		created := store.Create(ctx, entry)
		require.True(t, created.Success, created.Error)
	}

	found := store.Search(ctx, "WATER", 0)

	require.True(t, found.Success, found.Error)
	assert.Equal(t, 2, found.Count)
}

func TestStore_GetByDateRange(t *testing.T) {
	sessions := &fakeSessions{session: userA}
	store := newEmulatorStore(t, sessions)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Minute)
	created := store.Create(ctx, entity.JournalEntry{Title: "in range"})
	require.True(t, created.Success, created.Error)
	after := time.Now().UTC().Add(time.Minute)

	inRange := store.GetByDateRange(ctx, before, after, 0)
	require.True(t, inRange.Success, inRange.Error)
	assert.Equal(t, 1, inRange.Count)

	past := store.GetByDateRange(ctx, before.Add(-time.Hour), before, 0)
	require.True(t, past.Success, past.Error)
	assert.Equal(t, 0, past.Count)
}
