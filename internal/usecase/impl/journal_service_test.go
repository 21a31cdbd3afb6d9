package impl

import (
	"context"
	"fmt"
	"testing"

	domainerrors "journal/internal/domain/errors"
	"journal/internal/domain/service"
	"journal/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCaller = &service.VerifiedToken{UID: "user-a", Email: "a@example.com"}

func TestJournalService_CreateEntry_StampsCallerIdentity(t *testing.T) {
	repo := newFakeEntryRepo()
	events := &fakeEventPublisher{}
	svc := newTestJournalService(repo, events)

	created, err := svc.CreateEntry(context.Background(), testCaller, &usecase.CreateEntryInput{
		Title:   "First entry",
		Content: "Some reflections",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-a", created.UserID)
	assert.Equal(t, "a@example.com", created.UserEmail)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	published := events.published()
	require.Len(t, published, 1)
	assert.Equal(t, service.EntryEventCreated, published[0].Type)
	assert.Equal(t, created.ID, published[0].EntryID)
}

func TestJournalService_GetEntry_RoundTrip(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newTestJournalService(repo, &fakeEventPublisher{})
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, testCaller, &usecase.CreateEntryInput{
		Title:   "Round trip",
		Content: map[string]any{"body": "structured content"},
		Mood:    "calm",
		Themes:  []string{"growth"},
	})
	require.NoError(t, err)

	fetched, err := svc.GetEntry(ctx, testCaller.UID, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Round trip", fetched.Title)
	assert.Equal(t, map[string]any{"body": "structured content"}, fetched.Content)
	assert.Equal(t, "calm", fetched.Mood)
	assert.Equal(t, []string{"growth"}, fetched.Themes)
}

func TestJournalService_GetEntry_NotFound(t *testing.T) {
	svc := newTestJournalService(newFakeEntryRepo(), &fakeEventPublisher{})

	_, err := svc.GetEntry(context.Background(), testCaller.UID, "missing")

	assert.ErrorIs(t, err, domainerrors.ErrEntryNotFound)
}

func TestJournalService_GetEntry_OwnershipViolation(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newTestJournalService(repo, &fakeEventPublisher{})
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, testCaller, &usecase.CreateEntryInput{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.GetEntry(ctx, "user-b", created.ID)

	assert.ErrorIs(t, err, domainerrors.ErrEntryOwnership)
}

func TestJournalService_UpdateEntry_MergesAndRefreshesTimestamp(t *testing.T) {
	repo := newFakeEntryRepo()
	events := &fakeEventPublisher{}
	svc := newTestJournalService(repo, events)
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, testCaller, &usecase.CreateEntryInput{
		Title: "Before",
		Mood:  "anxious",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateEntry(ctx, testCaller.UID, created.ID, map[string]any{
		"title": "After",
	})

	require.NoError(t, err)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "anxious", updated.Mood, "untouched fields survive a partial update")
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	published := events.published()
	require.Len(t, published, 2)
	assert.Equal(t, service.EntryEventUpdated, published[1].Type)
}

func TestJournalService_UpdateEntry_DropsProtectedFields(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newTestJournalService(repo, &fakeEventPublisher{})
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, testCaller, &usecase.CreateEntryInput{Title: "Owned"})
	require.NoError(t, err)

	updated, err := svc.UpdateEntry(ctx, testCaller.UID, created.ID, map[string]any{
		"userId":    "user-b",
		"userEmail": "b@example.com",
		"createdAt": "1999-01-01T00:00:00Z",
		"title":     "Still owned",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-a", updated.UserID)
	assert.Equal(t, "a@example.com", updated.UserEmail)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Still owned", updated.Title)
}

func TestJournalService_UpdateEntry_OwnershipViolation(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newTestJournalService(repo, &fakeEventPublisher{})
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, testCaller, &usecase.CreateEntryInput{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.UpdateEntry(ctx, "user-b", created.ID, map[string]any{"title": "Hijacked"})

	assert.ErrorIs(t, err, domainerrors.ErrEntryOwnership)

	unchanged, err := svc.GetEntry(ctx, testCaller.UID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", unchanged.Title)
}

func TestJournalService_ListEntries_OwnerScopedAndCapped(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newTestJournalService(repo, &fakeEventPublisher{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateEntry(ctx, testCaller, &usecase.CreateEntryInput{
			Title: fmt.Sprintf("entry %d", i),
		})
		require.NoError(t, err)
	}
	other := &service.VerifiedToken{UID: "user-b", Email: "b@example.com"}
	_, err := svc.CreateEntry(ctx, other, &usecase.CreateEntryInput{Title: "not mine"})
	require.NoError(t, err)

	capped, err := svc.ListEntries(ctx, testCaller.UID, 3)
	require.NoError(t, err)
	assert.Len(t, capped, 3)

	all, err := svc.ListEntries(ctx, testCaller.UID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5, "default limit applies and other owners are filtered out")
	for _, entry := range all {
		assert.Equal(t, testCaller.UID, entry.UserID)
	}
}

func TestJournalService_DeleteEntry(t *testing.T) {
	repo := newFakeEntryRepo()
	events := &fakeEventPublisher{}
	svc := newTestJournalService(repo, events)
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, testCaller, &usecase.CreateEntryInput{Title: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, testCaller.UID, created.ID))

	_, err = svc.GetEntry(ctx, testCaller.UID, created.ID)
	assert.ErrorIs(t, err, domainerrors.ErrEntryNotFound)

	published := events.published()
	require.Len(t, published, 2)
	assert.Equal(t, service.EntryEventDeleted, published[1].Type)
}

func TestJournalService_DeleteEntry_OwnershipViolation(t *testing.T) {
	repo := newFakeEntryRepo()
	svc := newTestJournalService(repo, &fakeEventPublisher{})
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, testCaller, &usecase.CreateEntryInput{Title: "Keep out"})
	require.NoError(t, err)

	err = svc.DeleteEntry(ctx, "user-b", created.ID)
	assert.ErrorIs(t, err, domainerrors.ErrEntryOwnership)

	_, err = svc.GetEntry(ctx, testCaller.UID, created.ID)
	assert.NoError(t, err, "entry survives a foreign delete attempt")
}
