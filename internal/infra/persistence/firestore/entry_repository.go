// Package firestore implements the persistence interfaces on top of the
// managed Firestore document store, using elevated service credentials.
package firestore

import (
	"context"
	"time"

	"journal/config"
	"journal/internal/domain/entity"
	"journal/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type entryRepository struct {
	client     *firestore.Client
	collection string
}

// NewEntryRepository creates the Firestore-backed EntryRepository.
func NewEntryRepository(client *firestore.Client, cfg *config.Config) repository.EntryRepository {
	return &entryRepository{
		client:     client,
		collection: cfg.Journal.Collection,
	}
}

func (r *entryRepository) col() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

// Create stamps the timestamps, persists the entry and returns it with the
// store-assigned document ID.
func (r *entryRepository) Create(ctx context.Context, entry *entity.JournalEntry) (*entity.JournalEntry, error) {
	entry.Normalize()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	ref, _, err := r.col().Add(ctx, entry)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create journal entry")
	}

	created := *entry
	created.ID = ref.ID

	return &created, nil
}

func (r *entryRepository) FindByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, repository.ErrEntryNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get journal entry")
	}

	return snapshotToEntry(snap)
}

func (r *entryRepository) FindByOwner(ctx context.Context, userID string, limit int) ([]*entity.JournalEntry, error) {
	query := r.col().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)

	return collectEntries(query.Documents(ctx))
}

func (r *entryRepository) FindByOwnerInRange(ctx context.Context, userID string, start, end time.Time, limit int) ([]*entity.JournalEntry, error) {
	query := r.col().
		Where("userId", "==", userID).
		Where("createdAt", ">=", start).
		Where("createdAt", "<=", end).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)

	return collectEntries(query.Documents(ctx))
}

// Update merges the patch into the stored document. The ownership check
// happens in the usecase before this call; the read-then-write window is
// accepted, Firestore offers no conditional write keyed on a field value.
func (r *entryRepository) Update(ctx context.Context, id string, patch map[string]any) (*entity.JournalEntry, error) {
	updates := make([]firestore.Update, 0, len(patch)+1)
	for path, value := range patch {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})

	ref := r.col().Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrEntryNotFound
		}

		return nil, errors.Wrap(err, "failed to update journal entry")
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read back updated entry")
	}

	return snapshotToEntry(snap)
}

func (r *entryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return errors.Wrap(err, "failed to delete journal entry")
	}

	return nil
}

func snapshotToEntry(snap *firestore.DocumentSnapshot) (*entity.JournalEntry, error) {
	var entry entity.JournalEntry
	if err := snap.DataTo(&entry); err != nil {
		return nil, errors.Wrap(err, "failed to decode journal entry")
	}
	entry.ID = snap.Ref.ID

	return &entry, nil
}

func collectEntries(docs *firestore.DocumentIterator) ([]*entity.JournalEntry, error) {
	defer docs.Stop()

	entries := make([]*entity.JournalEntry, 0)
	for {
		snap, err := docs.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to iterate journal entries")
		}

		entry, err := snapshotToEntry(snap)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
