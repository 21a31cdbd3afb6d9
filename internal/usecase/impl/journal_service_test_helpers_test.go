package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"journal/config"
	"journal/internal/domain/entity"
	"journal/internal/domain/repository"
	"journal/internal/domain/service"
	"journal/internal/usecase"
)

// fakeEntryRepo is an in-memory EntryRepository for usecase tests.
type fakeEntryRepo struct {
	mu      sync.Mutex
	entries map[string]*entity.JournalEntry
	nextID  int
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]*entity.JournalEntry)}
}

func (r *fakeEntryRepo) Create(_ context.Context, entry *entity.JournalEntry) (*entity.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *entry
	stored.ID = fmt.Sprintf("entry-%d", r.nextID)
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Normalize()
	r.entries[stored.ID] = &stored

	copied := stored

	return &copied, nil
}

func (r *fakeEntryRepo) FindByID(_ context.Context, id string) (*entity.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrEntryNotFound
	}
	copied := *stored

	return &copied, nil
}

func (r *fakeEntryRepo) FindByOwner(_ context.Context, userID string, limit int) ([]*entity.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ownedLocked(userID, limit, func(*entity.JournalEntry) bool { return true }), nil
}

func (r *fakeEntryRepo) FindByOwnerInRange(_ context.Context, userID string, start, end time.Time, limit int) ([]*entity.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inRange := func(e *entity.JournalEntry) bool {
		return !e.CreatedAt.Before(start) && !e.CreatedAt.After(end)
	}

	return r.ownedLocked(userID, limit, inRange), nil
}

func (r *fakeEntryRepo) ownedLocked(userID string, limit int, keep func(*entity.JournalEntry) bool) []*entity.JournalEntry {
	owned := make([]*entity.JournalEntry, 0)
	for _, stored := range r.entries {
		if stored.UserID == userID && keep(stored) {
			copied := *stored
			owned = append(owned, &copied)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}

		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	if len(owned) > limit {
		owned = owned[:limit]
	}

	return owned
}

func (r *fakeEntryRepo) Update(_ context.Context, id string, patch map[string]any) (*entity.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrEntryNotFound
	}

	for field, value := range patch {
		switch field {
		case "title":
			stored.Title, _ = value.(string)
		case "content":
			stored.Content = value
		case "mood":
			stored.Mood, _ = value.(string)
		case "themes":
			stored.Themes, _ = value.([]string)
		}
	}
	stored.UpdatedAt = time.Now().UTC()

	copied := *stored

	return &copied, nil
}

func (r *fakeEntryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return repository.ErrEntryNotFound
	}
	delete(r.entries, id)

	return nil
}

// fakeEventPublisher records published events.
type fakeEventPublisher struct {
	mu     sync.Mutex
	events []*service.EntryEvent
}

func (p *fakeEventPublisher) PublishEntryEvent(_ context.Context, event *service.EntryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *fakeEventPublisher) Close() error { return nil }

func (p *fakeEventPublisher) published() []*service.EntryEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*service.EntryEvent(nil), p.events...)
}

func newTestJournalService(repo repository.EntryRepository, events service.EventPublisher) usecase.JournalUsecase {
	cfg := &config.Config{}
	cfg.Journal.ListLimit = 50

	return NewJournalService(JournalServiceParams{
		EntryRepo: repo,
		Events:    events,
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}
