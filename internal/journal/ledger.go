// Package journal manages gratitude entries. Entries are stored newest
// first; every successful add is announced as a journal_count event.
package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/gratilog/internal/events"
	"github.com/julianstephens/gratilog/internal/logger"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/streak"
	"github.com/julianstephens/gratilog/internal/validation"
)

var (
	ErrEntryNotFound = errors.New("journal entry not found")
	ErrAmbiguousID   = errors.New("entry id prefix matches more than one entry")
)

type Ledger struct {
	store     storage.Provider
	publisher events.Publisher
}

func NewLedger(store storage.Provider, publisher events.Publisher) *Ledger {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Ledger{store: store, publisher: publisher}
}

// List returns entries newest first. Entries sharing a date keep their
// stored order. An unreadable store yields an empty list.
func (l *Ledger) List(ctx context.Context) ([]models.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, _, err := storage.GetJSON[[]models.JournalEntry](ctx, l.store, storage.CollectionJournal)
	if err != nil {
		logger.For("journal").Warn("Failed to read journal, starting empty", "error", err)
		return []models.JournalEntry{}, nil
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// Add validates and stores a new entry, then publishes a journal_count
// event. If the entry was saved but a subscriber failed, the entry is
// returned together with an error wrapping events.ErrHandlerFailed.
func (l *Ledger) Add(ctx context.Context, date time.Time, content string, tags []string) (models.JournalEntry, error) {
	if err := validation.EntryContent(content); err != nil {
		return models.JournalEntry{}, err
	}

	entry := models.JournalEntry{
		ID:      uuid.NewString(),
		Date:    date,
		Content: strings.TrimSpace(content),
		Tags:    validation.Tags(tags),
	}

	var previous int
	_, err := storage.UpdateJSON(ctx, l.store, storage.CollectionJournal, func(current []models.JournalEntry) ([]models.JournalEntry, bool, error) {
		previous = len(current)
		next := make([]models.JournalEntry, 0, len(current)+1)
		next = append(next, entry)
		next = append(next, current...)
		return next, true, nil
	})
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to save journal entry: %w", err)
	}
	logger.For("journal").Debug("Saved entry", "id", entry.ID, "date", entry.Date)

	if err := l.publisher.Publish(ctx, events.Event{Type: events.JournalCount, Count: previous + 1}); err != nil {
		return entry, err
	}
	return entry, nil
}

// Update replaces the stored entry with the same id. An unknown id is
// ignored without error. ID and date are never changed.
func (l *Ledger) Update(ctx context.Context, entry models.JournalEntry) error {
	if err := validation.EntryContent(entry.Content); err != nil {
		return err
	}
	return l.modify(ctx, entry.ID, func(stored *models.JournalEntry) bool {
		date := stored.Date
		*stored = entry
		stored.Date = date
		stored.Tags = validation.Tags(entry.Tags)
		return true
	})
}

// AttachInsight stores the coach's comment on an entry, overwriting any
// previous one. Blank text means the coach had nothing to say and is ignored.
func (l *Ledger) AttachInsight(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return l.modify(ctx, id, func(stored *models.JournalEntry) bool {
		if stored.AIInsight == text {
			return false
		}
		stored.AIInsight = text
		return true
	})
}

func (l *Ledger) modify(ctx context.Context, id string, fn func(*models.JournalEntry) bool) error {
	_, err := storage.UpdateJSON(ctx, l.store, storage.CollectionJournal, func(current []models.JournalEntry) ([]models.JournalEntry, bool, error) {
		for i := range current {
			if current[i].ID == id {
				return current, fn(&current[i]), nil
			}
		}
		logger.For("journal").Debug("Ignoring update for unknown entry", "id", id)
		return current, false, nil
	})
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}
	return nil
}

// Find looks an entry up by full id or by a unique id prefix.
func (l *Ledger) Find(ctx context.Context, idOrPrefix string) (models.JournalEntry, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return models.JournalEntry{}, ErrEntryNotFound
	}
	entries, err := l.List(ctx)
	if err != nil {
		return models.JournalEntry{}, err
	}

	var match *models.JournalEntry
	for i := range entries {
		if entries[i].ID == idOrPrefix {
			return entries[i], nil
		}
		if strings.HasPrefix(entries[i].ID, idOrPrefix) {
			if match != nil {
				return models.JournalEntry{}, fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
			}
			match = &entries[i]
		}
	}
	if match == nil {
		return models.JournalEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, idOrPrefix)
	}
	return *match, nil
}

func (l *Ledger) Count(ctx context.Context) (int, error) {
	entries, err := l.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Streak derives the current writing streak. It is never cached.
func (l *Ledger) Streak(ctx context.Context, today time.Time) (int, error) {
	entries, err := l.List(ctx)
	if err != nil {
		return 0, err
	}
	return streak.FromEntries(entries, today), nil
}
