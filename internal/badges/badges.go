// Package badges unlocks achievements from activity events. Unlocks are
// one-way: a badge that has been unlocked is never locked again.
package badges

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/events"
	"github.com/julianstephens/gratilog/internal/logger"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/streak"
)

var ErrUnknownEvent = errors.New("unknown event type")

type Evaluator struct {
	store storage.Provider
	now   func() time.Time
}

var _ events.Handler = (*Evaluator)(nil)

// NewEvaluator returns an evaluator backed by store. now supplies "today"
// for streak badges; nil means time.Now.
func NewEvaluator(store storage.Provider, now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{store: store, now: now}
}

// OnEvent applies the unlock thresholds for one event and returns the badges
// it unlocked. The badge collection is written at most once, and only when
// something changed.
func (e *Evaluator) OnEvent(ctx context.Context, typ events.Type, count int) ([]models.BadgeID, error) {
	targets, err := e.targets(ctx, typ, count)
	if err != nil {
		return nil, err
	}

	var unlocked []models.BadgeID
	_, err = storage.UpdateJSON(ctx, e.store, storage.CollectionBadges, func(stored []models.Badge) ([]models.Badge, bool, error) {
		unlocked = nil
		next := normalize(stored)
		for i := range next {
			if !next[i].Unlocked && slices.Contains(targets, next[i].ID) {
				next[i].Unlocked = true
				unlocked = append(unlocked, next[i].ID)
			}
		}
		return next, len(unlocked) > 0 || !slices.Equal(stored, next), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update badges: %w", err)
	}

	log := logger.For("badges")
	for _, id := range unlocked {
		log.Info("Badge unlocked", "badge", id, "event", typ, "count", count)
	}
	return unlocked, nil
}

// targets lists every badge whose threshold the event meets, locked or not.
func (e *Evaluator) targets(ctx context.Context, typ events.Type, count int) ([]models.BadgeID, error) {
	var ids []models.BadgeID
	switch typ {
	case events.JournalCount:
		if count >= constants.FirstStepEntries {
			ids = append(ids, models.BadgeFirstStep)
		}
		entries, _, err := storage.GetJSON[[]models.JournalEntry](ctx, e.store, storage.CollectionJournal)
		if err != nil {
			return nil, err
		}
		current := streak.FromEntries(entries, e.now())
		if current >= constants.StreakShort {
			ids = append(ids, models.BadgeStreak3)
		}
		if current >= constants.StreakLong {
			ids = append(ids, models.BadgeStreak7)
		}
	case events.MoodCount:
		if count >= constants.MoodMasterLogs {
			ids = append(ids, models.BadgeMoodMaster)
		}
	case events.CBTUse:
		ids = append(ids, models.BadgeCBTExplorer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, typ)
	}
	return ids, nil
}

// Handle lets the evaluator subscribe to an events.Dispatcher.
func (e *Evaluator) Handle(ctx context.Context, ev events.Event) error {
	_, err := e.OnEvent(ctx, ev.Type, ev.Count)
	return err
}

// EnsureDefaults writes the full locked badge set if the collection is
// missing, and repairs it if catalog badges are missing. Existing unlocks
// are kept.
func (e *Evaluator) EnsureDefaults(ctx context.Context) error {
	_, err := storage.UpdateJSON(ctx, e.store, storage.CollectionBadges, func(stored []models.Badge) ([]models.Badge, bool, error) {
		next := normalize(stored)
		return next, !slices.Equal(stored, next), nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed badges: %w", err)
	}
	return nil
}

// List returns the full badge set in catalog order. A store failure is
// logged and yields the all-locked set.
func (e *Evaluator) List(ctx context.Context) ([]models.Badge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored, _, err := storage.GetJSON[[]models.Badge](ctx, e.store, storage.CollectionBadges)
	if err != nil {
		logger.For("badges").Warn("Failed to read badges, showing defaults", "error", err)
		return models.DefaultBadges(), nil
	}
	return normalize(stored), nil
}

// normalize maps stored badges onto the catalog: catalog order and text,
// stored unlock state, unknown ids dropped.
func normalize(stored []models.Badge) []models.Badge {
	unlocked := make(map[models.BadgeID]bool, len(stored))
	for _, b := range stored {
		if b.Unlocked {
			unlocked[b.ID] = true
		}
	}
	out := models.DefaultBadges()
	for i := range out {
		out[i].Unlocked = unlocked[out[i].ID]
	}
	return out
}

// NewlyUnlocked returns the badges unlocked in after but not in before.
func NewlyUnlocked(before, after []models.Badge) []models.Badge {
	was := make(map[models.BadgeID]bool, len(before))
	for _, b := range before {
		was[b.ID] = b.Unlocked
	}
	var out []models.Badge
	for _, b := range after {
		if b.Unlocked && !was[b.ID] {
			out = append(out, b)
		}
	}
	return out
}
