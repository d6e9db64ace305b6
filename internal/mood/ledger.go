// Package mood records daily mood scores on a 1-10 scale.
package mood

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/gratilog/internal/events"
	"github.com/julianstephens/gratilog/internal/logger"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/utils"
	"github.com/julianstephens/gratilog/internal/validation"
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

// List returns logs in the order they were recorded. An unreadable store
// yields an empty list.
func (l *Ledger) List(ctx context.Context) ([]models.MoodLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logs, _, err := storage.GetJSON[[]models.MoodLog](ctx, l.store, storage.CollectionMoods)
	if err != nil {
		logger.For("mood").Warn("Failed to read mood logs, starting empty", "error", err)
		return []models.MoodLog{}, nil
	}
	if logs == nil {
		logs = []models.MoodLog{}
	}
	return logs, nil
}

// Add appends a mood log and publishes a mood_count event. Values outside
// the scale are rejected before anything is written. As with journal
// entries, a subscriber failure is returned alongside the saved log.
func (l *Ledger) Add(ctx context.Context, date time.Time, value int, note string) (models.MoodLog, error) {
	if err := validation.MoodValue(value); err != nil {
		return models.MoodLog{}, err
	}

	entry := models.MoodLog{
		ID:    uuid.NewString(),
		Date:  date,
		Value: value,
		Note:  strings.TrimSpace(note),
	}

	var previous int
	_, err := storage.UpdateJSON(ctx, l.store, storage.CollectionMoods, func(current []models.MoodLog) ([]models.MoodLog, bool, error) {
		previous = len(current)
		return append(current, entry), true, nil
	})
	if err != nil {
		return models.MoodLog{}, fmt.Errorf("failed to save mood: %w", err)
	}
	logger.For("mood").Debug("Saved mood", "id", entry.ID, "value", value)

	if err := l.publisher.Publish(ctx, events.Event{Type: events.MoodCount, Count: previous + 1}); err != nil {
		return entry, err
	}
	return entry, nil
}

// HasLoggedToday reports whether any log falls on now's calendar day,
// compared in now's location.
func (l *Ledger) HasLoggedToday(ctx context.Context, now time.Time) (bool, error) {
	logs, err := l.List(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range logs {
		if utils.SameDay(m.Date, now) {
			return true, nil
		}
	}
	return false, nil
}

// Recent returns up to n of the latest logs, oldest first.
func (l *Ledger) Recent(ctx context.Context, n int) ([]models.MoodLog, error) {
	logs, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []models.MoodLog{}, nil
	}
	if len(logs) > n {
		logs = logs[len(logs)-n:]
	}
	return logs, nil
}

type Stats struct {
	Count   int
	Min     int
	Max     int
	Average decimal.Decimal
	Last    *models.MoodLog
}

// Stats summarizes every log. Average is rounded to one decimal place and
// is zero when there are no logs.
func (l *Ledger) Stats(ctx context.Context) (Stats, error) {
	logs, err := l.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(logs), nil
}

func Summarize(logs []models.MoodLog) Stats {
	var s Stats
	if len(logs) == 0 {
		s.Average = decimal.Zero
		return s
	}

	sum := decimal.Zero
	s.Min, s.Max = logs[0].Value, logs[0].Value
	for _, m := range logs {
		sum = sum.Add(decimal.NewFromInt(int64(m.Value)))
		s.Min = min(s.Min, m.Value)
		s.Max = max(s.Max, m.Value)
	}
	s.Count = len(logs)
	s.Average = sum.Div(decimal.NewFromInt(int64(s.Count))).Round(1)
	last := logs[len(logs)-1]
	s.Last = &last
	return s
}
