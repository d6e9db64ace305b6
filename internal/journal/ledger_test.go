package journal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/gratilog/internal/badges"
	"github.com/julianstephens/gratilog/internal/events"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/validation"
)

var today = time.Date(2026, time.April, 2, 9, 30, 0, 0, time.UTC)

type recorder struct {
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.events = append(r.events, ev)
	return r.err
}

func setup(t *testing.T) (*Ledger, *badges.Evaluator, storage.Provider) {
	t.Helper()
	store := storage.NewMemoryStore()
	evaluator := badges.NewEvaluator(store, func() time.Time { return today })
	require.NoError(t, evaluator.EnsureDefaults(context.Background()))
	return NewLedger(store, events.NewDispatcher(evaluator)), evaluator, store
}

func unlocked(t *testing.T, e *badges.Evaluator) map[models.BadgeID]bool {
	t.Helper()
	list, err := e.List(context.Background())
	require.NoError(t, err)
	out := make(map[models.BadgeID]bool)
	for _, b := range list {
		out[b.ID] = b.Unlocked
	}
	return out
}

func TestAddPrependsAndGrowsByOne(t *testing.T) {
	ctx := context.Background()
	l, _, _ := setup(t)

	_, err := l.Add(ctx, today.AddDate(0, 0, -1), "yesterday's coffee", nil)
	require.NoError(t, err)

	before, err := l.List(ctx)
	require.NoError(t, err)

	added, err := l.Add(ctx, today, "  sunny walk  ", []string{"outside", " outside", ""})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "sunny walk", added.Content)
	assert.Equal(t, []string{"outside"}, added.Tags)

	after, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	assert.Equal(t, added.ID, after[0].ID)
}

func TestAddRejectsBlankContent(t *testing.T) {
	ctx := context.Background()
	l, _, store := setup(t)
	pub := &recorder{}
	l.publisher = pub

	_, err := l.Add(ctx, today, " \n\t", nil)
	assert.ErrorIs(t, err, validation.ErrEmptyContent)

	rec, err := store.Get(ctx, storage.CollectionJournal)
	require.NoError(t, err)
	assert.True(t, rec.Empty(), "nothing should be written")
	assert.Empty(t, pub.events)
}

func TestAddPublishesPreviousCountPlusOne(t *testing.T) {
	ctx := context.Background()
	pub := &recorder{}
	l := NewLedger(storage.NewMemoryStore(), pub)

	for i := 0; i < 3; i++ {
		_, err := l.Add(ctx, today, "entry", nil)
		require.NoError(t, err)
	}
	require.Len(t, pub.events, 3)
	for i, ev := range pub.events {
		assert.Equal(t, events.JournalCount, ev.Type)
		assert.Equal(t, i+1, ev.Count)
	}
}

func TestAddReportsEvaluationFailureSeparately(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	failing := events.NewDispatcher(events.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("rules offline")
	}))
	l := NewLedger(store, failing)

	entry, err := l.Add(ctx, today, "saved anyway", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, events.ErrHandlerFailed)
	assert.NotEmpty(t, entry.ID)

	entries, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestFirstEntryUnlocksFirstStep(t *testing.T) {
	ctx := context.Background()
	l, evaluator, _ := setup(t)

	_, err := l.Add(ctx, today, "first", nil)
	require.NoError(t, err)

	got := unlocked(t, evaluator)
	assert.True(t, got[models.BadgeFirstStep])
	assert.False(t, got[models.BadgeStreak3])
	assert.False(t, got[models.BadgeStreak7])

	s, err := l.Streak(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, s)
}

func TestThreeConsecutiveDaysUnlockStreak3(t *testing.T) {
	ctx := context.Background()
	l, evaluator, _ := setup(t)

	for _, daysAgo := range []int{2, 1, 0} {
		_, err := l.Add(ctx, today.AddDate(0, 0, -daysAgo), "grateful", nil)
		require.NoError(t, err)
	}

	s, err := l.Streak(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 3, s)

	got := unlocked(t, evaluator)
	assert.True(t, got[models.BadgeStreak3])
	assert.False(t, got[models.BadgeStreak7])
}

func TestListSortsByDateStable(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	stored := []models.JournalEntry{
		{ID: "old", Date: today.AddDate(0, 0, -3), Content: "a"},
		{ID: "same-1", Date: today, Content: "b"},
		{ID: "same-2", Date: today, Content: "c"},
		{ID: "mid", Date: today.AddDate(0, 0, -1), Content: "d"},
	}
	require.NoError(t, storage.SetJSON(ctx, store, storage.CollectionJournal, stored))

	entries, err := NewLedger(store, nil).List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"same-1", "same-2", "mid", "old"}, ids)
}

func TestListCorruptCollectionIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.CollectionJournal, []byte("{{{")))

	entries, err := NewLedger(store, nil).List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	l, _, store := setup(t)
	_, err := l.Add(ctx, today, "keep me", []string{"x"})
	require.NoError(t, err)

	before, err := store.Get(ctx, storage.CollectionJournal)
	require.NoError(t, err)

	err = l.Update(ctx, models.JournalEntry{ID: "does-not-exist", Content: "ghost"})
	require.NoError(t, err)

	after, err := store.Get(ctx, storage.CollectionJournal)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, string(before.Data), string(after.Data))
}

func TestUpdateKeepsDate(t *testing.T) {
	ctx := context.Background()
	l, _, _ := setup(t)
	entry, err := l.Add(ctx, today, "draft", nil)
	require.NoError(t, err)

	edited := entry
	edited.Content = "final"
	edited.Date = today.AddDate(0, 0, 5)
	require.NoError(t, l.Update(ctx, edited))

	got, err := l.Find(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content)
	assert.True(t, got.Date.Equal(today))
}

func TestAttachInsight(t *testing.T) {
	ctx := context.Background()
	l, _, store := setup(t)
	entry, err := l.Add(ctx, today, "learned to bake", nil)
	require.NoError(t, err)

	require.NoError(t, l.AttachInsight(ctx, entry.ID, "Baking is patience."))
	require.NoError(t, l.AttachInsight(ctx, entry.ID, "Second thought."))

	got, err := l.Find(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second thought.", got.AIInsight)

	rec, _ := store.Get(ctx, storage.CollectionJournal)
	require.NoError(t, l.AttachInsight(ctx, entry.ID, "   "))
	after, _ := store.Get(ctx, storage.CollectionJournal)
	assert.Equal(t, rec.Version, after.Version, "blank insight must not write")
}

func TestFindByPrefix(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	stored := []models.JournalEntry{
		{ID: "abc123", Date: today, Content: "a"},
		{ID: "abd456", Date: today, Content: "b"},
	}
	require.NoError(t, storage.SetJSON(ctx, store, storage.CollectionJournal, stored))
	l := NewLedger(store, nil)

	got, err := l.Find(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.ID)

	_, err = l.Find(ctx, "ab")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = l.Find(ctx, "zzz")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	l, _, _ := setup(t)
	entry, err := l.Add(ctx, today, "**Warm** bread <script>alert(1)</script>", []string{"food"})
	require.NoError(t, err)
	require.NoError(t, l.AttachInsight(ctx, entry.ID, "Simple pleasures matter."))

	var out strings.Builder
	require.NoError(t, l.Export(ctx, &out))
	html := out.String()

	assert.Contains(t, html, "<strong>Warm</strong>")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "#food")
	assert.Contains(t, html, "Simple pleasures matter.")
	assert.Contains(t, html, today.Format("2006-01-02"))
}

func TestExportEmpty(t *testing.T) {
	var out strings.Builder
	require.NoError(t, NewLedger(storage.NewMemoryStore(), nil).Export(context.Background(), &out))
	assert.Contains(t, out.String(), "No entries yet.")
}
