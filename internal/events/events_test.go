package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	var got []string
	d := NewDispatcher(
		HandlerFunc(func(_ context.Context, ev Event) error {
			got = append(got, "first:"+string(ev.Type))
			return nil
		}),
	)
	d.Subscribe(HandlerFunc(func(_ context.Context, ev Event) error {
		got = append(got, "second:"+string(ev.Type))
		return nil
	}))

	require.NoError(t, d.Publish(context.Background(), Event{Type: MoodCount, Count: 3}))
	assert.Equal(t, []string{"first:mood_count", "second:mood_count"}, got)
}

func TestDispatcherStampsEventTime(t *testing.T) {
	var seen Event
	d := NewDispatcher(HandlerFunc(func(_ context.Context, ev Event) error {
		seen = ev
		return nil
	}))

	require.NoError(t, d.Publish(context.Background(), Event{Type: CBTUse, Count: 1}))
	assert.False(t, seen.At.IsZero())
}

func TestDispatcherWrapsHandlerFailures(t *testing.T) {
	boom := errors.New("badge store offline")
	calls := 0
	d := NewDispatcher(
		HandlerFunc(func(context.Context, Event) error { calls++; return boom }),
		HandlerFunc(func(context.Context, Event) error { calls++; return nil }),
	)

	err := d.Publish(context.Background(), Event{Type: JournalCount, Count: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHandlerFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls, "a failing handler must not stop later handlers")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{Type: JournalCount}))
}
