// Package events carries activity notifications from the ledgers to
// whatever derives state from them. Events are published only after the
// triggering write has been persisted.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Type string

const (
	JournalCount Type = "journal_count"
	MoodCount    Type = "mood_count"
	CBTUse       Type = "cbt_use"
)

// ErrHandlerFailed marks errors raised after the triggering write succeeded.
var ErrHandlerFailed = errors.New("event handler failed")

type Event struct {
	Type  Type
	Count int
	At    time.Time
}

type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev Event) error

func (f HandlerFunc) Handle(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Publisher is what the ledgers depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Dispatcher delivers each event to every subscribed handler in
// subscription order, synchronously.
type Dispatcher struct {
	handlers []Handler
}

func NewDispatcher(handlers ...Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

func (d *Dispatcher) Subscribe(h Handler) {
	d.handlers = append(d.handlers, h)
}

// Publish runs all handlers even if one fails. The joined error wraps
// ErrHandlerFailed.
func (d *Dispatcher) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	var errs []error
	for _, h := range d.handlers {
		if err := h.Handle(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrHandlerFailed, ev.Type, errors.Join(errs...))
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
