package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/gratilog/internal/backup"
	"github.com/julianstephens/gratilog/internal/badges"
	"github.com/julianstephens/gratilog/internal/coach"
	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/events"
	"github.com/julianstephens/gratilog/internal/journal"
	"github.com/julianstephens/gratilog/internal/logger"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/mood"
	"github.com/julianstephens/gratilog/internal/session"
	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/storage/postgres"
	"github.com/julianstephens/gratilog/internal/storage/sqlite"
	"github.com/julianstephens/gratilog/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Ctx      context.Context
	Store    storage.Provider
	Journal  *journal.Ledger
	Moods    *mood.Ledger
	Badges   *badges.Evaluator
	Session  *session.Manager
	Coach    *coach.Coach
	Location *time.Location
	Out      io.Writer
	In       io.Reader
}

// NewContext wires the ledgers, badge evaluator and coach around store.
// gen may be nil when no API key is configured.
func NewContext(ctx context.Context, store storage.Provider, loc *time.Location, gen coach.Generator) *Context {
	if loc == nil {
		loc = time.Local
	}
	evaluator := badges.NewEvaluator(store, func() time.Time { return time.Now().In(loc) })
	dispatcher := events.NewDispatcher(evaluator)

	return &Context{
		Ctx:      ctx,
		Store:    store,
		Journal:  journal.NewLedger(store, dispatcher),
		Moods:    mood.NewLedger(store, dispatcher),
		Badges:   evaluator,
		Session:  session.NewManager(store, evaluator),
		Coach:    coach.New(gen, dispatcher),
		Location: loc,
		Out:      os.Stdout,
		In:       os.Stdin,
	}
}

// OpenStore picks a backend from the --data value: PostgreSQL for
// postgres:// URLs, a JSON file for *.json, memory for ":memory:" and
// SQLite for anything else.
func OpenStore(location string) (storage.Provider, error) {
	switch {
	case postgres.IsConnString(location):
		if err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: use PGPASSWORD or a .pgpass file instead", err)
			}
			return nil, err
		}
		return postgres.New(location), nil
	case location == constants.MemoryStorePath:
		return storage.NewMemoryStore(), nil
	case strings.HasSuffix(strings.ToLower(location), ".json"):
		return storage.NewJSONStore(utils.ExpandPath(location)), nil
	default:
		return sqlite.NewStore(utils.ExpandPath(location)), nil
	}
}

// IsFileStore reports whether the store lives in a local file that can be
// backed up.
func IsFileStore(store storage.Provider) bool {
	switch store.(type) {
	case *sqlite.Store, *storage.JSONStore:
		return true
	}
	return false
}

func (c *Context) Now() time.Time {
	return time.Now().In(c.Location)
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// RequireSession returns the logged-in user or a hint to log in.
func (c *Context) RequireSession() (models.User, error) {
	user, err := c.Session.Current(c.Ctx)
	if errors.Is(err, session.ErrNoSession) {
		return models.User{}, fmt.Errorf("not logged in, run '%s login' first", constants.AppName)
	}
	return user, err
}

// Snapshot of the badge set, taken before a write so unlocks can be shown
// afterwards.
func (c *Context) Snapshot() []models.Badge {
	list, _ := c.Badges.List(c.Ctx)
	return list
}

// ReportUnlocks prints badges unlocked since before.
func (c *Context) ReportUnlocks(before []models.Badge) {
	for _, b := range badges.NewlyUnlocked(before, c.Snapshot()) {
		c.Printf("%s\n", SuccessStyle.Render(fmt.Sprintf("%s Badge unlocked: %s", b.Icon, b.Name)))
	}
}

// ReportEvaluation turns a "saved, but badge evaluation failed" result into
// a warning. Any other error is returned.
func (c *Context) ReportEvaluation(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, events.ErrHandlerFailed) {
		logger.Warn("Badge evaluation failed", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: saved, but badges could not be updated: %v\n", err)
		return nil
	}
	return err
}

// PerformAutomaticBackup creates a backup of file stores and only logs
// failures.
func (c *Context) PerformAutomaticBackup() {
	if !IsFileStore(c.Store) {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseDate accepts YYYY-MM-DD in the context's location; empty means now.
func (c *Context) ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return c.Now(), nil
	}
	day, err := utils.ParseDateInLocation(s, c.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	// Keep the current time of day so same-day entries still order by creation
	now := c.Now()
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), c.Location), nil
}

// ShortID trims an id for display; Find accepts the prefix back.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
