package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/gratilog/internal/backup"
	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/session"
	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/utils"
)

var errDoctorFailed = errors.New("one or more health checks failed")

type check struct {
	name     string
	run      func(*cli.Context) error
	warnOnly bool
	needsDB  bool
}

var checks = []check{
	{name: "Store reachable", run: checkStoreReachable},
	{name: "Collections readable", run: checkCollections, needsDB: true},
	{name: "Badge set complete", run: checkBadges, needsDB: true},
	{name: "Logged in", run: checkSession, needsDB: true, warnOnly: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "AI coach", run: checkCoach, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := true
	for _, c := range checks {
		if c.needsDB && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Store reachable" {
				reachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		return errDoctorFailed
	}
	ctx.Println("All checks passed.")
	return nil
}

// Load validates the schema version on SQL backends.
func checkStoreReachable(ctx *cli.Context) error {
	return ctx.Store.Load()
}

func checkCollections(ctx *cli.Context) error {
	collections := []storage.Collection{
		storage.CollectionUser,
		storage.CollectionJournal,
		storage.CollectionMoods,
		storage.CollectionBadges,
	}
	var errs []error
	for _, c := range collections {
		rec, err := ctx.Store.Get(ctx.Ctx, c)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}
		if !rec.Empty() && !json.Valid(rec.Data) {
			errs = append(errs, fmt.Errorf("%s: stored data is corrupt and will be read as empty", c))
		}
	}
	return errors.Join(errs...)
}

func checkBadges(ctx *cli.Context) error {
	stored, _, err := storage.GetJSON[[]models.Badge](ctx.Ctx, ctx.Store, storage.CollectionBadges)
	if err != nil {
		return err
	}
	present := make(map[models.BadgeID]bool, len(stored))
	for _, b := range stored {
		present[b.ID] = true
	}
	var missing []models.BadgeID
	for _, b := range models.DefaultBadges() {
		if !present[b.ID] {
			missing = append(missing, b.ID)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing badges %v, run '%s login' to repair", missing, constants.AppName)
	}
	return nil
}

func checkSession(ctx *cli.Context) error {
	_, err := ctx.Session.Current(ctx.Ctx)
	if errors.Is(err, session.ErrNoSession) {
		return fmt.Errorf("no user logged in, run '%s login'", constants.AppName)
	}
	return err
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !cli.IsFileStore(ctx.Store) {
		return nil
	}
	list, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(list) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkCoach(ctx *cli.Context) error {
	if !ctx.Coach.Configured() {
		return fmt.Errorf("no API key, set GEMINI_API_KEY or run '%s keyring set'", constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Location == nil {
		return errors.New("no timezone configured")
	}
	if !utils.ValidateTimezone(ctx.Location.String()) {
		return fmt.Errorf("unknown timezone %q", ctx.Location.String())
	}
	return nil
}
