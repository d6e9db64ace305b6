package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/cli/account"
	"github.com/julianstephens/gratilog/internal/cli/backups"
	"github.com/julianstephens/gratilog/internal/cli/coaching"
	"github.com/julianstephens/gratilog/internal/cli/entries"
	"github.com/julianstephens/gratilog/internal/cli/moods"
	"github.com/julianstephens/gratilog/internal/cli/rewards"
	"github.com/julianstephens/gratilog/internal/cli/system"
	"github.com/julianstephens/gratilog/internal/coach"
	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/errors"
	"github.com/julianstephens/gratilog/internal/keyring"
	"github.com/julianstephens/gratilog/internal/logger"
	"github.com/julianstephens/gratilog/internal/storage/postgres"
	"github.com/julianstephens/gratilog/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Data     string `help:"Data file path (SQLite, or *.json), ':memory:', or a PostgreSQL connection string without an embedded password." env:"GRATILOG_DATA" default:"~/.config/gratilog/gratilog.db"`
	Timezone string `help:"IANA timezone used for calendar days." env:"GRATILOG_TIMEZONE" default:"Local"`
	APIKey   string `name:"api-key" help:"Gemini API key. Falls back to the OS keyring." env:"GEMINI_API_KEY"`
	Model    string `help:"Gemini model for the AI coach." env:"GEMINI_MODEL"`
	BaseURL  string `name:"api-base-url" help:"Override the Gemini API endpoint." env:"GEMINI_BASE_URL" hidden:""`
	Debug    bool   `help:"Log debug output to stderr."`

	Init   system.InitCmd    `cmd:"" help:"Initialize gratilog storage."`
	Login  account.LoginCmd  `cmd:"" help:"Log in (username only, no password)."`
	Logout account.LogoutCmd `cmd:"" help:"Log out. Journal history is kept."`
	Whoami account.WhoamiCmd `cmd:"" help:"Show the logged-in user."`
	Tui    system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Doctor system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`

	Journal struct {
		Add     entries.AddCmd     `cmd:"" help:"Write a gratitude entry."`
		List    entries.ListCmd    `cmd:"" help:"List journal entries." default:"1"`
		Insight entries.InsightCmd `cmd:"" help:"Ask the AI coach for an insight on an entry."`
		Export  entries.ExportCmd  `cmd:"" help:"Export the journal as HTML."`
	} `cmd:"" help:"Manage gratitude entries."`
	Mood struct {
		Add   moods.AddCmd   `cmd:"" help:"Log today's mood."`
		List  moods.ListCmd  `cmd:"" help:"Show recent mood logs." default:"1"`
		Today moods.TodayCmd `cmd:"" help:"Show whether today's mood is logged."`
		Stats moods.StatsCmd `cmd:"" help:"Show mood statistics."`
	} `cmd:"" help:"Track your mood."`
	Streak rewards.StreakCmd `cmd:"" help:"Show the current journaling streak."`
	Badges rewards.BadgesCmd `cmd:"" help:"Show achievement badges."`
	Coach  struct {
		Ask    coaching.AskCmd    `cmd:"" help:"Talk a thought through with the CBT coach."`
		Prompt coaching.PromptCmd `cmd:"" help:"Get a gratitude writing prompt."`
	} `cmd:"" help:"AI coach."`
	Backup struct {
		Create  backups.CreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.ListCmd    `cmd:"" help:"List available backups."`
		Restore backups.RestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage data backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the Gemini API key in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the Gemini API key from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show whether an API key is stored."`
	} `cmd:"" help:"Manage the AI coach API key."`
}

// Commands that must run before (or without) a loaded store.
var skipLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Local-first gratitude journal and mood tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir(CLI.Data)}); err != nil {
		errors.Warnf("failed to initialize logging: %v", err)
	}

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		errors.Fatal(fmt.Errorf("invalid timezone %q: %w", CLI.Timezone, err))
	}

	store, err := cli.OpenStore(CLI.Data)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	command := strings.Fields(kctx.Command())[0]
	if !skipLoad[command] {
		if err := store.Load(); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	var gen coach.Generator
	if command != "keyring" {
		key, err := keyring.ResolveAPIKey(CLI.APIKey)
		if err != nil {
			logger.Warn("Failed to read API key from keyring", "error", err)
		}
		if key != "" {
			client := coach.NewGeminiClient(key, CLI.Model)
			if CLI.BaseURL != "" {
				client.SetBaseURL(CLI.BaseURL)
			}
			gen = client
			logger.Debug("AI coach configured", "model", client.Model())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := cli.NewContext(ctx, store, loc, gen)
	if err := kctx.Run(appCtx); err != nil {
		stop()
		store.Close()
		errors.Fatal(err)
	}
}

// configDir holds logs next to a file store, or under the default config
// directory for PostgreSQL and memory stores.
func configDir(data string) string {
	if postgres.IsConnString(data) || data == constants.MemoryStorePath {
		return filepath.Dir(utils.ExpandPath(constants.DefaultConfigPath))
	}
	return filepath.Dir(utils.ExpandPath(data))
}
