package entries

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/coach"
	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/validation"
)

type AddCmd struct {
	Content string   `arg:"" optional:"" help:"What you are grateful for. Use '-' to read stdin; prompts when omitted."`
	Tags    []string `short:"t" help:"Tags for the entry (comma-separated)."`
	Date    string   `help:"Entry date (YYYY-MM-DD). Defaults to today."`
	Insight bool     `help:"Ask the coach for a short insight after saving."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}

	content, err := c.content(ctx)
	if err != nil {
		return err
	}

	before := ctx.Snapshot()
	entry, err := ctx.Journal.Add(ctx.Ctx, date, content, c.Tags)
	if err := ctx.ReportEvaluation(err); err != nil {
		return err
	}
	ctx.Printf("✓ Saved entry %s for %s\n", cli.ShortID(entry.ID), entry.Date.Format(constants.DateFormat))

	if streak, err := ctx.Journal.Streak(ctx.Ctx, ctx.Now()); err == nil && streak > 0 {
		ctx.Printf("🔥 %d-day streak\n", streak)
	}
	ctx.ReportUnlocks(before)

	if c.Insight {
		return printInsight(ctx, entry.ID)
	}
	return nil
}

func (c *AddCmd) content(ctx *cli.Context) (string, error) {
	if c.Content == "-" {
		data, err := io.ReadAll(bufio.NewReader(ctx.In))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), validation.EntryContent(string(data))
	}
	if c.Content != "" {
		return c.Content, validation.EntryContent(c.Content)
	}

	moods, _ := ctx.Moods.Recent(ctx.Ctx, constants.RecentMoodDays)
	prompt := ctx.Coach.GratitudePrompt(ctx.Ctx, moods)

	var content string
	form := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title("New gratitude entry").
			Description(prompt).
			Value(&content).
			Validate(validation.EntryContent),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return content, nil
}

type ListCmd struct {
	Limit int    `short:"n" help:"Show at most this many entries (0 for all)." default:"10"`
	Tag   string `help:"Only show entries with this tag."`
	Full  bool   `help:"Show full content and insights instead of a table."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	list, err := ctx.Journal.List(ctx.Ctx)
	if err != nil {
		return err
	}

	shown := 0
	t := table.New().Headers("ID", "DATE", "ENTRY", "TAGS", "✨")
	for _, e := range list {
		if c.Tag != "" && !hasTag(e.Tags, c.Tag) {
			continue
		}
		if c.Limit > 0 && shown >= c.Limit {
			break
		}
		shown++

		date := e.Date.In(ctx.Location).Format(constants.DateFormat)
		if c.Full {
			ctx.Printf("%s  %s\n", cli.TitleStyle.Render(date), cli.MutedStyle.Render(cli.ShortID(e.ID)))
			ctx.Println(e.Content)
			if len(e.Tags) > 0 {
				ctx.Println(cli.MutedStyle.Render("#" + strings.Join(e.Tags, " #")))
			}
			if e.HasInsight() {
				ctx.Println(cli.InsightStyle.Render(e.AIInsight))
			}
			ctx.Println()
			continue
		}

		insight := ""
		if e.HasInsight() {
			insight = "✓"
		}
		t.Row(cli.ShortID(e.ID), date, truncate(e.Content, 48), strings.Join(e.Tags, ","), insight)
	}

	if shown == 0 {
		ctx.Println("No entries yet. Add one with 'gratilog journal add'.")
		return nil
	}
	if !c.Full {
		ctx.Println(t.Render())
	}
	return nil
}

type InsightCmd struct {
	ID string `arg:"" help:"Entry id or id prefix."`
}

func (c *InsightCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	return printInsight(ctx, c.ID)
}

func printInsight(ctx *cli.Context, id string) error {
	if !ctx.Coach.Configured() {
		return coach.ErrNotConfigured
	}
	entry, err := ctx.Journal.Find(ctx.Ctx, id)
	if err != nil {
		return err
	}

	insight, err := ctx.Coach.AnnotateEntry(ctx.Ctx, ctx.Journal, entry)
	if err != nil {
		return err
	}
	if insight == "" {
		ctx.Println(cli.MutedStyle.Render("The coach had nothing to add this time."))
		return nil
	}
	ctx.Println(cli.InsightStyle.Render(insight))
	return nil
}

type ExportCmd struct {
	Output string `short:"o" help:"Write HTML to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	if c.Output == "" {
		return ctx.Journal.Export(ctx.Ctx, ctx.Out)
	}

	f, err := os.OpenFile(c.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := ctx.Journal.Export(ctx.Ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	ctx.Printf("✓ Exported journal to %s\n", c.Output)
	return nil
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
