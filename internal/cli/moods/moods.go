package moods

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/models"
)

type AddCmd struct {
	Value int    `arg:"" optional:"" help:"Mood from 1 (awful) to 10 (great). Prompts when omitted."`
	Note  string `short:"m" help:"Optional note."`
	Date  string `help:"Log date (YYYY-MM-DD). Defaults to today."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}

	value := c.Value
	if value == 0 {
		if value, err = promptValue(&c.Note); err != nil {
			return err
		}
	}

	before := ctx.Snapshot()
	logged, err := ctx.Moods.Add(ctx.Ctx, date, value, c.Note)
	if err := ctx.ReportEvaluation(err); err != nil {
		return err
	}
	ctx.Printf("✓ Logged %s %d/10 for %s\n", models.MoodEmoji(logged.Value), logged.Value, logged.Date.Format(constants.DateFormat))
	ctx.ReportUnlocks(before)
	return nil
}

func promptValue(note *string) (int, error) {
	options := make([]huh.Option[int], 0, constants.MoodMax)
	for v := constants.MoodMax; v >= constants.MoodMin; v-- {
		options = append(options, huh.NewOption(fmt.Sprintf("%s %d", models.MoodEmoji(v), v), v))
	}

	value := 5
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("How are you feeling today?").
			Options(options...).
			Value(&value),
		huh.NewInput().
			Title("Anything on your mind?").
			Value(note),
	))
	if err := form.Run(); err != nil {
		return 0, err
	}
	return value, nil
}

type ListCmd struct {
	Limit int `short:"n" help:"Show the most recent N logs (0 for all)." default:"14"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	logs, err := ctx.Moods.Recent(ctx.Ctx, c.Limit)
	if c.Limit <= 0 {
		logs, err = ctx.Moods.List(ctx.Ctx)
	}
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		ctx.Println("No moods logged yet. Try 'gratilog mood add'.")
		return nil
	}

	t := table.New().Headers("DATE", "MOOD", "", "NOTE")
	for _, m := range logs {
		t.Row(
			m.Date.In(ctx.Location).Format(constants.DateFormat+" "+constants.TimeFormat),
			models.MoodEmoji(m.Value),
			bar(m.Value),
			m.Note,
		)
	}
	ctx.Println(t.Render())
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	logged, err := ctx.Moods.HasLoggedToday(ctx.Ctx, ctx.Now())
	if err != nil {
		return err
	}
	if logged {
		ctx.Println("✓ Mood already logged today.")
	} else {
		ctx.Println("No mood logged today yet.")
	}
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	stats, err := ctx.Moods.Stats(ctx.Ctx)
	if err != nil {
		return err
	}
	if stats.Count == 0 {
		ctx.Println("No moods logged yet.")
		return nil
	}

	ctx.Println(cli.TitleStyle.Render("Mood summary"))
	ctx.Printf("  Logs:    %d\n", stats.Count)
	ctx.Printf("  Average: %s\n", stats.Average.StringFixed(1))
	ctx.Printf("  Range:   %d-%d\n", stats.Min, stats.Max)
	if stats.Last != nil {
		ctx.Printf("  Latest:  %s %s\n", models.MoodEmoji(stats.Last.Value), strconv.Itoa(stats.Last.Value))
	}
	return nil
}

func bar(value int) string {
	return strings.Repeat("█", value) + cli.MutedStyle.Render(strings.Repeat("░", constants.MoodMax-value))
}
