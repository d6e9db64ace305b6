package coaching

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/coach"
	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/validation"
)

type AskCmd struct {
	Thought string `arg:"" optional:"" help:"The thought that is bothering you. Prompts when omitted."`
}

func (c *AskCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	if !ctx.Coach.Configured() {
		return coach.ErrNotConfigured
	}

	thought := c.Thought
	if thought == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewText().
				Title("CBT coach").
				Description(constants.CoachGreeting).
				Value(&thought).
				Validate(validation.EntryContent),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	before := ctx.Snapshot()
	reply, err := ctx.Coach.AnalyzeThought(ctx.Ctx, thought)
	if errors.Is(err, coach.ErrNotConfigured) {
		return err
	}
	if reply != "" {
		ctx.Println(cli.InsightStyle.Render(reply))
	}
	if err := ctx.ReportEvaluation(err); err != nil {
		return err
	}
	ctx.ReportUnlocks(before)
	return nil
}

type PromptCmd struct{}

func (c *PromptCmd) Run(ctx *cli.Context) error {
	moods, _ := ctx.Moods.Recent(ctx.Ctx, constants.RecentMoodDays)
	ctx.Println(cli.TitleStyle.Render("✏️  " + ctx.Coach.GratitudePrompt(ctx.Ctx, moods)))
	return nil
}
