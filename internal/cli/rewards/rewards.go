package rewards

import (
	"fmt"

	"github.com/julianstephens/gratilog/internal/cli"
)

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	streak, err := ctx.Journal.Streak(ctx.Ctx, ctx.Now())
	if err != nil {
		return err
	}
	count, err := ctx.Journal.Count(ctx.Ctx)
	if err != nil {
		return err
	}

	switch streak {
	case 0:
		ctx.Println("No active streak. Write an entry today to start one.")
	case 1:
		ctx.Println("🔥 1-day streak")
	default:
		ctx.Printf("🔥 %d-day streak\n", streak)
	}
	ctx.Printf("%s\n", cli.MutedStyle.Render(fmt.Sprintf("%d entries in total", count)))
	return nil
}

type BadgesCmd struct{}

func (c *BadgesCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	list, err := ctx.Badges.List(ctx.Ctx)
	if err != nil {
		return err
	}

	unlocked := 0
	for _, b := range list {
		line := fmt.Sprintf("%s  %-16s %s", b.Icon, b.Name, b.Description)
		if b.Unlocked {
			unlocked++
			ctx.Println(cli.SuccessStyle.Render(line))
		} else {
			ctx.Println(cli.LockedStyle.Render("🔒 " + line[len(b.Icon):]))
		}
	}
	ctx.Printf("\n%d of %d badges unlocked\n", unlocked, len(list))
	return nil
}
