package account

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/session"
	"github.com/julianstephens/gratilog/internal/validation"
)

type LoginCmd struct {
	Name string `arg:"" optional:"" help:"Name to log in as. Prompts when omitted."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	name := c.Name
	if name == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("What should we call you?").
				Value(&name).
				Validate(func(s string) error {
					_, err := validation.Username(s)
					return err
				}),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	user, err := ctx.Session.Login(ctx.Ctx, name)
	if err != nil {
		return err
	}
	ctx.Printf("%s\n", cli.SuccessStyle.Render(fmt.Sprintf("✓ Welcome, %s!", user.Username)))
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.Logout(ctx.Ctx); err != nil {
		return err
	}
	ctx.Println("✓ Logged out. Your journal stays on this device.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Session.Current(ctx.Ctx)
	if errors.Is(err, session.ErrNoSession) {
		ctx.Printf("Not logged in. Run '%s login' to start.\n", constants.AppName)
		return nil
	}
	if err != nil {
		return err
	}
	ctx.Printf("%s (since %s)\n", user.Username, user.CreatedAt.In(ctx.Location).Format(constants.DateFormat))
	return nil
}
