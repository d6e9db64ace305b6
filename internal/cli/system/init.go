package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/constants"
)

type InitCmd struct {
	Force bool `help:"Delete the existing store file before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force && cli.IsFileStore(ctx.Store) {
		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())
	ctx.Printf("Next: run '%s login' to get started.\n", constants.AppName)
	return nil
}
