package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/keyring"
)

// KeyringSetCmd stores the Gemini API key in the OS keyring
type KeyringSetCmd struct {
	Key string `arg:"" optional:"" help:"Gemini API key. Prompts (hidden) when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	key := strings.TrimSpace(cmd.Key)
	if key == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				EchoMode(huh.EchoModePassword).
				Value(&key),
		))
		if err := form.Run(); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
	}

	if err := keyring.SetAPIKey(key); err != nil {
		return err
	}
	ctx.Println("✓ API key stored in OS keyring")
	return nil
}

// KeyringDeleteCmd removes the Gemini API key from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteAPIKey()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no API key found in keyring")
	}
	if err != nil {
		return err
	}
	ctx.Println("✓ API key deleted from OS keyring")
	return nil
}

// KeyringStatusCmd reports whether a key is stored, masked
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	key, err := keyring.GetAPIKey()
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No API key stored in keyring")
	case err != nil:
		return err
	default:
		ctx.Printf("✓ API key stored in keyring: %s\n", maskKey(key))
	}
	return nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return fmt.Sprintf("%s****", key[:4])
}
