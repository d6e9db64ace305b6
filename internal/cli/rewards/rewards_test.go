package rewards

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/storage"
)

func setup(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := cli.NewContext(context.Background(), storage.NewMemoryStore(), time.UTC, nil)
	out := &bytes.Buffer{}
	ctx.Out = out
	if _, err := ctx.Session.Login(ctx.Ctx, "ada"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return ctx, out
}

func TestStreakCmd(t *testing.T) {
	ctx, out := setup(t)

	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatalf("StreakCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No active streak") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	now := ctx.Now()
	for i := 2; i >= 0; i-- {
		if _, err := ctx.Journal.Add(ctx.Ctx, now.AddDate(0, 0, -i), "thanks", nil); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	out.Reset()
	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatalf("StreakCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "🔥 3-day streak") || !strings.Contains(out.String(), "3 entries in total") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestBadgesCmd(t *testing.T) {
	ctx, out := setup(t)

	if err := (&BadgesCmd{}).Run(ctx); err != nil {
		t.Fatalf("BadgesCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "0 of 5 badges unlocked") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "🔒") {
		t.Error("expected locked badges to be marked")
	}

	if _, err := ctx.Journal.Add(ctx.Ctx, ctx.Now(), "thanks", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	out.Reset()
	if err := (&BadgesCmd{}).Run(ctx); err != nil {
		t.Fatalf("BadgesCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "1 of 5 badges unlocked") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	ctx, _ := setup(t)
	if err := ctx.Session.Logout(ctx.Ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if err := (&StreakCmd{}).Run(ctx); err == nil {
		t.Error("expected streak to require a session")
	}
	if err := (&BadgesCmd{}).Run(ctx); err == nil {
		t.Error("expected badges to require a session")
	}
}
