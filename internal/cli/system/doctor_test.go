package system

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/gratilog/internal/backup"
	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/storage/sqlite"
)

func setupTestDoctorDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := cli.NewContext(context.Background(), store, time.UTC, nil)
	out := &bytes.Buffer{}
	ctx.Out = out
	if _, err := ctx.Session.Login(ctx.Ctx, "ada"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return ctx, out
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, out := setupTestDoctorDB(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "All checks passed.") {
		t.Errorf("expected success summary, got:\n%s", out.String())
	}
}

func TestDoctorCmd_Warnings(t *testing.T) {
	ctx, out := setupTestDoctorDB(t)

	// No backups and no coach are warnings, not failures
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor should not fail on warnings: %v", err)
	}
	for _, want := range []string{"⚠ Backups present: WARNING", "⚠ AI coach: WARNING"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}

	out.Reset()
	if _, err := backup.NewManager(ctx.Store.GetConfigPath()).Create(); err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backups present: OK") {
		t.Errorf("expected backups to pass once one exists:\n%s", out.String())
	}
}

func TestDoctorCmd_NotLoggedIn(t *testing.T) {
	ctx, out := setupTestDoctorDB(t)
	if err := ctx.Session.Logout(ctx.Ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("missing session should only warn: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Logged in: WARNING") {
		t.Errorf("expected session warning:\n%s", out.String())
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, out := setupTestDoctorDB(t)

	store := ctx.Store.(*sqlite.Store)
	if _, err := store.GetDB().Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("failed to corrupt schema version: %v", err)
	}
	// Doctor loads the store itself, as it does when run from the CLI
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail on a future schema version")
	}
	if !strings.Contains(out.String(), "❌ Store reachable: FAIL") {
		t.Errorf("expected store failure:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "⊘ Collections readable: SKIPPED") {
		t.Errorf("expected dependent checks to be skipped:\n%s", out.String())
	}
}

func TestDoctorCmd_CorruptCollection(t *testing.T) {
	ctx, out := setupTestDoctorDB(t)

	if err := ctx.Store.Set(ctx.Ctx, storage.CollectionJournal, []byte("{not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail on corrupt data")
	}
	if !strings.Contains(out.String(), "journal_entries: stored data is corrupt") {
		t.Errorf("expected corrupt collection to be named:\n%s", out.String())
	}
}

func TestDoctorCmd_MissingBadges(t *testing.T) {
	ctx, out := setupTestDoctorDB(t)

	if err := ctx.Store.Set(ctx.Ctx, storage.CollectionBadges, []byte("[]")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail on an incomplete badge set")
	}
	if !strings.Contains(out.String(), "❌ Badge set complete: FAIL") {
		t.Errorf("expected badge failure:\n%s", out.String())
	}
}

func TestDoctorCmd_MemoryStore(t *testing.T) {
	ctx := cli.NewContext(context.Background(), storage.NewMemoryStore(), time.UTC, nil)
	out := &bytes.Buffer{}
	ctx.Out = out
	if _, err := ctx.Session.Login(ctx.Ctx, "ada"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	// Backups only apply to file stores
	if !strings.Contains(out.String(), "✓ Backups present: OK") {
		t.Errorf("expected backups check to pass for memory store:\n%s", out.String())
	}
}
