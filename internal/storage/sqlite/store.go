package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/logger"
	"github.com/julianstephens/gratilog/internal/migration"
	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

var _ storage.Provider = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.validateSchemaVersion()
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serialises writers, which SQLite requires anyway
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	log := logger.For("migration")
	_, err = runner.ApplyMigrations(func(msg string) {
		log.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) Get(ctx context.Context, c storage.Collection) (storage.Record, error) {
	if s.db == nil {
		return storage.Record{}, storage.ErrNotLoaded
	}

	var rec storage.Record
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data, version FROM collections WHERE name = ?`, string(c)).Scan(&data, &rec.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Record{}, nil
	}
	if err != nil {
		return storage.Record{}, err
	}
	rec.Data = []byte(data)
	return rec, nil
}

func (s *Store) Set(ctx context.Context, c storage.Collection, data []byte) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, data, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			version = collections.version + 1,
			updated_at = excluded.updated_at`,
		string(c), string(data), now())
	return err
}

func (s *Store) CompareAndSet(ctx context.Context, c storage.Collection, expected int64, data []byte) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	var (
		result sql.Result
		err    error
	)
	if expected == 0 {
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO collections (name, data, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT(name) DO NOTHING`,
			string(c), string(data), now())
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE collections SET data = ?, version = version + 1, updated_at = ?
			WHERE name = ? AND version = ?`,
			string(data), now(), string(c), expected)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrVersionConflict
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, c storage.Collection) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, string(c))
	return err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
