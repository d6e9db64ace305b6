// Package session tracks which user is logged in on this device. Logging
// in or out never touches journal, mood or badge history.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/gratilog/internal/logger"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/validation"
)

var ErrNoSession = errors.New("no user is logged in")

// BadgeSeeder prepares the badge set for a new session.
type BadgeSeeder interface {
	EnsureDefaults(ctx context.Context) error
}

type Manager struct {
	store  storage.Provider
	badges BadgeSeeder
	now    func() time.Time
}

func NewManager(store storage.Provider, badges BadgeSeeder) *Manager {
	return &Manager{store: store, badges: badges, now: time.Now}
}

// Login stores the profile for username and seeds the badge set. Logging
// in again as the same user keeps the original creation time.
func (m *Manager) Login(ctx context.Context, username string) (models.User, error) {
	name, err := validation.Username(username)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Username: name, CreatedAt: m.now()}
	if current, err := m.Current(ctx); err == nil && current.Username == name {
		user.CreatedAt = current.CreatedAt
	}

	if err := storage.SetJSON(ctx, m.store, storage.CollectionUser, user); err != nil {
		return models.User{}, fmt.Errorf("failed to save session: %w", err)
	}
	if m.badges != nil {
		if err := m.badges.EnsureDefaults(ctx); err != nil {
			return user, err
		}
	}
	logger.For("session").Info("Logged in", "user", name)
	return user, nil
}

// Logout removes the profile only.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, storage.CollectionUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	logger.For("session").Info("Logged out")
	return nil
}

// Current returns the logged-in user, or ErrNoSession. A corrupt profile
// counts as no session.
func (m *Manager) Current(ctx context.Context) (models.User, error) {
	user, _, err := storage.GetJSON[*models.User](ctx, m.store, storage.CollectionUser)
	if err != nil {
		return models.User{}, err
	}
	if user == nil || user.Username == "" {
		return models.User{}, ErrNoSession
	}
	return *user, nil
}
