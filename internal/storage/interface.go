package storage

import (
	"context"
	"errors"
)

// Collection names one logical key of the store.
type Collection string

const (
	CollectionUser    Collection = "user"
	CollectionJournal Collection = "journal_entries"
	CollectionMoods   Collection = "mood_logs"
	CollectionBadges  Collection = "badges"
)

var (
	// ErrVersionConflict is returned by CompareAndSet when the collection
	// changed since it was read.
	ErrVersionConflict = errors.New("collection was modified concurrently")
	// ErrNotLoaded is returned when an operation runs before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Record is the raw JSON document stored under a collection.
// A collection that was never written has nil Data and Version 0.
type Record struct {
	Data    []byte
	Version int64
}

func (r Record) Empty() bool {
	return len(r.Data) == 0
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get never fails on a missing collection; it returns an empty Record.
	Get(ctx context.Context, c Collection) (Record, error)
	// Set replaces the whole collection and bumps its version.
	Set(ctx context.Context, c Collection, data []byte) error
	// CompareAndSet replaces the collection only if its current version is
	// expected, returning ErrVersionConflict otherwise. Expected 0 means
	// "not yet written".
	CompareAndSet(ctx context.Context, c Collection, expected int64, data []byte) error
	Delete(ctx context.Context, c Collection) error

	// Utils
	GetConfigPath() string
}
