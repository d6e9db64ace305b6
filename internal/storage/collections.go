package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/logger"
)

// GetJSON decodes a collection into T. Missing and corrupt collections both
// decode to the zero value; corruption is logged, not returned. The returned
// version is suitable for CompareAndSet.
func GetJSON[T any](ctx context.Context, p Provider, c Collection) (T, int64, error) {
	var out T
	rec, err := p.Get(ctx, c)
	if err != nil {
		return out, 0, fmt.Errorf("failed to read %s: %w", c, err)
	}
	if rec.Empty() {
		return out, rec.Version, nil
	}
	if err := json.Unmarshal(rec.Data, &out); err != nil {
		logger.For("storage").Warn("Discarding corrupt collection", "collection", c, "version", rec.Version, "error", err)
		var zero T
		return zero, rec.Version, nil
	}
	return out, rec.Version, nil
}

// SetJSON encodes v and replaces the collection unconditionally.
func SetJSON[T any](ctx context.Context, p Provider, c Collection, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", c, err)
	}
	if err := p.Set(ctx, c, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", c, err)
	}
	return nil
}

// UpdateFunc receives the current collection and returns the replacement.
// Returning changed=false skips the write.
type UpdateFunc[T any] func(current T) (next T, changed bool, err error)

// UpdateJSON performs a read-modify-write guarded by CompareAndSet, retrying
// when another writer got in between. fn may run more than once.
func UpdateJSON[T any](ctx context.Context, p Provider, c Collection, fn UpdateFunc[T]) (T, error) {
	var zero T
	for attempt := 0; attempt < constants.MaxCASRetries; attempt++ {
		current, version, err := GetJSON[T](ctx, p, c)
		if err != nil {
			return zero, err
		}

		next, changed, err := fn(current)
		if err != nil {
			return zero, err
		}
		if !changed {
			return current, nil
		}

		data, err := json.Marshal(next)
		if err != nil {
			return zero, fmt.Errorf("failed to serialize %s: %w", c, err)
		}

		err = p.CompareAndSet(ctx, c, version, data)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return zero, fmt.Errorf("failed to write %s: %w", c, err)
		}
		logger.For("storage").Debug("Retrying after version conflict", "collection", c, "attempt", attempt+1)
	}
	return zero, fmt.Errorf("failed to write %s after %d attempts: %w", c, constants.MaxCASRetries, ErrVersionConflict)
}
