package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// ErrInvalidCredentials is returned by AddSource when a source's
// credentials fail validation.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Tracker aggregates activities across registered sources.
type Tracker struct {
	sources []Source
	logger  *slog.Logger
}

func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{logger: logger.With("component", "ActivityTracker")}
}

// AddSource validates the source's credentials and registers it.
// A source that fails validation is not registered at all.
func (t *Tracker) AddSource(source Source) error {
	t.logger.Debug("adding source", "source", source.Name())

	if !source.ValidateCredentials() {
		t.logger.Error("credential validation failed", "source", source.Name())
		return fmt.Errorf("source %s: %w", source.Name(), ErrInvalidCredentials)
	}

	t.sources = append(t.sources, source)
	t.logger.Info("source registered", "source", source.Name())
	return nil
}

// GetAllActivities fetches from every registered source in registration
// order and returns the combined list sorted by timestamp descending.
// A source that fails is logged and excluded; an error is returned only
// when every source failed and nothing was collected.
func (t *Tracker) GetAllActivities(ctx context.Context, username string, start, end time.Time) ([]Activity, error) {
	var all []Activity
	failures := make(map[string]error)

	for _, src := range t.sources {
		t.logger.Debug("fetching activities", "source", src.Name(), "user", username)

		acts, err := src.GetActivities(ctx, username, start, end)
		if err != nil {
			failures[src.Name()] = err
			t.logger.Error("source fetch failed", "source", src.Name(), "error", err)
			continue
		}

		t.logger.Debug("activities fetched", "source", src.Name(), "count", len(acts))
		all = append(all, acts...)
	}

	// Stable sort keeps source-iteration order for equal timestamps.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})

	// A run fails only when every source failed. A source that succeeds
	// with zero activities still counts as a success.
	if len(t.sources) > 0 && len(failures) == len(t.sources) {
		return nil, fmt.Errorf("failed to fetch from all sources: %v", failures)
	}

	t.logger.Info("activities aggregated", "total", len(all))
	return all, nil
}
