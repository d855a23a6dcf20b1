package activity

import (
	"context"
	"time"
)

// Activity is one normalized user action on an external system.
// Instances are plain values and are never mutated after construction:
// Details and Message are derived purely from the event type and raw payload.
type Activity struct {
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
	Type      string         `json:"type"`
	Details   map[string]any `json:"details"`
	Message   string         `json:"message"`
}

// Source is implemented once per external system.
type Source interface {
	Name() string

	// ValidateCredentials performs one lightweight authenticated request.
	// It reports false on any failure and never propagates an error.
	ValidateCredentials() bool

	// GetActivities returns the user's activities within [start, end].
	// A zero start means no lower bound; a zero end means "now".
	GetActivities(ctx context.Context, username string, start, end time.Time) ([]Activity, error)
}
