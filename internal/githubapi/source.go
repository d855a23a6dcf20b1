package githubapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/kmuigai/gitstalker/internal/activity"
)

const sourceName = "github"

// Source implements activity.Source on top of the GitHub public events feed.
type Source struct {
	client       *Client
	organization string
	logger       *slog.Logger
}

var _ activity.Source = (*Source)(nil)

func NewSource(client *Client, organization string, logger *slog.Logger) *Source {
	s := &Source{
		client:       client,
		organization: organization,
		logger:       logger.With("component", "GitHubSource"),
	}
	if organization != "" {
		s.logger.Info("organization filter enabled", "organization", organization)
	}
	return s
}

func (s *Source) Name() string { return sourceName }

// ValidateCredentials checks the token against the authenticated-user
// endpoint. Any failure reports false; nothing propagates.
func (s *Source) ValidateCredentials() bool {
	s.logger.Debug("validating credentials")
	if err := s.client.getJSON(context.Background(), s.client.baseURL+"/user", nil); err != nil {
		s.logger.Error("credential validation failed", "error", err)
		return false
	}
	s.logger.Info("credentials validated")
	return true
}

// GetActivities fetches the user's event feed and normalizes each event.
// A failing top-level fetch is an error for this source; a failing event
// is logged and skipped.
func (s *Source) GetActivities(ctx context.Context, username string, start, end time.Time) ([]activity.Activity, error) {
	s.logger.Info("fetching activities", "user", username)

	if end.IsZero() {
		end = time.Now().UTC()
	}

	endpoint := fmt.Sprintf("%s/users/%s/events", s.client.baseURL, url.PathEscape(username))
	var events []rawEvent
	if err := s.client.getJSON(ctx, endpoint, &events); err != nil {
		return nil, fmt.Errorf("fetch events for %s: %w", username, err)
	}

	activities := make([]activity.Activity, 0, len(events))
	for _, event := range events {
		if !s.matchesOrganization(event) {
			continue
		}

		act, err := s.buildActivity(event)
		if err != nil {
			s.logger.Warn("skipping event", "type", event.Type, "error", err)
			continue
		}

		if !start.IsZero() && act.Timestamp.Before(start) {
			continue
		}
		if act.Timestamp.After(end) {
			continue
		}

		activities = append(activities, act)
	}

	s.logger.Info("activities retrieved", "count", len(activities))
	return activities, nil
}

// buildActivity normalizes one raw event; an error means "skip this event".
func (s *Source) buildActivity(event rawEvent) (activity.Activity, error) {
	ts, err := time.Parse(time.RFC3339, event.CreatedAt)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("parse created_at %q: %w", event.CreatedAt, err)
	}

	details := simplifyEvent(event, s.logger)
	return activity.Activity{
		Source:    sourceName,
		Timestamp: ts.UTC(),
		Type:      event.Type,
		Details:   details,
		Message:   eventMessage(event.Type, details, s.logger),
	}, nil
}

func (s *Source) matchesOrganization(event rawEvent) bool {
	if s.organization == "" {
		return true
	}
	return strings.HasPrefix(event.Repo.Name, s.organization+"/")
}
