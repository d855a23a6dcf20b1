package githubapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const baseWebURL = "https://github.com"

const (
	maxCommitMessages  = 3
	commentFragmentLen = 100
)

var titleCaser = cases.Title(language.English)

// rawEvent is one entry of the GitHub public events feed. The payload
// shape depends on the event type, so it stays raw until simplifyEvent
// picks the matching projection.
type rawEvent struct {
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload json.RawMessage `json:"payload"`
}

type pushPayload struct {
	Ref     string `json:"ref"`
	Before  string `json:"before"`
	Head    string `json:"head"`
	Commits []struct {
		Message string `json:"message"`
	} `json:"commits"`
}

type pullRequestPayload struct {
	Action      string `json:"action"`
	PullRequest struct {
		Title   string `json:"title"`
		Number  int    `json:"number"`
		State   string `json:"state"`
		HTMLURL string `json:"html_url"`
	} `json:"pull_request"`
}

type issuesPayload struct {
	Action string `json:"action"`
	Issue  struct {
		Title   string `json:"title"`
		Number  int    `json:"number"`
		HTMLURL string `json:"html_url"`
	} `json:"issue"`
}

type issueCommentPayload struct {
	Action string `json:"action"`
	Issue  struct {
		Number  int    `json:"number"`
		HTMLURL string `json:"html_url"`
	} `json:"issue"`
	Comment struct {
		Body    string `json:"body"`
		HTMLURL string `json:"html_url"`
	} `json:"comment"`
}

type refPayload struct {
	RefType string `json:"ref_type"`
	Ref     string `json:"ref"`
}

type watchPayload struct {
	Action string `json:"action"`
}

// errorDetails marks an event whose payload could not be processed.
func errorDetails() map[string]any {
	return map[string]any{"error": "Failed to process event details"}
}

// simplifyEvent projects a raw event into its type-specific details map.
// It never fails: a malformed payload degrades to the error marker and
// the failure is logged, so one bad event cannot abort a batch.
func simplifyEvent(event rawEvent, logger *slog.Logger) map[string]any {
	repo := event.Repo.Name
	if repo == "" {
		repo = "unknown"
	}
	repoURL := baseWebURL + "/" + repo

	details, err := simplifyPayload(event.Type, repo, repoURL, event.Payload)
	if err != nil {
		logger.Warn("failed to simplify event", "type", event.Type, "error", err)
		return errorDetails()
	}
	return details
}

func simplifyPayload(eventType, repo, repoURL string, payload json.RawMessage) (map[string]any, error) {
	switch eventType {
	case "PushEvent":
		var p pushPayload
		if err := unmarshalPayload(payload, &p); err != nil {
			return nil, err
		}
		messages := make([]string, 0, maxCommitMessages)
		for i, commit := range p.Commits {
			if i == maxCommitMessages {
				break
			}
			first, _, _ := strings.Cut(commit.Message, "\n")
			messages = append(messages, first)
		}
		return map[string]any{
			"repository":      repo,
			"repository_url":  repoURL,
			"ref":             orUnknown(p.Ref),
			"commit_count":    len(p.Commits),
			"commit_messages": messages,
			"compare_url":     fmt.Sprintf("%s/compare/%s...%s", repoURL, p.Before, p.Head),
		}, nil

	case "PullRequestEvent":
		var p pullRequestPayload
		if err := unmarshalPayload(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{
			"action":         orUnknown(p.Action),
			"title":          orUnknown(p.PullRequest.Title),
			"number":         p.PullRequest.Number,
			"repository":     repo,
			"repository_url": repoURL,
			"state":          orUnknown(p.PullRequest.State),
			"url":            p.PullRequest.HTMLURL,
		}, nil

	case "IssuesEvent":
		var p issuesPayload
		if err := unmarshalPayload(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{
			"action":         orUnknown(p.Action),
			"title":          orUnknown(p.Issue.Title),
			"number":         p.Issue.Number,
			"repository":     repo,
			"repository_url": repoURL,
			"url":            p.Issue.HTMLURL,
		}, nil

	case "IssueCommentEvent":
		var p issueCommentPayload
		if err := unmarshalPayload(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{
			"action":           orUnknown(p.Action),
			"issue_number":     p.Issue.Number,
			"repository":       repo,
			"repository_url":   repoURL,
			"comment_fragment": truncateRunes(p.Comment.Body, commentFragmentLen) + "...",
			"url":              p.Comment.HTMLURL,
			"issue_url":        p.Issue.HTMLURL,
		}, nil

	case "CreateEvent":
		var p refPayload
		if err := unmarshalPayload(payload, &p); err != nil {
			return nil, err
		}
		refType := orUnknown(p.RefType)
		ref := orUnknown(p.Ref)
		var url string
		switch refType {
		case "branch":
			url = repoURL + "/tree/" + ref
		case "tag":
			url = repoURL + "/releases/tag/" + ref
		default:
			url = repoURL
		}
		return map[string]any{
			"ref_type":       refType,
			"ref":            ref,
			"repository":     repo,
			"repository_url": repoURL,
			"url":            url,
		}, nil

	case "DeleteEvent":
		var p refPayload
		if err := unmarshalPayload(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{
			"ref_type":       orUnknown(p.RefType),
			"ref":            orUnknown(p.Ref),
			"repository":     repo,
			"repository_url": repoURL,
		}, nil

	case "WatchEvent":
		var p watchPayload
		if err := unmarshalPayload(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{
			"action":         orUnknown(p.Action),
			"repository":     repo,
			"repository_url": repoURL,
		}, nil

	default:
		return map[string]any{
			"event_type":     eventType,
			"repository":     repo,
			"repository_url": repoURL,
		}, nil
	}
}

// eventMessage renders the one-line human summary for a simplified event.
// It reads only the details map. A missing or mistyped detail degrades to
// a generic "Performed <type>" line and a warning.
func eventMessage(eventType string, details map[string]any, logger *slog.Logger) string {
	msg, err := messageFor(eventType, details)
	if err != nil {
		logger.Warn("failed to build event message", "type", eventType, "error", err)
		return "Performed " + eventType
	}
	return msg
}

func messageFor(eventType string, details map[string]any) (string, error) {
	switch eventType {
	case "PushEvent":
		count, err := detailInt(details, "commit_count")
		if err != nil {
			return "", err
		}
		repo, err := detailString(details, "repository")
		if err != nil {
			return "", err
		}
		ref, err := detailString(details, "ref")
		if err != nil {
			return "", err
		}
		branch := strings.TrimPrefix(ref, "refs/heads/")

		msgs, err := detailStringSlice(details, "commit_messages")
		if err != nil {
			return "", err
		}

		noun := "commits"
		if count == 1 {
			noun = "commit"
		}
		var suffix string
		if len(msgs) > 0 {
			suffix = ": " + msgs[0]
		}
		return fmt.Sprintf("Pushed %d %s to %s/%s%s", count, noun, repo, branch, suffix), nil

	case "PullRequestEvent":
		action, err := detailString(details, "action")
		if err != nil {
			return "", err
		}
		title, err := detailString(details, "title")
		if err != nil {
			return "", err
		}
		number, err := detailInt(details, "number")
		if err != nil {
			return "", err
		}
		repo, err := detailString(details, "repository")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s PR #%d in %s: %s", titleCaser.String(action), number, repo, title), nil

	case "IssuesEvent":
		action, err := detailString(details, "action")
		if err != nil {
			return "", err
		}
		title, err := detailString(details, "title")
		if err != nil {
			return "", err
		}
		number, err := detailInt(details, "number")
		if err != nil {
			return "", err
		}
		repo, err := detailString(details, "repository")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s issue #%d in %s: %s", titleCaser.String(action), number, repo, title), nil

	case "IssueCommentEvent":
		number, err := detailInt(details, "issue_number")
		if err != nil {
			return "", err
		}
		repo, err := detailString(details, "repository")
		if err != nil {
			return "", err
		}
		fragment, err := detailString(details, "comment_fragment")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Commented on issue #%d in %s: %s", number, repo, fragment), nil

	case "CreateEvent", "DeleteEvent":
		refType, err := detailString(details, "ref_type")
		if err != nil {
			return "", err
		}
		ref, err := detailString(details, "ref")
		if err != nil {
			return "", err
		}
		repo, err := detailString(details, "repository")
		if err != nil {
			return "", err
		}
		verb := "Created"
		if eventType == "DeleteEvent" {
			verb = "Deleted"
		}
		return fmt.Sprintf("%s %s %s in %s", verb, refType, ref, repo), nil

	case "WatchEvent":
		repo, err := detailString(details, "repository")
		if err != nil {
			return "", err
		}
		return "Starred repository " + repo, nil

	default:
		repo, err := detailString(details, "repository")
		if err != nil {
			repo = "unknown repository"
		}
		return fmt.Sprintf("Performed %s on %s", eventType, repo), nil
	}
}

func unmarshalPayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, v)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// truncateRunes keeps at most n runes of s, so multibyte comment bodies
// are never split mid-character.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func detailString(details map[string]any, key string) (string, error) {
	v, ok := details[key]
	if !ok {
		return "", fmt.Errorf("missing detail %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("detail %q is not a string", key)
	}
	return s, nil
}

func detailStringSlice(details map[string]any, key string) ([]string, error) {
	switch v := details[key].(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("detail %q is not a list of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("missing detail %q", key)
	default:
		return nil, fmt.Errorf("detail %q is not a list of strings", key)
	}
}

func detailInt(details map[string]any, key string) (int, error) {
	switch v := details[key].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case nil:
		return 0, fmt.Errorf("missing detail %q", key)
	default:
		return 0, fmt.Errorf("detail %q is not a number", key)
	}
}
