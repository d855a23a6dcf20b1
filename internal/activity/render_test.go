package activity

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func sampleActivities() []Activity {
	return []Activity{
		{
			Source:    "github",
			Timestamp: time.Date(2024, 5, 3, 10, 30, 0, 0, time.UTC),
			Type:      "PushEvent",
			Details: map[string]any{
				"repository":     "acme/widgets",
				"repository_url": "https://github.com/acme/widgets",
				"commit_count":   2,
			},
			Message: "Pushed 2 commits to acme/widgets/main",
		},
		{
			Source:    "github",
			Timestamp: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
			Type:      "WatchEvent",
			Details: map[string]any{
				"action":         "started",
				"repository":     "acme/tools",
				"repository_url": "https://github.com/acme/tools",
			},
			Message: "Starred repository acme/tools",
		},
	}
}

func TestRenderPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPretty(&buf, sampleActivities()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "2024-05-03 10:30:00") {
		t.Errorf("expected formatted timestamp, got:\n%s", out)
	}
	if !strings.Contains(out, "github: Pushed 2 commits to acme/widgets/main") {
		t.Errorf("expected source and message line, got:\n%s", out)
	}

	blocks := strings.Split(strings.TrimRight(out, "\n"), "\n\n")
	if len(blocks) != 2 {
		t.Errorf("expected 2 blocks, got %d", len(blocks))
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	original := sampleActivities()

	var buf bytes.Buffer
	if err := RenderJSON(&buf, original); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	var parsed []Activity
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(parsed) != len(original) {
		t.Fatalf("expected %d activities, got %d", len(original), len(parsed))
	}

	for i := range original {
		if parsed[i].Source != original[i].Source {
			t.Errorf("activity %d: source mismatch: %q != %q", i, parsed[i].Source, original[i].Source)
		}
		if parsed[i].Type != original[i].Type {
			t.Errorf("activity %d: type mismatch: %q != %q", i, parsed[i].Type, original[i].Type)
		}
		if parsed[i].Message != original[i].Message {
			t.Errorf("activity %d: message mismatch: %q != %q", i, parsed[i].Message, original[i].Message)
		}
		if !parsed[i].Timestamp.Equal(original[i].Timestamp) {
			t.Errorf("activity %d: timestamp mismatch: %v != %v", i, parsed[i].Timestamp, original[i].Timestamp)
		}

		// Numeric detail values decode as float64, so compare the
		// re-serialized form instead of the maps themselves.
		a, err := json.Marshal(parsed[i].Details)
		if err != nil {
			t.Fatalf("marshal parsed details: %v", err)
		}
		b, err := json.Marshal(original[i].Details)
		if err != nil {
			t.Fatalf("marshal original details: %v", err)
		}
		var av, bv any
		if err := json.Unmarshal(a, &av); err != nil {
			t.Fatalf("unmarshal parsed details: %v", err)
		}
		if err := json.Unmarshal(b, &bv); err != nil {
			t.Fatalf("unmarshal original details: %v", err)
		}
		if !reflect.DeepEqual(av, bv) {
			t.Errorf("activity %d: details mismatch: %v != %v", i, av, bv)
		}
	}
}

func TestRenderJSONTimestampsAreISO8601(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderJSON(&buf, sampleActivities()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.Contains(buf.String(), `"2024-05-03T10:30:00Z"`) {
		t.Errorf("expected RFC 3339 timestamp in output, got:\n%s", buf.String())
	}
}
