package githubapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	c := NewClient("test-token", 3, 10*time.Millisecond, discardLogger())
	c.baseURL = baseURL
	return c
}

func TestGetJSONRetriesOn429(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"login": "octocat"}`))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	c.httpClient = ts.Client()

	var out struct {
		Login string `json:"login"`
	}
	if err := c.getJSON(context.Background(), ts.URL+"/user", &out); err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if out.Login != "octocat" {
		t.Errorf("expected login 'octocat', got %q", out.Login)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestGetJSONExhaustsRetries(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	c.httpClient = ts.Client()

	err := c.getJSON(context.Background(), ts.URL+"/user", nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("expected final status in error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestGetJSONNoRetryOnClientError(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	c.httpClient = ts.Client()

	if err := c.getJSON(context.Background(), ts.URL+"/user", nil); err == nil {
		t.Fatal("expected error on 401")
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}
}

func TestGetJSONSendsAuthHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer auth header, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("unexpected accept header: %q", got)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	c.httpClient = ts.Client()

	if err := c.getJSON(context.Background(), ts.URL+"/user", nil); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}
