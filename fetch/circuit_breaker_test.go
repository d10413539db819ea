package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestCircuitBreakerTripsAfterFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(WithHTTPClient(server.Client()), WithMaxRetries(0), WithBaseDelay(time.Millisecond))
	cb := NewCircuitBreakerClient(f)

	// Five consecutive failures trip the breaker.
	for i := 0; i < 5; i++ {
		if _, err := cb.GetText(context.Background(), server.URL); err == nil {
			t.Fatal("expected failure")
		}
	}

	before := calls.Load()
	_, err := cb.GetText(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected open-circuit error")
	}
	if !strings.Contains(err.Error(), "circuit breaker open") {
		t.Errorf("expected open-circuit error, got %v", err)
	}
	if calls.Load() != before {
		t.Error("open breaker should not reach the upstream")
	}

	states := cb.BreakerStates()
	if len(states) != 1 {
		t.Fatalf("expected 1 breaker, got %d", len(states))
	}
	for _, state := range states {
		if state != "open" {
			t.Errorf("expected open breaker, got %q", state)
		}
	}
}

func TestCircuitBreakerPerHost(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fine"))
	}))
	defer good.Close()

	f := NewFetcher(WithMaxRetries(0), WithBaseDelay(time.Millisecond), WithHTTPClient(http.DefaultClient))
	cb := NewCircuitBreakerClient(f)

	for i := 0; i < 6; i++ {
		cb.GetText(context.Background(), bad.URL)
	}

	// The breaker for the bad host must not affect the good host.
	body, err := cb.GetText(context.Background(), good.URL)
	if err != nil {
		t.Fatalf("good host failed: %v", err)
	}
	if body != "fine" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		{"https://github.com/foo/bar.git", "github.com"},
		{"https://pypi.org/pypi/requests/json", "pypi.org"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		if got := extractHost(tt.url); got != tt.want {
			t.Errorf("extractHost(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
