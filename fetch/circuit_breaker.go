package fetch

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// CircuitBreakerClient wraps a Fetcher with per-host circuit breakers, so a
// dead upstream fails fast instead of stalling every package that points at
// it during a batch run.
type CircuitBreakerClient struct {
	fetcher  *Fetcher
	breakers map[string]*circuit.Breaker
	mu       sync.RWMutex
}

// NewCircuitBreakerClient creates a circuit breaker wrapper for a fetcher.
func NewCircuitBreakerClient(f *Fetcher) *CircuitBreakerClient {
	return &CircuitBreakerClient{
		fetcher:  f,
		breakers: make(map[string]*circuit.Breaker),
	}
}

// getBreaker returns or creates a circuit breaker for the given host.
func (c *CircuitBreakerClient) getBreaker(host string) *circuit.Breaker {
	c.mu.RLock()
	breaker, exists := c.breakers[host]
	c.mu.RUnlock()

	if exists {
		return breaker
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if breaker, exists := c.breakers[host]; exists {
		return breaker
	}

	// Trips after 5 consecutive failures, resets with exponential backoff.
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	opts := &circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	}
	breaker = circuit.NewBreakerWithOptions(opts)

	c.breakers[host] = breaker
	return breaker
}

// GetText wraps the underlying fetcher's GetText with circuit breaker logic.
func (c *CircuitBreakerClient) GetText(ctx context.Context, fetchURL string) (string, error) {
	host := extractHost(fetchURL)
	breaker := c.getBreaker(host)

	if !breaker.Ready() {
		return "", fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}

	var body string
	err := breaker.Call(func() error {
		var fetchErr error
		body, fetchErr = c.fetcher.GetText(ctx, fetchURL)
		return fetchErr
	}, 0)
	if err != nil {
		return "", err
	}
	return body, nil
}

// GetJSON wraps the underlying fetcher's GetJSON with circuit breaker logic.
func (c *CircuitBreakerClient) GetJSON(ctx context.Context, fetchURL string, v any) error {
	host := extractHost(fetchURL)
	breaker := c.getBreaker(host)

	if !breaker.Ready() {
		return fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}

	return breaker.Call(func() error {
		return c.fetcher.GetJSON(ctx, fetchURL, v)
	}, 0)
}

// extractHost extracts a host identifier from a URL for breaker grouping.
func extractHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		// Fallback to simple truncation
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}

// BreakerStates returns the current state of every breaker, for diagnostics.
func (c *CircuitBreakerClient) BreakerStates() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	states := make(map[string]string)
	for host, breaker := range c.breakers {
		if breaker.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}
