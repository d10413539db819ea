package core

import (
	"context"
	"sort"
	"sync"
)

// Client is the fetch capability strategies depend on. The fetch package
// provides the production implementation; tests substitute fakes.
type Client interface {
	// GetText fetches url and returns the response body as text.
	GetText(ctx context.Context, url string) (string, error)

	// GetJSON fetches url and decodes the JSON response body into v.
	GetJSON(ctx context.Context, url string, v any) error
}

// Strategy is one extraction rule: it knows which URLs it can handle and how
// to turn such a URL into version candidates.
//
// FindVersions performs I/O under the caller's context. It never returns an
// error: fetch and parse failures become an Extraction with empty Matches
// and a diagnostic message, and the orchestrator decides what to do next.
type Strategy interface {
	Name() string

	// Priority orders strategy selection; higher wins. Multiple strategies
	// may apply to the same URL.
	Priority() int

	AppliesTo(url string) bool

	// FindVersions fetches url and extracts version candidates. regex is the
	// package's explicit extraction regex, or "" to use the strategy default.
	FindVersions(ctx context.Context, url, regex string) Extraction
}

// RawMatcher is implemented by strategies that match against the page at the
// URL exactly as configured. The orchestrator must not preprocess candidate
// URLs when such a strategy is forced for a package.
type RawMatcher interface {
	UsesRawURL() bool
}

// RegexRequirer is implemented by strategies that cannot extract anything
// without an explicit package regex. The orchestrator passes over such a
// strategy when the package supplies none.
type RegexRequirer interface {
	RequiresRegex() bool
}

// HeadResolver is implemented by strategies that can resolve the latest
// commit of a development branch, for HEAD-only packages.
type HeadResolver interface {
	// FindLatestCommit returns the tip commit id of the branch behind url,
	// plus any diagnostic messages. An empty commit means failure.
	FindLatestCommit(ctx context.Context, url string) (commit string, messages []string)
}

// Factory creates a strategy instance bound to a client.
type Factory func(client Client) Strategy

var (
	factories []Factory
	mu        sync.RWMutex
)

// Register adds a strategy factory to the global registry. Strategies call
// this from init(); the registry is read-only once the program is running.
func Register(factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories = append(factories, factory)
}

// Strategies instantiates every registered strategy bound to client, ordered
// by descending priority with ties broken by name so selection is
// deterministic regardless of import order.
func Strategies(client Client) []Strategy {
	mu.RLock()
	fs := make([]Factory, len(factories))
	copy(fs, factories)
	mu.RUnlock()

	out := make([]Strategy, 0, len(fs))
	for _, f := range fs {
		out = append(out, f(client))
	}
	sortStrategies(out)
	return out
}

func sortStrategies(out []Strategy) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority() != out[j].Priority() {
			return out[i].Priority() > out[j].Priority()
		}
		return out[i].Name() < out[j].Name()
	})
}

// SelectStrategy picks the strategy for url. When forced is non-empty the
// named strategy is used only if it also applies to url; otherwise selection
// falls through to the first applying strategy in priority order. A nil
// return means no strategy can handle this URL.
func SelectStrategy(strategies []Strategy, url, forced string) (Strategy, error) {
	if forced != "" {
		var found bool
		for _, s := range strategies {
			if s.Name() != forced {
				continue
			}
			found = true
			if s.AppliesTo(url) {
				return s, nil
			}
		}
		if !found {
			return nil, &UnknownStrategyError{Name: forced}
		}
		return nil, nil
	}
	for _, s := range strategies {
		if s.AppliesTo(url) {
			return s, nil
		}
	}
	return nil, nil
}

// StrategyNames returns the registered strategy names in selection order.
func StrategyNames(client Client) []string {
	ss := Strategies(client)
	names := make([]string, len(ss))
	for i, s := range ss {
		names[i] = s.Name()
	}
	return names
}
