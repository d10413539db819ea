package core

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// memoryCache is a minimal ResultCache for batch tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]Outcome
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]Outcome)}
}

func (c *memoryCache) Get(key string) (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.entries[key]
	return o, ok
}

func (c *memoryCache) Set(key string, o Outcome, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = o
	c.sets++
}

func simplePackages(names ...string) []*Package {
	pkgs := make([]*Package, len(names))
	for i, n := range names {
		pkgs[i] = &Package{Name: n, Version: "1.0.0", URL: "https://example.com/" + n}
	}
	return pkgs
}

func TestCheckAllPreservesInputOrder(t *testing.T) {
	strat := &fakeStrategy{name: "any", priority: 50,
		find: func(_ context.Context, url, _ string) Extraction { return found(url, "2.0.0") }}
	pkgs := simplePackages("alpha", "beta", "gamma", "delta")

	records := CheckAll(context.Background(), pkgs, BatchOptions{
		CheckOptions: withStrategies(strat),
		Concurrency:  4,
	})

	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	for i, want := range []string{"alpha", "beta", "gamma", "delta"} {
		if records[i].Name != want {
			t.Errorf("record %d = %q, want %q", i, records[i].Name, want)
		}
	}
}

func TestCheckAllRecoversPanics(t *testing.T) {
	strat := &fakeStrategy{name: "any", priority: 50,
		find: func(_ context.Context, url, _ string) Extraction {
			if strings.Contains(url, "beta") {
				panic("boom")
			}
			return found(url, "2.0.0")
		}}
	pkgs := simplePackages("alpha", "beta", "gamma")

	records := CheckAll(context.Background(), pkgs, BatchOptions{
		CheckOptions: withStrategies(strat),
	})

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Status != StatusSuccess || records[2].Status != StatusSuccess {
		t.Error("healthy packages must report their true results")
	}
	if records[1].Status != StatusError {
		t.Fatalf("panicking package must report error, got %s", records[1].Status)
	}
	if !strings.Contains(strings.Join(records[1].Messages, " "), "boom") {
		t.Errorf("expected panic message, got %v", records[1].Messages)
	}
}

func TestCheckAllWritesThroughCache(t *testing.T) {
	strat := &fakeStrategy{name: "any", priority: 50,
		find: func(_ context.Context, url, _ string) Extraction { return found(url, "2.0.0") }}
	cache := newMemoryCache()
	pkgs := simplePackages("alpha")
	pkgs = append(pkgs, &Package{Name: "skipme", Check: &CheckConfig{Skip: true}})

	CheckAll(context.Background(), pkgs, BatchOptions{
		CheckOptions: withStrategies(strat),
		Cache:        cache,
	})

	if _, ok := cache.Get("alpha"); !ok {
		t.Error("successful outcome must be written through")
	}
	if _, ok := cache.Get("skipme"); ok {
		t.Error("skipped outcome must not be cached")
	}
}

func TestCheckAllDoesNotCacheErrors(t *testing.T) {
	strat := &fakeStrategy{name: "any", priority: 50,
		find: func(_ context.Context, url, _ string) Extraction {
			return Failed(url, "fetch timed out")
		}}
	cache := newMemoryCache()

	records := CheckAll(context.Background(), simplePackages("flaky"), BatchOptions{
		CheckOptions: withStrategies(strat),
		Cache:        cache,
	})

	if records[0].Status != StatusError {
		t.Fatalf("expected error, got %s", records[0].Status)
	}
	if _, ok := cache.Get("flaky"); ok {
		t.Error("error outcome must not be cached; the next run must re-check")
	}
	if cache.sets != 0 {
		t.Errorf("expected zero cache writes, got %d", cache.sets)
	}
}

func TestCheckAllInterruptDrainsInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var inflightErr error

	// The first dispatched check blocks until the batch context is cancelled,
	// then records whether its own context was cancelled with it.
	strat := &fakeStrategy{name: "any", priority: 50,
		find: func(ctx context.Context, url, _ string) Extraction {
			once.Do(func() {
				close(started)
				<-release
				inflightErr = ctx.Err()
			})
			return found(url, "2.0.0")
		}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan []Record, 1)
	go func() {
		done <- CheckAll(ctx, simplePackages("alpha", "beta"), BatchOptions{
			CheckOptions: withStrategies(strat),
			Concurrency:  1,
		})
	}()

	<-started
	cancel()
	close(release)
	records := <-done

	if inflightErr != nil {
		t.Errorf("in-flight check saw a cancelled context: %v", inflightErr)
	}

	successes, interrupted := 0, 0
	for _, rec := range records {
		switch rec.Status {
		case StatusSuccess:
			successes++
			if rec.Latest != "2.0.0" {
				t.Errorf("%s: drained check must report its true result, got %q", rec.Name, rec.Latest)
			}
		case StatusSkipped:
			interrupted++
			if !strings.Contains(strings.Join(rec.Messages, " "), "interrupted") {
				t.Errorf("%s: expected interrupted message, got %v", rec.Name, rec.Messages)
			}
		default:
			t.Errorf("%s: unexpected status %s", rec.Name, rec.Status)
		}
	}
	if successes != 1 || interrupted != 1 {
		t.Errorf("expected one drained and one interrupted record, got %d/%d", successes, interrupted)
	}
}

func TestCheckAllUsesCache(t *testing.T) {
	strat := &fakeStrategy{name: "any", priority: 50,
		find: func(_ context.Context, url, _ string) Extraction { return found(url, "2.0.0") }}
	cache := newMemoryCache()
	cache.Set("alpha", Outcome{Status: StatusSuccess, Current: "1.0.0", Latest: "9.9.9", Outdated: true}, 0)

	records := CheckAll(context.Background(), simplePackages("alpha"), BatchOptions{
		CheckOptions: withStrategies(strat),
		Cache:        cache,
	})

	if records[0].Latest != "9.9.9" {
		t.Errorf("expected cached outcome, got %+v", records[0].Outcome)
	}
	if strat.fetches.Load() != 0 {
		t.Error("cache hit must not fetch")
	}
}

func TestCheckAllFreshBypassesCacheRead(t *testing.T) {
	strat := &fakeStrategy{name: "any", priority: 50,
		find: func(_ context.Context, url, _ string) Extraction { return found(url, "2.0.0") }}
	cache := newMemoryCache()
	cache.Set("alpha", Outcome{Status: StatusSuccess, Latest: "9.9.9"}, 0)

	records := CheckAll(context.Background(), simplePackages("alpha"), BatchOptions{
		CheckOptions: withStrategies(strat),
		Cache:        cache,
		Fresh:        true,
	})

	if records[0].Latest != "2.0.0" {
		t.Errorf("fresh run must re-check, got latest %q", records[0].Latest)
	}
	if cache.sets != 2 { // seed + write-through
		t.Errorf("fresh outcome must still be written through, sets = %d", cache.sets)
	}
}

func TestCheckAllDeadline(t *testing.T) {
	strat := &fakeStrategy{name: "any", priority: 50,
		find: func(_ context.Context, url, _ string) Extraction { return found(url, "2.0.0") }}
	pkgs := simplePackages("alpha", "beta", "gamma")

	records := CheckAll(context.Background(), pkgs, BatchOptions{
		CheckOptions: withStrategies(strat),
		Deadline:     time.Now().Add(-time.Second),
	})

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.Status != StatusSkipped {
			t.Errorf("%s: expected skipped past deadline, got %s", rec.Name, rec.Status)
		}
		if !strings.Contains(strings.Join(rec.Messages, " "), "deadline") {
			t.Errorf("%s: expected deadline message, got %v", rec.Name, rec.Messages)
		}
	}
}

func TestCheckAllSequentialByDefault(t *testing.T) {
	var mu sync.Mutex
	active, maxActive := 0, 0
	strat := &fakeStrategy{name: "any", priority: 50,
		find: func(_ context.Context, url, _ string) Extraction {
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			return found(url, "2.0.0")
		}}

	CheckAll(context.Background(), simplePackages("a", "b", "c"), BatchOptions{
		CheckOptions: withStrategies(strat),
	})

	if maxActive != 1 {
		t.Errorf("default concurrency must be 1, observed %d in flight", maxActive)
	}
}
