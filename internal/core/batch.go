package core

import (
	"fmt"
	"sync"
	"time"

	"context"

	"github.com/charmbracelet/log"
)

// ResultCache memoizes check outcomes across runs. The cache package
// provides the production implementation.
type ResultCache interface {
	Get(key string) (Outcome, bool)
	Set(key string, o Outcome, ttl time.Duration)
}

// BatchOptions configures a batch run over many packages.
type BatchOptions struct {
	CheckOptions

	// Concurrency bounds the worker pool; values below 1 run sequentially.
	Concurrency int

	// Deadline, when set, is checked cooperatively before each package is
	// dispatched. Packages not started by the deadline are reported as
	// skipped; in-flight checks drain.
	Deadline time.Time

	// Cache, when set, is consulted before checking and written through on
	// success outcomes. Errors and skip-family outcomes are never cached, so
	// a transient failure does not suppress re-checking for a whole TTL.
	Cache ResultCache

	// TTL is the cache validity window for fresh outcomes. Zero uses the
	// cache's default.
	TTL time.Duration

	// Fresh bypasses cache reads; write-through still happens.
	Fresh bool

	// Logger, when set, receives per-package progress at debug level.
	Logger *log.Logger
}

// CheckAll checks every package and returns one Record per package, in input
// order. A panic inside a single check is recovered into an error outcome;
// no package can abort the batch.
//
// ctx gates dispatch only: cancelling it stops new packages from starting,
// while already-dispatched checks run to completion.
func CheckAll(ctx context.Context, pkgs []*Package, opts BatchOptions) []Record {
	records := make([]Record, len(pkgs))

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, pkg := range pkgs {
		wg.Add(1)
		go func(i int, pkg *Package) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				records[i] = Record{Name: pkg.Name, Outcome: Outcome{
					Status:   StatusSkipped,
					Messages: []string{"not checked: interrupted"},
				}}
				return
			}

			// Winning the semaphore after cancellation still counts as not
			// dispatched.
			if ctx.Err() != nil {
				records[i] = Record{Name: pkg.Name, Outcome: Outcome{
					Status:   StatusSkipped,
					Messages: []string{"not checked: interrupted"},
				}}
				return
			}

			// Cooperative deadline: packages whose turn comes after the
			// deadline are abandoned, never started. In-flight checks drain.
			if !opts.Deadline.IsZero() && !time.Now().Before(opts.Deadline) {
				records[i] = Record{Name: pkg.Name, Outcome: Outcome{
					Status:   StatusSkipped,
					Messages: []string{"not checked: batch deadline exceeded"},
				}}
				return
			}

			// A worker that won the semaphore drains: the check runs on an
			// uncancelled context, bounded only by the per-fetch timeout.
			records[i] = Record{Name: pkg.Name, Outcome: checkOne(context.WithoutCancel(ctx), pkg, opts)}
		}(i, pkg)
	}

	wg.Wait()
	return records
}

// checkOne runs a single cached check, converting any panic into an error
// outcome.
func checkOne(ctx context.Context, pkg *Package, opts BatchOptions) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Status:   StatusError,
				Messages: []string{fmt.Sprintf("internal error: %v", r)},
			}
		}
	}()

	if opts.Cache != nil && !opts.Fresh {
		if cached, ok := opts.Cache.Get(pkg.Name); ok {
			if opts.Logger != nil {
				opts.Logger.Debug("cache hit", "package", pkg.Name)
			}
			return cached
		}
	}

	if opts.Logger != nil {
		opts.Logger.Debug("checking", "package", pkg.Name)
	}
	out = Check(ctx, pkg, opts.CheckOptions)

	if out.Status == StatusSuccess && opts.Cache != nil {
		opts.Cache.Set(pkg.Name, out, opts.TTL)
	}
	return out
}
