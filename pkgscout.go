// Package pkgscout determines whether tracked packages have newer upstream
// releases available.
//
// Given a package's metadata (current version, homepage, source URLs,
// optional explicit check configuration), it fetches candidate upstream
// locations, extracts version strings through a pluggable set of discovery
// strategies, and reports the highest version found together with an
// outdated/current verdict.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/pkgscout/pkgscout"
//		_ "github.com/pkgscout/pkgscout/all"
//	)
//
//	pkg := &pkgscout.Package{
//		Name:    "jq",
//		Version: "1.7.1",
//		URL:     "https://github.com/jqlang/jq/releases/download/jq-1.7.1/jq-1.7.1.tar.gz",
//	}
//	out := pkgscout.Check(context.Background(), pkg, pkgscout.CheckOptions{
//		Client: pkgscout.DefaultClient(),
//	})
//	fmt.Println(out.Latest, out.Outdated)
//
// Strategies register themselves at init time; import the ones you need
// individually, or blank-import the all subpackage for every built-in.
package pkgscout

import (
	"context"

	"github.com/pkgscout/pkgscout/fetch"
	"github.com/pkgscout/pkgscout/internal/core"
)

// Re-export types from internal/core
type (
	// Package describes a tracked package, read-only to this system.
	Package = core.Package

	// CheckConfig is a package's explicit check configuration.
	CheckConfig = core.CheckConfig

	// Status classifies a check outcome.
	Status = core.Status

	// Outcome is the result of checking one package.
	Outcome = core.Outcome

	// Meta carries diagnostic metadata about how an outcome was produced.
	Meta = core.Meta

	// Extraction is the result of one strategy run against one URL.
	Extraction = core.Extraction

	// Strategy is one pluggable extraction rule.
	Strategy = core.Strategy

	// Client is the fetch capability strategies depend on.
	Client = core.Client

	// CheckOptions configures a single package check.
	CheckOptions = core.CheckOptions

	// BatchOptions configures a batch run over many packages.
	BatchOptions = core.BatchOptions

	// ResultCache memoizes check outcomes across runs.
	ResultCache = core.ResultCache

	// Record pairs a package name with its check outcome.
	Record = core.Record

	// Report aggregates the records of one batch run.
	Report = core.Report
)

// Re-export constants
const (
	StatusSuccess    = core.StatusSuccess
	StatusError      = core.StatusError
	StatusSkipped    = core.StatusSkipped
	StatusDeprecated = core.StatusDeprecated
	StatusVersioned  = core.StatusVersioned
)

// DefaultClient returns the production fetch capability: a retrying fetcher
// with DNS caching, wrapped in per-host circuit breakers.
func DefaultClient() Client {
	return fetch.NewCircuitBreakerClient(fetch.NewFetcher())
}

// Check determines whether pkg has a newer upstream version. It never
// returns an error: every failure mode is expressed in the Outcome.
func Check(ctx context.Context, pkg *Package, opts CheckOptions) Outcome {
	return core.Check(ctx, pkg, opts)
}

// CheckAll checks every package, optionally concurrently and through a
// result cache, and returns a report with one record per package in input
// order.
func CheckAll(ctx context.Context, pkgs []*Package, opts BatchOptions) Report {
	return Report{Records: core.CheckAll(ctx, pkgs, opts)}
}

// PreprocessURL rewrites a source URL into its canonical repository form
// when it matches a known forge release/archive shape.
func PreprocessURL(url string) string {
	return core.PreprocessURL(url)
}

// StrategyNames returns the registered strategy names in selection order.
// Note: strategies must be imported to be registered.
func StrategyNames() []string {
	return core.StrategyNames(nil)
}
