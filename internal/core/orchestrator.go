package core

import (
	"context"
	"strings"
	"time"

	"github.com/pkgscout/pkgscout/version"
)

// CheckOptions configures a single package check.
type CheckOptions struct {
	// Client performs fetches for the strategies. Required.
	Client Client

	// Timeout bounds each strategy fetch. Zero means no per-fetch bound
	// beyond the caller's context.
	Timeout time.Duration

	// Strategies overrides the registered strategy set; nil uses the global
	// registry bound to Client.
	Strategies []Strategy
}

// Check determines whether pkg has a newer upstream version. It performs a
// single pass over the package's candidate URLs and never returns an error:
// every failure mode is expressed in the Outcome.
func Check(ctx context.Context, pkg *Package, opts CheckOptions) Outcome {
	cfg := pkg.Check
	if cfg == nil {
		cfg = &CheckConfig{}
	}

	// Skip conditions, in fixed priority. First match wins and no strategy
	// work happens at all.
	if cfg.Skip {
		reason := cfg.SkipReason
		if reason == "" {
			reason = "skipped by configuration"
		}
		return Outcome{Status: StatusSkipped, Messages: []string{reason}}
	}
	if pkg.Deprecated && !cfg.Force {
		return Outcome{Status: StatusDeprecated, Messages: []string{"deprecated"}}
	}
	if (pkg.Pinned || pkg.Versioned) && !cfg.Force {
		return Outcome{Status: StatusVersioned, Messages: []string{"versioned"}}
	}
	if pkg.HeadOnly && pkg.HeadCommit == "" {
		return Outcome{Status: StatusSkipped, Messages: []string{"HEAD only, not installed"}}
	}

	current := currentVersion(pkg, cfg)

	strategies := opts.Strategies
	if strategies == nil {
		strategies = Strategies(opts.Client)
	}

	if current.IsHEAD() {
		return checkHead(ctx, pkg, cfg, current, strategies, opts)
	}
	return checkRelease(ctx, pkg, cfg, current, strategies, opts)
}

// currentVersion resolves the package's current version in override order:
// explicit string, HEAD commit, transformed declared version, declared
// version verbatim.
func currentVersion(pkg *Package, cfg *CheckConfig) version.Version {
	if pkg.HeadOnly && pkg.HeadCommit != "" {
		return version.NewHEAD(pkg.HeadCommit)
	}
	declared := pkg.Version
	switch cfg.Transform {
	case "strip-v":
		declared = strings.TrimPrefix(declared, "v")
	case "underscores-to-dots":
		declared = strings.ReplaceAll(declared, "_", ".")
	}
	return version.Parse(declared)
}

// candidateURLs builds the ordered, deduplicated URL list for pkg. An
// explicit override URL is used exclusively. Gist URLs are never candidates.
func candidateURLs(pkg *Package, cfg *CheckConfig) []string {
	var raw []string
	if cfg.URL != "" {
		raw = []string{cfg.URL}
	} else {
		raw = append(raw, pkg.HeadURL, pkg.URL)
		raw = append(raw, pkg.Mirrors...)
		raw = append(raw, pkg.Homepage)
	}

	seen := make(map[string]bool)
	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		if u == "" || seen[u] || IsGist(u) {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}

// checkRelease runs the strategy pipeline over the candidate URLs and stops
// at the first URL that yields at least one usable version.
func checkRelease(ctx context.Context, pkg *Package, cfg *CheckConfig, current version.Version, strategies []Strategy, opts CheckOptions) Outcome {
	urls := candidateURLs(pkg, cfg)

	// When the forced strategy matches raw page content, candidate URLs must
	// reach it exactly as configured.
	rawForced := false
	if cfg.Strategy != "" {
		for _, s := range strategies {
			if s.Name() == cfg.Strategy {
				if rm, ok := s.(RawMatcher); ok {
					rawForced = rm.UsesRawURL()
				}
				break
			}
		}
	}

	meta := Meta{Regex: cfg.Regex}
	var messages []string

	for i, u := range urls {
		last := i == len(urls)-1

		target := u
		if !rawForced {
			target = PreprocessURL(u)
		}
		meta.URLs = append(meta.URLs, target)

		strat, err := SelectStrategy(strategies, target, cfg.Strategy)
		if err != nil {
			return Outcome{
				Status:   StatusError,
				Current:  current.String(),
				Messages: []string{err.Error()},
				Meta:     meta,
			}
		}
		if strat == nil {
			continue
		}
		if rr, ok := strat.(RegexRequirer); ok && rr.RequiresRegex() && cfg.Regex == "" {
			continue
		}

		res := findVersions(ctx, strat, target, cfg.Regex, opts.Timeout)
		if res.ResolvedRegex != "" {
			meta.Regex = res.ResolvedRegex
		}

		if len(res.Matches) == 0 {
			if len(res.Messages) > 0 {
				messages = append(messages, res.Messages...)
				if last {
					return Outcome{
						Status:   StatusError,
						Current:  current.String(),
						Messages: messages,
						Meta:     meta,
					}
				}
			}
			continue
		}

		candidates := make([]version.Version, 0, len(res.Matches))
		for _, v := range res.Matches {
			if v.Unstable() && !cfg.AllowUnstable {
				continue
			}
			candidates = append(candidates, v)
		}
		if len(candidates) == 0 {
			continue
		}

		latest := version.Max(candidates)
		meta.Strategy = strat.Name()
		return Outcome{
			Status:            StatusSuccess,
			Current:           current.String(),
			Latest:            latest.String(),
			Outdated:          version.Compare(current, latest) < 0,
			NewerThanUpstream: version.Compare(current, latest) > 0,
			Messages:          messages,
			Meta:              meta,
		}
	}

	messages = append(messages, ErrNoVersions.Error())
	return Outcome{
		Status:   StatusError,
		Current:  current.String(),
		Messages: messages,
		Meta:     meta,
	}
}

// checkHead handles HEAD-only packages: the only question is whether the
// upstream branch tip still matches the commit in use. Ordering against
// release versions is deliberately out of scope.
func checkHead(ctx context.Context, pkg *Package, cfg *CheckConfig, current version.Version, strategies []Strategy, opts CheckOptions) Outcome {
	urls := candidateURLs(pkg, cfg)
	meta := Meta{}
	var messages []string

	for i, u := range urls {
		last := i == len(urls)-1
		target := PreprocessURL(u)
		meta.URLs = append(meta.URLs, target)

		strat, err := SelectStrategy(strategies, target, cfg.Strategy)
		if err != nil {
			return Outcome{Status: StatusError, Current: current.String(), Messages: []string{err.Error()}, Meta: meta}
		}
		hr, ok := strat.(HeadResolver)
		if !ok {
			continue
		}

		fctx := ctx
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		commit, msgs := hr.FindLatestCommit(fctx, target)
		if commit == "" {
			messages = append(messages, msgs...)
			if last && len(msgs) > 0 {
				return Outcome{Status: StatusError, Current: current.String(), Messages: messages, Meta: meta}
			}
			continue
		}

		latest := version.NewHEAD(commit)
		meta.Strategy = strat.Name()
		return Outcome{
			Status:   StatusSuccess,
			Current:  current.Commit(),
			Latest:   latest.Commit(),
			Outdated: !current.SameCommit(latest),
			Messages: messages,
			Meta:     meta,
		}
	}

	messages = append(messages, ErrNoVersions.Error())
	return Outcome{Status: StatusError, Current: current.Commit(), Messages: messages, Meta: meta}
}

// findVersions invokes one strategy under the per-fetch timeout.
func findVersions(ctx context.Context, strat Strategy, url, regex string, timeout time.Duration) Extraction {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return strat.FindVersions(ctx, url, regex)
}
