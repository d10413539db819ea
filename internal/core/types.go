// Package core provides shared types, the strategy system and the check
// orchestration for upstream version discovery.
package core

import (
	"github.com/pkgscout/pkgscout/version"
)

// Package describes a tracked package. It is read-only to this system: the
// metadata repository that produced it owns its lifecycle.
type Package struct {
	Name     string
	Version  string // declared current version; "" for HEAD-only packages
	Homepage string

	URL     string   // stable source URL
	Mirrors []string // stable mirrors, in preference order

	HeadURL    string // development branch URL, if the package tracks one
	HeadCommit string // commit currently in use; "" when not installed from HEAD
	HeadOnly   bool   // package has no stable release, only HEAD

	Deprecated bool
	Pinned     bool
	Versioned  bool // versioned alias of another package (e.g. foo@1.4)

	Check *CheckConfig // explicit check configuration, or nil
}

// CheckConfig is a package's explicit check configuration. Every field is
// optional; zero values defer to the default discovery pipeline.
type CheckConfig struct {
	URL        string // check this URL exclusively instead of the package's URLs
	Strategy   string // force a strategy by name
	Regex      string // extraction regex, required by the pagematch strategy
	Skip       bool
	SkipReason string
	Transform  string // transform applied to the declared version: "strip-v", "underscores-to-dots"

	AllowUnstable bool // consider pre-release versions
	Force         bool // check even if deprecated, pinned or versioned
}

// Status classifies a check outcome.
type Status string

const (
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
	StatusSkipped    Status = "skipped"
	StatusDeprecated Status = "deprecated"
	StatusVersioned  Status = "versioned"
)

// Extraction is the result of one strategy run against one URL. A failed
// fetch or parse is expressed as empty Matches plus a diagnostic message,
// never as an error.
type Extraction struct {
	// Matches maps the matched text (tag name, filename, page fragment) to
	// the version extracted from it.
	Matches map[string]version.Version

	Messages []string

	// ResolvedURL and ResolvedRegex record what the strategy actually used,
	// for diagnostics.
	ResolvedURL   string
	ResolvedRegex string
}

// NewExtraction returns an Extraction with an initialized match map.
func NewExtraction(url string) Extraction {
	return Extraction{Matches: make(map[string]version.Version), ResolvedURL: url}
}

// Failed returns an Extraction carrying only a diagnostic message.
func Failed(url, msg string) Extraction {
	return Extraction{ResolvedURL: url, Messages: []string{msg}}
}

// Meta carries diagnostic metadata about how an outcome was produced.
type Meta struct {
	Strategy string   `json:"strategy,omitempty"`
	URLs     []string `json:"urls,omitempty"`
	Regex    string   `json:"regex,omitempty"`
}

// Outcome is the result of checking one package. It is produced fresh by
// Check or replayed from the result cache.
type Outcome struct {
	Status            Status   `json:"status"`
	Current           string   `json:"current,omitempty"`
	Latest            string   `json:"latest,omitempty"`
	Outdated          bool     `json:"outdated"`
	NewerThanUpstream bool     `json:"newer_than_upstream"`
	Messages          []string `json:"messages,omitempty"`
	Meta              Meta     `json:"meta"`
}
