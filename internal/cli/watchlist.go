package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pkgscout/pkgscout"
)

// Watchlist is the TOML file describing what to check and how.
type Watchlist struct {
	CacheDir    string   `toml:"cache_dir"`
	CacheTTL    duration `toml:"cache_ttl"`
	Concurrency int      `toml:"concurrency"`
	Timeout     duration `toml:"timeout"`
	Redis       string   `toml:"redis"` // optional shared cache, host:port

	Packages []PackageEntry `toml:"package"`
}

// PackageEntry is one tracked package in the watchlist.
type PackageEntry struct {
	Name     string   `toml:"name"`
	Version  string   `toml:"version"`
	Homepage string   `toml:"homepage"`
	URL      string   `toml:"url"`
	Mirrors  []string `toml:"mirrors"`

	HeadURL    string `toml:"head_url"`
	HeadCommit string `toml:"head_commit"`
	HeadOnly   bool   `toml:"head_only"`

	Deprecated bool `toml:"deprecated"`
	Pinned     bool `toml:"pinned"`
	Versioned  bool `toml:"versioned"`

	Check *CheckEntry `toml:"check"`
}

// CheckEntry is the explicit check configuration for one package.
type CheckEntry struct {
	URL           string `toml:"url"`
	Strategy      string `toml:"strategy"`
	Regex         string `toml:"regex"`
	Skip          bool   `toml:"skip"`
	SkipReason    string `toml:"skip_reason"`
	Transform     string `toml:"transform"`
	AllowUnstable bool   `toml:"allow_unstable"`
	Force         bool   `toml:"force"`
}

// duration lets TOML express durations as strings ("30s", "2m").
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// LoadWatchlist reads and validates the watchlist at path.
func LoadWatchlist(path string) (*Watchlist, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading watchlist: %w", err)
	}

	var wl Watchlist
	if err := toml.Unmarshal(raw, &wl); err != nil {
		return nil, fmt.Errorf("parsing watchlist: %w", err)
	}

	seen := make(map[string]bool, len(wl.Packages))
	for i, p := range wl.Packages {
		if p.Name == "" {
			return nil, fmt.Errorf("package %d: name is required", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("package %q listed twice", p.Name)
		}
		seen[p.Name] = true
	}
	return &wl, nil
}

// Resolve converts the watchlist entries into core packages.
func (wl *Watchlist) Resolve() []*pkgscout.Package {
	pkgs := make([]*pkgscout.Package, 0, len(wl.Packages))
	for _, e := range wl.Packages {
		pkg := &pkgscout.Package{
			Name:       e.Name,
			Version:    e.Version,
			Homepage:   e.Homepage,
			URL:        e.URL,
			Mirrors:    e.Mirrors,
			HeadURL:    e.HeadURL,
			HeadCommit: e.HeadCommit,
			HeadOnly:   e.HeadOnly,
			Deprecated: e.Deprecated,
			Pinned:     e.Pinned,
			Versioned:  e.Versioned,
		}
		if e.Check != nil {
			pkg.Check = &pkgscout.CheckConfig{
				URL:           e.Check.URL,
				Strategy:      e.Check.Strategy,
				Regex:         e.Check.Regex,
				Skip:          e.Check.Skip,
				SkipReason:    e.Check.SkipReason,
				Transform:     e.Check.Transform,
				AllowUnstable: e.Check.AllowUnstable,
				Force:         e.Check.Force,
			}
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs
}
