package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeWatchlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWatchlist(t *testing.T) {
	path := writeWatchlist(t, `
cache_ttl = "12h"
concurrency = 4
timeout = "15s"

[[package]]
name = "jq"
version = "1.7.1"
url = "https://github.com/jqlang/jq/archive/refs/tags/jq-1.7.1.tar.gz"
homepage = "https://jqlang.github.io/jq/"

[[package]]
name = "legacy-tool"
version = "0.3"
url = "https://example.com/legacy-tool-0.3.tar.gz"

[package.check]
skip = true
skip_reason = "no longer maintained"
`)

	wl, err := LoadWatchlist(path)
	if err != nil {
		t.Fatalf("LoadWatchlist: %v", err)
	}
	if got := time.Duration(wl.CacheTTL); got != 12*time.Hour {
		t.Errorf("CacheTTL = %v, want 12h", got)
	}
	if wl.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", wl.Concurrency)
	}
	if len(wl.Packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(wl.Packages))
	}

	pkgs := wl.Resolve()
	if pkgs[0].Name != "jq" || pkgs[0].Version != "1.7.1" {
		t.Errorf("first package = %q %q", pkgs[0].Name, pkgs[0].Version)
	}
	if pkgs[0].Check != nil {
		t.Error("jq should have no check config")
	}
	if pkgs[1].Check == nil || !pkgs[1].Check.Skip {
		t.Fatal("legacy-tool should carry a skip config")
	}
	if pkgs[1].Check.SkipReason != "no longer maintained" {
		t.Errorf("SkipReason = %q", pkgs[1].Check.SkipReason)
	}
}

func TestLoadWatchlistHeadFields(t *testing.T) {
	path := writeWatchlist(t, `
[[package]]
name = "nightly"
head_url = "https://github.com/acme/nightly.git"
head_commit = "0123abcd"
head_only = true
`)

	wl, err := LoadWatchlist(path)
	if err != nil {
		t.Fatalf("LoadWatchlist: %v", err)
	}
	pkg := wl.Resolve()[0]
	if !pkg.HeadOnly || pkg.HeadCommit != "0123abcd" {
		t.Errorf("head fields not carried over: %+v", pkg)
	}
}

func TestLoadWatchlistRejectsDuplicateNames(t *testing.T) {
	path := writeWatchlist(t, `
[[package]]
name = "jq"

[[package]]
name = "jq"
`)
	if _, err := LoadWatchlist(path); err == nil {
		t.Fatal("expected error for duplicate package names")
	}
}

func TestLoadWatchlistRejectsMissingName(t *testing.T) {
	path := writeWatchlist(t, `
[[package]]
version = "1.0"
`)
	if _, err := LoadWatchlist(path); err == nil {
		t.Fatal("expected error for missing package name")
	}
}

func TestLoadWatchlistMissingFile(t *testing.T) {
	if _, err := LoadWatchlist(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadWatchlistBadDuration(t *testing.T) {
	path := writeWatchlist(t, `
timeout = "soon"

[[package]]
name = "jq"
`)
	if _, err := LoadWatchlist(path); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}
