package core

import (
	"regexp"
	"strings"
)

// rewriteRule maps a recognized URL shape to its canonical repository form.
// $1 captures the repository path (owner/name).
type rewriteRule struct {
	pattern *regexp.Regexp
	replace string
}

// The rule table covers forge URL shapes that point at release artifacts or
// listing pages. Rewriting them to the bare repository form lets the forge
// strategies fetch a stable tag list instead of a moving artifact URL.
var rewriteRules = []rewriteRule{
	// GitHub release assets, archives, tarballs and listing pages.
	{regexp.MustCompile(`^https?://github\.com/([^/]+/[^/]+?)(?:\.git)?/(?:releases|archive|tags|tarball|zipball)(?:/.*)?$`),
		"https://github.com/$1.git"},
	// codeload is the archive-serving host for GitHub.
	{regexp.MustCompile(`^https?://codeload\.github\.com/([^/]+/[^/]+)/(?:tar\.gz|zip|legacy\.tar\.gz)/.*$`),
		"https://github.com/$1.git"},
	// GitLab archives and release pages (group/subgroup paths included).
	{regexp.MustCompile(`^https?://gitlab\.com/(.+?)/-/(?:archive|releases)(?:/.*)?$`),
		"https://gitlab.com/$1.git"},
}

// Paths on recognized hosts that do not follow the rewrite shapes and must
// be left untouched.
var rewriteExceptions = []string{
	"https://github.com/downloads/",
	"http://github.com/downloads/",
}

// PreprocessURL rewrites url into a canonical repository form when it matches
// a known forge release/archive shape. It is pure and idempotent: rewritten
// URLs match no rule, and unrecognized URLs pass through unchanged.
func PreprocessURL(url string) string {
	for _, ex := range rewriteExceptions {
		if strings.HasPrefix(url, ex) {
			return url
		}
	}
	for _, r := range rewriteRules {
		if r.pattern.MatchString(url) {
			return r.pattern.ReplaceAllString(url, r.replace)
		}
	}
	return url
}

// IsGist reports whether url points at a GitHub Gist. Gists carry no
// versioned content and are never check candidates.
func IsGist(url string) bool {
	return strings.Contains(url, "gist.github.com") || strings.Contains(url, "gist.githubusercontent.com")
}
