// Package npm provides the version discovery strategy for packages published
// on the npm registry.
package npm

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkgscout/pkgscout/internal/core"
	"github.com/pkgscout/pkgscout/version"
)

const (
	DefaultURL = "https://registry.npmjs.org"
	name       = "npm"
	priority   = 80
)

func init() {
	core.Register(func(client core.Client) core.Strategy {
		return New(DefaultURL, client)
	})
}

var (
	registryPattern = regexp.MustCompile(`^https?://registry\.npmjs\.org/((?:@[^/]+/)?[^/]+?)(?:/-/.*)?/?$`)
	sitePattern     = regexp.MustCompile(`^https?://(?:www\.)?npmjs\.com/package/((?:@[^/]+/)?[^/]+)`)
)

type Strategy struct {
	baseURL string
	client  core.Client
}

func New(baseURL string, client core.Client) *Strategy {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Strategy{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (s *Strategy) Name() string {
	return name
}

func (s *Strategy) Priority() int {
	return priority
}

func (s *Strategy) AppliesTo(rawURL string) bool {
	_, ok := packageName(rawURL)
	return ok
}

type packageResponse struct {
	Versions map[string]struct {
		Deprecated string `json:"deprecated"`
	} `json:"versions"`
}

func (s *Strategy) FindVersions(ctx context.Context, rawURL, regex string) core.Extraction {
	pkg, ok := packageName(rawURL)
	if !ok {
		return core.Failed(rawURL, fmt.Sprintf("not an npm URL: %s", rawURL))
	}

	var pattern *regexp.Regexp
	if regex != "" {
		var err error
		pattern, err = regexp.Compile(regex)
		if err != nil {
			return core.Failed(rawURL, fmt.Sprintf("invalid regex %q: %v", regex, err))
		}
	}

	metaURL := fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(pkg))
	var resp packageResponse
	if err := s.client.GetJSON(ctx, metaURL, &resp); err != nil {
		return core.Failed(rawURL, fmt.Sprintf("fetching versions for %s: %v", pkg, err))
	}

	res := core.NewExtraction(metaURL)
	if pattern != nil {
		res.ResolvedRegex = pattern.String()
	}
	for num, info := range resp.Versions {
		if info.Deprecated != "" {
			continue
		}
		extracted := num
		if pattern != nil {
			m := pattern.FindStringSubmatch(num)
			if m == nil {
				continue
			}
			if len(m) > 1 && m[1] != "" {
				extracted = m[1]
			}
		}
		res.Matches[num] = version.Parse(extracted)
	}
	if len(res.Matches) == 0 {
		res.Messages = append(res.Messages, fmt.Sprintf("no versions found for %s", pkg))
	}
	return res
}

// packageName extracts the (possibly scoped) package name from a registry or
// package page URL.
func packageName(rawURL string) (string, bool) {
	if m := sitePattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	if m := registryPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	return "", false
}
