// Package pypi provides the version discovery strategy for packages
// published on pypi.org, using the JSON API release listing.
package pypi

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkgscout/pkgscout/internal/core"
	"github.com/pkgscout/pkgscout/version"
)

const (
	DefaultURL = "https://pypi.org"
	name       = "pypi"
	priority   = 80
)

func init() {
	core.Register(func(client core.Client) core.Strategy {
		return New(DefaultURL, client)
	})
}

var (
	projectPattern = regexp.MustCompile(`^https?://pypi\.org/(?:project|pypi|simple)/([^/]+)`)
	// Source tarballs carry the project name in the filename:
	// .../packages/source/r/requests/requests-2.31.0.tar.gz
	sdistPattern = regexp.MustCompile(`^https?://files\.pythonhosted\.org/packages/.+/([^/]+?)-\d[^/]*\.(?:tar\.gz|tar\.bz2|zip)$`)
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

func (s *Strategy) AppliesTo(url string) bool {
	_, ok := projectName(url)
	return ok
}

type packageResponse struct {
	Releases map[string][]releaseFile `json:"releases"`
}

type releaseFile struct {
	Yanked bool `json:"yanked"`
}

func (s *Strategy) FindVersions(ctx context.Context, url, regex string) core.Extraction {
	project, ok := projectName(url)
	if !ok {
		return core.Failed(url, fmt.Sprintf("not a PyPI URL: %s", url))
	}

	var pattern *regexp.Regexp
	if regex != "" {
		var err error
		pattern, err = regexp.Compile(regex)
		if err != nil {
			return core.Failed(url, fmt.Sprintf("invalid regex %q: %v", regex, err))
		}
	}

	jsonURL := fmt.Sprintf("%s/pypi/%s/json", s.baseURL, project)
	var resp packageResponse
	if err := s.client.GetJSON(ctx, jsonURL, &resp); err != nil {
		return core.Failed(url, fmt.Sprintf("fetching releases for %s: %v", project, err))
	}

	res := core.NewExtraction(jsonURL)
	if pattern != nil {
		res.ResolvedRegex = pattern.String()
	}
	for num, files := range resp.Releases {
		if yankedRelease(files) {
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
		res.Messages = append(res.Messages, fmt.Sprintf("no versions found for %s", project))
	}
	return res
}

// yankedRelease reports whether every file of a release was yanked. A
// release with no files at all is still listed.
func yankedRelease(files []releaseFile) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if !f.Yanked {
			return false
		}
	}
	return true
}

// projectName extracts the PyPI project from a project page URL or a source
// distribution download URL. PyPI normalizes names to lowercase with
// hyphens.
func projectName(url string) (string, bool) {
	if m := projectPattern.FindStringSubmatch(url); m != nil {
		return normalize(m[1]), true
	}
	if m := sdistPattern.FindStringSubmatch(url); m != nil {
		return normalize(m[1]), true
	}
	return "", false
}

func normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")
	return name
}
