// Package gitlab provides the version discovery strategy for projects hosted
// on gitlab.com, using the repository tags API.
package gitlab

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
	DefaultAPIURL = "https://gitlab.com/api/v4"
	name          = "gitlab"
	priority      = 85
)

func init() {
	core.Register(func(client core.Client) core.Strategy {
		return New(DefaultAPIURL, client)
	})
}

var defaultTagRegex = regexp.MustCompile(`^v?(\d+(?:\.\d+)+)$`)

// Projects may live under nested groups, so everything after the host up to
// a /-/ marker is the project path.
var projectPattern = regexp.MustCompile(`^https?://gitlab\.com/((?:[^/]+/)+[^/]+?)(?:\.git)?(?:/-/.*)?$`)

type Strategy struct {
	apiURL string
	client core.Client
}

func New(apiURL string, client core.Client) *Strategy {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Strategy{apiURL: strings.TrimSuffix(apiURL, "/"), client: client}
}

func (s *Strategy) Name() string {
	return name
}

func (s *Strategy) Priority() int {
	return priority
}

func (s *Strategy) AppliesTo(rawURL string) bool {
	return projectPattern.MatchString(rawURL)
}

type tag struct {
	Name string `json:"name"`
}

func (s *Strategy) FindVersions(ctx context.Context, rawURL, regex string) core.Extraction {
	project, ok := projectPath(rawURL)
	if !ok {
		return core.Failed(rawURL, fmt.Sprintf("not a project URL: %s", rawURL))
	}

	pattern := defaultTagRegex
	if regex != "" {
		var err error
		pattern, err = regexp.Compile(regex)
		if err != nil {
			return core.Failed(rawURL, fmt.Sprintf("invalid regex %q: %v", regex, err))
		}
	}

	tagsURL := fmt.Sprintf("%s/projects/%s/repository/tags?per_page=100", s.apiURL, url.PathEscape(project))
	var tags []tag
	if err := s.client.GetJSON(ctx, tagsURL, &tags); err != nil {
		return core.Failed(rawURL, fmt.Sprintf("fetching tags for %s: %v", project, err))
	}

	res := core.NewExtraction(tagsURL)
	res.ResolvedRegex = pattern.String()
	for _, t := range tags {
		m := pattern.FindStringSubmatch(t.Name)
		if m == nil {
			continue
		}
		extracted := m[0]
		if len(m) > 1 && m[1] != "" {
			extracted = m[1]
		}
		res.Matches[t.Name] = version.Parse(extracted)
	}
	if len(res.Matches) == 0 {
		res.Messages = append(res.Messages, fmt.Sprintf("no versions found among tags of %s", project))
	}
	return res
}

func projectPath(rawURL string) (string, bool) {
	m := projectPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}
