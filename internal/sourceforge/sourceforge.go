// Package sourceforge provides the version discovery strategy for projects
// hosted on sourceforge.net, scraping the file release feed.
package sourceforge

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkgscout/pkgscout/internal/core"
	"github.com/pkgscout/pkgscout/version"
)

const (
	DefaultURL = "https://sourceforge.net"
	name       = "sourceforge"
	priority   = 75
)

func init() {
	core.Register(func(client core.Client) core.Strategy {
		return New(DefaultURL, client)
	})
}

var projectPattern = regexp.MustCompile(`^https?://(?:[a-z0-9.]+\.)?sourceforge\.net/(?:projects?|p)/([^/]+)`)

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
	return projectPattern.MatchString(url)
}

func (s *Strategy) FindVersions(ctx context.Context, url, regex string) core.Extraction {
	m := projectPattern.FindStringSubmatch(url)
	if m == nil {
		return core.Failed(url, fmt.Sprintf("not a SourceForge project URL: %s", url))
	}
	project := m[1]

	// File download links in the feed look like
	// .../project/<name>/files/<name>-1.2.3.tar.gz/download
	patternText := regex
	if patternText == "" {
		patternText = fmt.Sprintf(`(?i)url=.*?/%s/files/.*?[-_/](\d+(?:[-.]\d+)+)[-_/.%%]`, regexp.QuoteMeta(project))
	}
	pattern, err := regexp.Compile(patternText)
	if err != nil {
		return core.Failed(url, fmt.Sprintf("invalid regex %q: %v", patternText, err))
	}

	feedURL := fmt.Sprintf("%s/projects/%s/rss?path=/", s.baseURL, project)
	body, err := s.client.GetText(ctx, feedURL)
	if err != nil {
		return core.Failed(url, fmt.Sprintf("fetching release feed for %s: %v", project, err))
	}

	res := core.NewExtraction(feedURL)
	res.ResolvedRegex = pattern.String()
	for _, m := range pattern.FindAllStringSubmatch(body, -1) {
		extracted := m[0]
		if len(m) > 1 && m[1] != "" {
			extracted = m[1]
		}
		res.Matches[m[0]] = version.Parse(extracted)
	}
	if len(res.Matches) == 0 {
		res.Messages = append(res.Messages, fmt.Sprintf("no versions found in release feed for %s", project))
	}
	return res
}
