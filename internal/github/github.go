// Package github provides the version discovery strategy for repositories
// hosted on github.com: versions come from the repository tag list, and HEAD
// packages resolve the default branch tip commit.
package github

import (
	"context"
	"fmt"
	"regexp"

	"github.com/pkgscout/pkgscout/internal/core"
	"github.com/pkgscout/pkgscout/version"
)

const (
	DefaultAPIURL = "https://api.github.com"
	name          = "github"
	priority      = 90
)

func init() {
	core.Register(func(client core.Client) core.Strategy {
		return New(DefaultAPIURL, client)
	})
}

// Tags like v1.2.3 or 1.2.3; anything else (nightly-2024, release-candidate)
// is ignored unless the package supplies its own regex.
var defaultTagRegex = regexp.MustCompile(`^v?(\d+(?:\.\d+)+)$`)

var repoPattern = regexp.MustCompile(`^https?://(?:codeload\.)?github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/.*)?$`)

type Strategy struct {
	apiURL string
	client core.Client
}

func New(apiURL string, client core.Client) *Strategy {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Strategy{apiURL: apiURL, client: client}
}

func (s *Strategy) Name() string {
	return name
}

func (s *Strategy) Priority() int {
	return priority
}

func (s *Strategy) AppliesTo(url string) bool {
	return repoPattern.MatchString(url) && !core.IsGist(url)
}

type tag struct {
	Name string `json:"name"`
}

func (s *Strategy) FindVersions(ctx context.Context, url, regex string) core.Extraction {
	owner, repo, ok := splitRepo(url)
	if !ok {
		return core.Failed(url, fmt.Sprintf("not a repository URL: %s", url))
	}

	pattern := defaultTagRegex
	if regex != "" {
		var err error
		pattern, err = regexp.Compile(regex)
		if err != nil {
			return core.Failed(url, fmt.Sprintf("invalid regex %q: %v", regex, err))
		}
	}

	tagsURL := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=100", s.apiURL, owner, repo)
	var tags []tag
	if err := s.client.GetJSON(ctx, tagsURL, &tags); err != nil {
		return core.Failed(url, fmt.Sprintf("fetching tags for %s/%s: %v", owner, repo, err))
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
		res.Messages = append(res.Messages, fmt.Sprintf("no versions found among tags of %s/%s", owner, repo))
	}
	return res
}

type commit struct {
	SHA string `json:"sha"`
}

// FindLatestCommit resolves the default branch tip, for HEAD-only packages.
func (s *Strategy) FindLatestCommit(ctx context.Context, url string) (string, []string) {
	owner, repo, ok := splitRepo(url)
	if !ok {
		return "", []string{fmt.Sprintf("not a repository URL: %s", url)}
	}

	commitURL := fmt.Sprintf("%s/repos/%s/%s/commits/HEAD", s.apiURL, owner, repo)
	var c commit
	if err := s.client.GetJSON(ctx, commitURL, &c); err != nil {
		return "", []string{fmt.Sprintf("fetching HEAD of %s/%s: %v", owner, repo, err)}
	}
	if c.SHA == "" {
		return "", []string{fmt.Sprintf("no HEAD commit for %s/%s", owner, repo)}
	}
	return c.SHA, nil
}

func splitRepo(url string) (owner, repo string, ok bool) {
	m := repoPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
