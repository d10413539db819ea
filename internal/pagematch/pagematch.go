// Package pagematch provides the fallback discovery strategy: fetch the page
// at the configured URL and apply the package's explicit regex to it. It is
// the only strategy that requires explicit configuration, and the only one
// that must see the URL exactly as written.
package pagematch

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkgscout/pkgscout/internal/core"
	"github.com/pkgscout/pkgscout/version"
)

const (
	name     = "pagematch"
	priority = 10
)

func init() {
	core.Register(func(client core.Client) core.Strategy {
		return New(client)
	})
}

type Strategy struct {
	client core.Client
}

func New(client core.Client) *Strategy {
	return &Strategy{client: client}
}

func (s *Strategy) Name() string {
	return name
}

func (s *Strategy) Priority() int {
	return priority
}

// UsesRawURL marks this strategy as a raw page matcher: the orchestrator
// must not rewrite candidate URLs before handing them over.
func (s *Strategy) UsesRawURL() bool {
	return true
}

// RequiresRegex tells the orchestrator to pass this strategy over for
// packages that supply no extraction regex.
func (s *Strategy) RequiresRegex() bool {
	return true
}

func (s *Strategy) AppliesTo(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (s *Strategy) FindVersions(ctx context.Context, url, regex string) core.Extraction {
	// No regex, no fetch: there is nothing to match against.
	if strings.TrimSpace(regex) == "" {
		return core.Failed(url, "pagematch requires an explicit regex")
	}
	pattern, err := regexp.Compile(regex)
	if err != nil {
		return core.Failed(url, fmt.Sprintf("invalid regex %q: %v", regex, err))
	}

	body, err := s.client.GetText(ctx, url)
	if err != nil {
		return core.Failed(url, fmt.Sprintf("page unreachable: %v", err))
	}

	res := core.NewExtraction(url)
	res.ResolvedRegex = pattern.String()
	for _, m := range pattern.FindAllStringSubmatch(body, -1) {
		extracted := m[0]
		if len(m) > 1 && m[1] != "" {
			extracted = m[1]
		}
		res.Matches[m[0]] = version.Parse(extracted)
	}
	if len(res.Matches) == 0 {
		res.Messages = append(res.Messages, "no versions found on page")
	}
	return res
}
