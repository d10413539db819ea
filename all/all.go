// Package all imports all built-in discovery strategies.
//
// Import this package for its side effects to register every strategy:
//
//	import (
//		"github.com/pkgscout/pkgscout"
//		_ "github.com/pkgscout/pkgscout/all"
//	)
//
//	// Now all strategies are available
//	names := pkgscout.StrategyNames()
//	// ["github", "gitlab", "npm", "pypi", "sourceforge", "pagematch"]
package all

import (
	_ "github.com/pkgscout/pkgscout/internal/github"
	_ "github.com/pkgscout/pkgscout/internal/gitlab"
	_ "github.com/pkgscout/pkgscout/internal/npm"
	_ "github.com/pkgscout/pkgscout/internal/pagematch"
	_ "github.com/pkgscout/pkgscout/internal/pypi"
	_ "github.com/pkgscout/pkgscout/internal/sourceforge"
)
