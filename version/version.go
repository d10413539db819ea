// Package version provides a loosely-structured version value type with a
// strict total order.
//
// Parse accepts any string: a version is tokenized into numeric and text
// tokens and two versions are compared token by token. Numeric tokens compare
// numerically, text tokens compare lexically, and a numeric token outranks a
// text token in the same position. When one token sequence is shorter, the
// missing positions compare below every real token, so "1.2" < "1.2.0" and
// equality holds only for identical token sequences.
//
// A version may instead wrap a commit identifier (NewHEAD) for packages that
// track an unreleased branch. HEAD versions have no ordering: they compare
// only by commit identity, and mixing a HEAD version into an ordered
// comparison is a programming error that panics.
package version

import (
	"strconv"
	"strings"
)

// Unstable keywords mark pre-release builds. A version containing any of
// these as a text token is excluded from consideration unless the package
// explicitly allows unstable versions.
var unstableKeywords = []string{
	"alpha", "beta", "bpo", "dev", "experimental", "prerelease", "preview", "rc",
}

type tokenKind int

const (
	textToken tokenKind = iota
	numericToken
)

type token struct {
	kind tokenKind
	num  uint64
	text string
}

// Version is an immutable parsed version string or HEAD commit identifier.
// The zero Version is empty and compares below every non-empty version.
type Version struct {
	raw    string
	commit string
	tokens []token
}

// Parse tokenizes raw into a comparable Version. It never fails: a string
// with no recognizable structure becomes a single text token.
func Parse(raw string) Version {
	return Version{raw: raw, tokens: tokenize(raw)}
}

// NewHEAD wraps a commit identifier for HEAD tracking.
func NewHEAD(commit string) Version {
	return Version{raw: "HEAD", commit: commit}
}

// IsHEAD reports whether v tracks a commit rather than a release version.
func (v Version) IsHEAD() bool {
	return v.commit != ""
}

// Commit returns the tracked commit identifier, or "" for release versions.
func (v Version) Commit() string {
	return v.commit
}

// Empty reports whether v carries neither a version string nor a commit.
func (v Version) Empty() bool {
	return v.raw == "" && v.commit == ""
}

// String returns the original raw string, or "HEAD" for commit versions.
func (v Version) String() string {
	return v.raw
}

// SameCommit reports whether both versions track the same commit. This is the
// only sanctioned comparison for HEAD versions.
func (v Version) SameCommit(other Version) bool {
	return v.commit != "" && v.commit == other.commit
}

// Unstable reports whether any text token marks v as a pre-release build.
func (v Version) Unstable() bool {
	for _, t := range v.tokens {
		if t.kind != textToken {
			continue
		}
		for _, kw := range unstableKeywords {
			if strings.Contains(t.text, kw) {
				return true
			}
		}
	}
	return false
}

// Compare returns -1, 0 or +1 as a orders before, the same as, or after b.
// The order is total over non-HEAD versions. Comparing a HEAD version against
// anything panics: HEAD versions carry no ordering and must be compared with
// SameCommit instead.
func Compare(a, b Version) int {
	if a.IsHEAD() || b.IsHEAD() {
		panic("version: Compare called on a HEAD version; use SameCommit")
	}

	n := len(a.tokens)
	if len(b.tokens) > n {
		n = len(b.tokens)
	}
	for i := 0; i < n; i++ {
		var at, bt *token
		if i < len(a.tokens) {
			at = &a.tokens[i]
		}
		if i < len(b.tokens) {
			bt = &b.tokens[i]
		}
		if c := compareTokens(at, bt); c != 0 {
			return c
		}
	}
	return 0
}

// Max returns the highest version in vs, or the zero Version if vs is empty.
func Max(vs []Version) Version {
	var best Version
	for _, v := range vs {
		if best.Empty() || Compare(v, best) > 0 {
			best = v
		}
	}
	return best
}

// compareTokens orders two tokens at the same position. A nil token stands
// for an exhausted sequence and orders below every real token.
func compareTokens(a, b *token) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if a.kind != b.kind {
		// Numeric outranks text: "1.0" > "1.beta".
		if a.kind == numericToken {
			return 1
		}
		return -1
	}
	if a.kind == numericToken {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
	return strings.Compare(a.text, b.text)
}

// tokenize splits raw into maximal runs of digits and maximal runs of
// letters; every other rune is a separator. Case is folded so "RC1" and
// "rc1" produce the same tokens.
func tokenize(raw string) []token {
	raw = strings.ToLower(strings.TrimSpace(raw))
	// Strip a leading "v" only when it prefixes a number, so "v1.2.3" and
	// "1.2.3" tokenize identically but "vim-like" strings are untouched.
	if len(raw) > 1 && raw[0] == 'v' && raw[1] >= '0' && raw[1] <= '9' {
		raw = raw[1:]
	}

	var tokens []token
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			j := i
			for j < len(raw) && raw[j] >= '0' && raw[j] <= '9' {
				j++
			}
			n, err := strconv.ParseUint(raw[i:j], 10, 64)
			if err != nil {
				// Longer than uint64; keep it comparable as text.
				tokens = append(tokens, token{kind: textToken, text: raw[i:j]})
			} else {
				tokens = append(tokens, token{kind: numericToken, num: n})
			}
			i = j
		case isAlpha(c):
			j := i
			for j < len(raw) && isAlpha(raw[j]) {
				j++
			}
			tokens = append(tokens, token{kind: textToken, text: raw[i:j]})
			i = j
		default:
			i++
		}
	}
	return tokens
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
