package token

import (
	"strings"
)

// Scope names ordered by access breadth, narrowest first.
const (
	ScopeOwn    = "own"
	ScopeTeam   = "team"
	ScopeOrg    = "org"
	ScopeTenant = "tenant"
	ScopeGlobal = "global"
)

// scopeRanks assigns each recognized scope its position in the containment
// order. A held scope satisfies a requested scope iff its rank is >= the
// requested rank.
var scopeRanks = map[string]int{
	ScopeOwn:    1,
	ScopeTeam:   2,
	ScopeOrg:    3,
	ScopeTenant: 4,
	ScopeGlobal: 5,
}

// ScopeRank returns the containment rank for a scope value. The second return
// is false for values outside the fixed scope set, including the empty string.
func ScopeRank(scope string) (int, bool) {
	rank, ok := scopeRanks[scope]
	return rank, ok
}

// Token is the parsed form of a permission string. Which fields are populated
// is determined entirely by the segment count of the source string:
//
//	1 segment:   Short
//	2 segments:  Domain, Action
//	3 segments:  App, Domain, Action
//	4 segments:  App, Domain, Resource, Action
//	5+ segments: App, Domain, Resource, Scope, Action
//
// A 4-segment token deliberately carries no scope: almost all tokens in use
// are the unscoped app:domain:resource:action shape, and reading segment 4 as
// a scope would misparse them.
type Token struct {
	// Original is the normalized source string (aliases resolved, hyphens
	// rewritten). It is stable under re-parsing.
	Original string

	App      string
	Domain   string
	Resource string

	// Scope is the access-breadth qualifier, present only for tokens with
	// five or more segments. Middle segments are rejoined with ":" so an
	// unrecognized multi-part qualifier stays in one field.
	Scope string

	Action string

	// Short is set only for single-segment tokens such as "read". Short
	// tokens are namespace-agnostic.
	Short string
}

// Normalize rewrites a permission string to canonical form using the built-in
// alias table: trim whitespace, rewrite hyphens to underscores, then apply an
// exact-match legacy alias substitution. Empty input normalizes to "".
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return defaultAliases.Normalize(s)
}

// Parse parses a permission string into a Token using the built-in alias
// table. It returns nil for input that normalizes to the empty string or
// contains no non-empty segments; it never panics. Callers must treat nil as
// "fall back to verbatim string comparison".
func Parse(s string) *Token {
	return defaultAliases.Parse(s)
}

// Normalize rewrites a permission string to canonical form using this table.
func (t *AliasTable) Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "-", "_")
	if canonical, ok := t.Resolve(s); ok {
		return canonical
	}
	return s
}

// Parse parses a permission string into a Token using this table's aliases.
func (t *AliasTable) Parse(s string) *Token {
	normalized := t.Normalize(s)
	if normalized == "" {
		return nil
	}

	var segments []string
	for _, seg := range strings.Split(normalized, ":") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return nil
	}

	tok := &Token{Original: normalized}
	switch len(segments) {
	case 1:
		tok.Short = segments[0]
	case 2:
		tok.Domain = segments[0]
		tok.Action = segments[1]
	case 3:
		tok.App = segments[0]
		tok.Domain = segments[1]
		tok.Action = segments[2]
	default:
		tok.App = segments[0]
		tok.Domain = segments[1]
		tok.Resource = segments[2]
		tok.Action = segments[len(segments)-1]
		if len(segments) > 4 {
			tok.Scope = strings.Join(segments[3:len(segments)-1], ":")
		}
	}
	return tok
}
