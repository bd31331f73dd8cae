// Package token defines the permission-token grammar used across the
// authorization engine.
//
// A permission token is a colon-delimited string of the canonical shape
//
//	app:domain:resource[:scope]:action
//
// with two degenerate shapes also legal: a bare single segment ("read") and a
// two-segment domain:action form. Parsing dispatches on segment count:
//
//	"read"                          -> Short: "read"
//	"dashboard:view"                -> Domain: "dashboard", Action: "view"
//	"crm:sales:read"                -> App, Domain, Action
//	"crm:sales:deal:read"           -> App, Domain, Resource, Action
//	"crm:sales:deal:tenant:read"    -> App, Domain, Resource, Scope, Action
//
// The exactly-4-segment shape never carries a scope. This is a deliberate
// grammar rule: the overwhelming majority of real tokens are unscoped
// 4-segment strings, and reading the fourth segment as a scope would misparse
// them.
//
// Normalization runs before parsing: whitespace is trimmed, hyphens become
// underscores, and exact legacy spellings are rewritten through the alias
// table ("dashboard:view" is really crm:dashboard:panel:view). Extra aliases
// can be loaded from a YAML file and hot-reloaded with Watcher.
//
// Parsing never fails with an error; malformed input yields a nil Token and
// callers degrade to verbatim string comparison.
package token
