// Package match implements the grant-matching algorithm: given a permission
// token a caller holds and a token being requested, it decides whether the
// requested access is permitted.
//
// Matching is pure and synchronous; there is no I/O and no shared state, so
// Grants and Evaluate are safe for any number of concurrent callers.
//
// Beyond exact equality the algorithm understands four kinds of compatibility:
//
//   - Legacy aliases, resolved during normalization by pkg/token.
//   - Namespace-agnostic short forms: holding "read" grants any token whose
//     action is read-like, regardless of app/domain/resource.
//   - Scope containment along the fixed order own < team < org < tenant < global.
//   - Action synonyms (read/view/access, update/write/edit, delete/remove)
//     and one-way implications (manage, admin and control imply the full
//     concrete action set; write implies create and update; view implies read).
//
// When either input fails to parse the comparison degrades to verbatim string
// equality, reported as a distinct OutcomeFallback so callers and tests can
// observe that the defensive path was taken.
package match
