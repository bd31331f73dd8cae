// Package authz is the engine's entry point for callers. It composes the
// token grammar, the grant-matching algorithm and the role hierarchy behind
// two questions:
//
//   - IsGranted: does any token in the caller's held set satisfy the
//     requested permission?
//   - CanManageRole: does the acting subject's role outrank the target's?
//
// Every answer is a fail-closed boolean. Parse failures, unknown roles and
// backing-store trouble all read as denial; nothing on this surface returns
// an error.
//
// Decisions are memoized in a bounded, TTL-expiring LRU keyed by the
// (held, requested) string pair. The cache is transparent because matching is
// a pure function of its inputs; the TTL bounds staleness across alias-table
// hot reloads, and InvalidateDecisions drops it immediately.
package authz
