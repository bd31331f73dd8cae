// Package roles resolves role names against the backing store and answers
// role-hierarchy queries.
//
// The package is built around three pieces:
//
//   - Provider: the boundary to the backing store. Store implements it over
//     PostgreSQL; RedisProvider decorates any Provider with a fleet-shared
//     snapshot so multiple application instances amortize one fetch.
//
//   - Catalog: the in-memory role cache, keyed by normalized (lowercased,
//     trimmed) name, refreshed when its TTL elapses or after Invalidate.
//     Concurrent misses collapse into a single fetch, and a failed fetch
//     degrades to an empty list instead of an error.
//
//   - Resolver: name mapping between stored and canonical forms, validity and
//     platform-role checks, and the fixed authority hierarchy
//     (super_admin > admin > manager > engineer > agent > customer).
//
// The hierarchy is deliberately hard-coded while the role catalog itself is
// database-driven; the consuming system has not specified a migration path to
// stored rank values, so the asymmetry stays.
//
// Anything that mutates roles must call Catalog.Invalidate (and
// RedisProvider.Invalidate when the Redis layer is in use); the engine does
// not self-invalidate faster than the TTL.
package roles
