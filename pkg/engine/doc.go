// Package engine wires the authorization stack together from configuration:
// Postgres role store with migrations and seeded platform roles, optional
// Redis snapshot layer, the TTL'd role catalog, resolver, authorizer,
// alias-file hot reload and observability. It is the embedding host's one-call
// entry point; every component remains usable on its own.
package engine
