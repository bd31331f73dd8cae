// Package observability provides the Prometheus metrics and OpenTelemetry
// tracing used by the authorization engine.
//
// Metrics are registered on an injected registry so embedding applications
// can merge them into their own scrape endpoint, and so tests can construct
// isolated instances. Tracing is optional; when enabled the authorization
// facade opens a span per permission check.
package observability
