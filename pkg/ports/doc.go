// Package ports declares the interfaces the application layer depends on.
//
// Adapters under pkg/adapters provide the implementations:
//   - github: UpstreamClient against the GitHub Gists API
//   - cache/memory, cache/redis: Cache backends
//   - metrics/prometheus: MetricsCollector
package ports
