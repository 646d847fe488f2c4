// Package cache provides response cache implementations.
//
// Implementations:
//   - memory: in-memory map with TTL (default)
//   - redis: Redis with JSON serialization and server-side TTL
package cache
