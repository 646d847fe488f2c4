// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Gist listing by username with pagination and cache bypass
//   - Cache statistics and clearing
//   - Health checks
//   - Prometheus metrics
package http
