// Package domain defines the data model shared across adapters and the
// application layer: the upstream gist shape, the client-facing response
// envelope and cache statistics.
package domain
