// Package github provides the upstream client for the GitHub Gists API.
//
// The client performs a single attempt per call: errors are classified
// (ErrUserNotFound, APIError, transport) and surfaced to the caller, never
// retried.
package github
