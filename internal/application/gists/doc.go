// Package gists implements the core lookup logic of the proxy.
//
// The service coordinates each request by:
//   - Validating the username and clamping pagination parameters
//   - Serving from the response cache when a valid entry exists
//   - Fetching one page from the upstream API on a miss
//   - Reshaping the upstream payload into the response envelope
//
// The cache monitor periodically samples cache statistics for logs
// and metrics.
package gists
