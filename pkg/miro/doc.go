// Package miro implements the HTTP client for the Miro v2 REST API.
//
// The client authenticates with a bearer token and owns the run's single
// rate limiter: listing pages and content probes share it, so the combined
// request rate never exceeds the limiter's ceiling.
//
// Board items are enumerated per item type through ItemIterator, which
// pages through /boards/{id}/items following the continuation cursor.
// Listing failures other than 401/403 are retried with backoff; an
// exhausted budget is reported as a transient error so the caller can skip
// the item type without aborting the run.
package miro
