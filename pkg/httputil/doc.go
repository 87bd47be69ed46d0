// Package httputil provides the shared request policy for provider and
// registry clients.
//
// # Overview
//
// Every outbound call made by depwatch (GitHub contents API, npm registry,
// Packagist) goes through a single [Policy]:
//
//   - a per-attempt timeout
//   - a bounded number of attempts
//   - exponential backoff between attempts
//
// Only failures marked with [RetryableError] are retried. Clients wrap
// network errors and 5xx responses; 404s and decoding errors fail fast.
// An attempt that runs into the per-call timeout is reported as a
// retryable [ErrTimeout].
//
// # Usage
//
//	p := httputil.Policy{Attempts: 3, Delay: 500 * time.Millisecond, Timeout: 10 * time.Second}
//	err := p.Do(ctx, func(ctx context.Context) error {
//	    return fetch(ctx)
//	})
//
// Cancelling ctx stops the loop immediately and returns ctx.Err().
//
// # Configuration
//
// [DefaultPolicy] uses 3 attempts, a 500ms initial backoff and a 10s
// per-call timeout. The server overrides it from the [http] config section.
package httputil
