// Package integrations provides HTTP clients for repository hosts and
// package registry APIs.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [github]: repository contents through the GitHub REST API
//   - [gitlab]: placeholder content source, not implemented yet
//   - [npm]: latest versions from the npm registry
//   - [packagist]: latest stable versions from Packagist (Composer)
//
// # Client Pattern
//
// All clients embed the shared [Client] and follow the same shape:
//
//	c := npm.NewClient(cache, time.Hour)
//	pkg, err := c.FetchPackage(ctx, "express", false)  // false = use cache
//
// Clients handle:
//   - HTTP requests with per-attempt timeout and bounded retries ([httputil.Policy])
//   - Response caching through a pluggable [cache.Cache] backend
//   - API-specific parsing and normalization
//
// # Errors
//
// Low-level clients return the sentinels [ErrNotFound], [ErrNetwork] and
// [ErrRateLimited], wrapped in [httputil.RetryableError] when the failure is
// transient. Callers translate them into domain error codes.
//
// [github]: github.com/matzehuels/depwatch/pkg/integrations/github
// [gitlab]: github.com/matzehuels/depwatch/pkg/integrations/gitlab
// [npm]: github.com/matzehuels/depwatch/pkg/integrations/npm
// [packagist]: github.com/matzehuels/depwatch/pkg/integrations/packagist
// [cache.Cache]: github.com/matzehuels/depwatch/pkg/cache.Cache
// [httputil.Policy]: github.com/matzehuels/depwatch/pkg/httputil.Policy
// [httputil.RetryableError]: github.com/matzehuels/depwatch/pkg/httputil.RetryableError
package integrations
