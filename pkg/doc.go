// Package pkg provides the core libraries for depwatch.
//
// # Overview
//
// depwatch reports which dependencies of a hosted repository are outdated.
// The pkg directory is organized into these areas:
//
//  1. [repourl], [manifest], [semver] - pure domain logic (URL parsing,
//     manifest parsing, version comparison)
//  2. [provider], [registry], [resolver] - resolution (host dispatch,
//     registry dispatch, orchestration)
//  3. [integrations] - external API clients (GitHub, GitLab, npm, Packagist)
//  4. [cache], [subscription] - storage (response cache, subscription stores)
//  5. [config], [errors], [httputil], [observability], [buildinfo] - shared
//     infrastructure
//
// # Architecture
//
// The data flow of one resolution:
//
//	repository URL
//	     ↓
//	[repourl] (host, owner, name)
//	     ↓
//	[provider] (detect package manager, fetch manifest)
//	     ↓
//	[manifest] (declared dependencies)
//	     ↓
//	[registry] (latest version per dependency, concurrently)
//	     ↓
//	[semver] (outdated if latest falls outside the declared range)
//	     ↓
//	[]resolver.OutdatedDependency
//
// # Quick Start
//
//	gh := github.NewClient(nil, os.Getenv("GITHUB_TOKEN"), 10*time.Minute)
//	gl := gitlab.NewClient(nil, "", 10*time.Minute)
//	res := resolver.New(
//	    provider.NewTable(gh, gl),
//	    registry.NewDefault(npm.NewClient(nil, time.Hour), packagist.NewClient(nil, time.Hour)),
//	)
//	outdated, err := res.Resolve(ctx, "https://github.com/expressjs/express")
package pkg
