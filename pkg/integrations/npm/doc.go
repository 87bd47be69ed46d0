// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package looks up the latest published version of JavaScript packages
// in the npm registry (https://registry.npmjs.org). Yarn projects resolve
// against the same registry.
//
// # Usage
//
//	client := npm.NewClient(cache, time.Hour)
//
//	pkg, err := client.FetchPackage(ctx, "express", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pkg.Name, pkg.Version)
//
// # Version Selection
//
// The client requests /{name}/latest, the abbreviated document for the
// version tagged "latest" in dist-tags. Prereleases published under other
// tags are ignored.
//
// # Caching
//
// Responses are cached through the shared integrations client. Pass
// refresh=true to bypass the cache.
package npm
