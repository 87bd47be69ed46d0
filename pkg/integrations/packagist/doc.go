// Package packagist provides an HTTP client for the Packagist API.
//
// # Overview
//
// This package looks up the latest stable version of PHP packages on
// Packagist (https://packagist.org), the main Composer repository.
//
// # Usage
//
//	client := packagist.NewClient(cache, time.Hour)
//
//	pkg, err := client.FetchPackage(ctx, "symfony/console", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pkg.Name, pkg.Version)
//
// # Version Selection
//
// Metadata comes from the Composer 2 endpoint /p2/{vendor}/{package}.json,
// which lists tagged versions newest first. The client selects the first
// stable version, skipping dev branches and alpha, beta, RC and patch
// pre-releases. If no stable version exists, the newest one is used.
//
// # Caching
//
// Responses are cached through the shared integrations client. Pass
// refresh=true to bypass the cache.
package packagist
