// Package github provides an HTTP client for the GitHub contents API.
//
// # Overview
//
// This package lists repository root files and fetches manifest files from
// GitHub (https://api.github.com). It is the content source behind the
// GitHub provider.
//
// # Usage
//
//	client := github.NewClient(cache, token, 10*time.Minute)
//
//	files, err := client.ListRootFiles(ctx, "expressjs", "express")
//	if err != nil {
//	    return err
//	}
//
//	f, err := client.FetchFile(ctx, "expressjs", "express", "package.json")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(f.Content)
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
//
// # Validation
//
// [ValidateOwner] and [ValidateRepo] check names against GitHub's naming
// rules before any request is made.
package github
