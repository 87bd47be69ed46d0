// Package gitlab provides the content source for GitLab-hosted repositories.
//
// # Overview
//
// Repository URLs on gitlab.com are accepted, including nested groups
// (gitlab.com/group/subgroup/project), but reading repository contents is
// not implemented yet. [Client.ListRootFiles] and [Client.FetchFile] fail
// with a NOT_IMPLEMENTED error whose message is exactly
// "Method not implemented.", which the HTTP server reports as a 500.
//
// # Authentication
//
// A GitLab personal access token is optional and sent as PRIVATE-TOKEN once
// content access lands.
package gitlab
