package gitlab

import (
	"context"
	"time"

	"github.com/matzehuels/depwatch/pkg/cache"
	"github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/integrations"
)

// DefaultBaseURL is the public GitLab REST API.
const DefaultBaseURL = "https://gitlab.com/api/v4"

// Client is the content source for GitLab-hosted repositories.
//
// All methods are safe for concurrent use by multiple goroutines.
//
// Note: repository content access is not implemented yet. Every content
// method fails with [errors.ErrCodeNotImplemented] and the message
// "Method not implemented." without touching the network.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitLab API client with optional authentication.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (nil for no caching)
//   - token: GitLab personal access token (empty string for unauthenticated)
//   - cacheTTL: How long responses are cached
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}

	return &Client{
		Client:  integrations.NewClient(backend, "gitlab", cacheTTL, headers),
		baseURL: DefaultBaseURL,
	}
}

// ListRootFiles is not implemented for GitLab.
// TODO: list the root via GET /projects/:id/repository/tree with the
// URL-encoded namespace path as :id.
func (c *Client) ListRootFiles(ctx context.Context, namespace, project string) ([]string, error) {
	return nil, errors.NotImplemented()
}

// FetchFile is not implemented for GitLab.
func (c *Client) FetchFile(ctx context.Context, namespace, project, path string) (string, error) {
	return "", errors.NotImplemented()
}
