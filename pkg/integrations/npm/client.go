package npm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depwatch/pkg/cache"
	"github.com/matzehuels/depwatch/pkg/integrations"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// PackageInfo describes the version a package's "latest" dist-tag points at.
type PackageInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	License     string `json:"license,omitempty"`
	Deprecated  string `json:"deprecated,omitempty"`
}

type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an npm registry client. Responses are cached in c for ttl.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(c, "npm", ttl, map[string]string{"Accept": "application/json"}),
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at another registry (a mirror or a test server).
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimSuffix(u, "/") }

// FetchPackage returns the latest published version of pkg.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)
	key := pkg + "@latest"

	var info PackageInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LatestVersion is a shorthand for FetchPackage(ctx, pkg, false).Version.
func (c *Client) LatestVersion(ctx context.Context, pkg string) (string, error) {
	info, err := c.FetchPackage(ctx, pkg, false)
	if err != nil {
		return "", err
	}
	return info.Version, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data latestResponse
	url := c.baseURL + "/" + integrations.PathEscape(pkg) + "/latest"
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}
	if data.Version == "" {
		return fmt.Errorf("%w: npm package %s has no latest version", integrations.ErrNotFound, pkg)
	}

	*info = PackageInfo{
		Name:        data.Name,
		Version:     data.Version,
		Description: data.Description,
		License:     extractField(data.License, "type"),
		Deprecated:  extractField(data.Deprecated, "message"),
	}
	return nil
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

type latestResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	License     any    `json:"license"`
	Deprecated  any    `json:"deprecated"`
}
