package packagist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/depwatch/pkg/cache"
	"github.com/matzehuels/depwatch/pkg/integrations"
)

// DefaultBaseURL is the Packagist metadata mirror used by Composer 2.
const DefaultBaseURL = "https://repo.packagist.org"

// PackageInfo holds metadata for a PHP package from Packagist.
//
// Package names follow Composer conventions (vendor/package format).
// Version is the latest stable version; dev and pre-release versions are skipped.
type PackageInfo struct {
	Name        string `json:"name"`                  // Package name (e.g., "symfony/console")
	Version     string `json:"version"`               // Latest stable version (e.g., "v7.2.1")
	Description string `json:"description,omitempty"` // Package description (may be empty)
	License     string `json:"license,omitempty"`     // First license identifier (may be empty)
	HomePage    string `json:"homepage,omitempty"`    // Homepage URL (may be empty)
}

// Client provides access to the Packagist package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Packagist client. Responses are cached in c for ttl.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(c, "packagist", ttl, nil),
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at another Composer repository.
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimSuffix(u, "/") }

// FetchPackage retrieves metadata for a PHP package from Packagist.
//
// The pkg parameter must be in "vendor/package" format (e.g., "symfony/console").
// Package name is normalized to lowercase with whitespace trimmed.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - PackageInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the package doesn't exist or has no versions
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
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
	var data p2Response
	if err := c.Get(ctx, fmt.Sprintf("%s/p2/%s.json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: packagist package %s", err, pkg)
		}
		return err
	}

	versions, ok := data.Packages[pkg]
	if !ok || len(versions) == 0 {
		return fmt.Errorf("%w: no versions found for %s", integrations.ErrNotFound, pkg)
	}

	v := latestStable(versions)

	var license string
	if len(v.License) > 0 {
		license = v.License[0]
	}

	name := v.Name
	if name == "" {
		name = pkg
	}
	*info = PackageInfo{
		Name:        name,
		Version:     v.Version,
		Description: v.Description,
		License:     license,
		HomePage:    v.Homepage,
	}
	return nil
}

var unstable = regexp.MustCompile(`(?i)(dev|alpha|beta|rc|[.-]a\d|[.-]b\d|[.-]p\d)`)

// IsStable reports whether a Composer version string is a stable release.
func IsStable(version string) bool {
	return version != "" && !unstable.MatchString(version)
}

// latestStable picks the first stable entry. Packagist lists versions newest
// first; if none is stable the newest one is returned.
func latestStable(versions []p2Version) p2Version {
	for _, v := range versions {
		if IsStable(v.Version) {
			return v
		}
	}
	return versions[0]
}

type p2Response struct {
	Packages map[string][]p2Version `json:"packages"`
}

type p2Version struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Homepage    string   `json:"homepage"`
	License     []string `json:"license"`
}

// UnmarshalJSON tolerates the minified p2 format, where fields carried over
// from the previous entry may be omitted or replaced with "__unset".
func (v *p2Version) UnmarshalJSON(b []byte) error {
	type raw struct {
		Name        string          `json:"name"`
		Version     string          `json:"version"`
		Description json.RawMessage `json:"description"`
		Homepage    json.RawMessage `json:"homepage"`
		License     json.RawMessage `json:"license"`
	}

	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}

	v.Name = r.Name
	v.Version = r.Version
	v.Description = stringField(r.Description)
	v.Homepage = stringField(r.Homepage)

	if len(r.License) > 0 && string(r.License) != "null" {
		if err := json.Unmarshal(r.License, &v.License); err != nil {
			if single := stringField(r.License); single != "" {
				v.License = []string{single}
			}
		}
	}
	return nil
}

func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil || s == "__unset" {
		return ""
	}
	return s
}
