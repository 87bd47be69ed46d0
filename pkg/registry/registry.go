// Package registry looks up the latest published version of a package in
// the registry of its ecosystem.
//
// Lookups are dispatched by [manifest.Kind]: npm/yarn packages go to the npm
// registry, composer packages to Packagist. Client errors are translated to
// codes from pkg/errors:
//
//   - invalid package name: INVALID_PACKAGE (no request is made)
//   - package missing: PACKAGE_NOT_FOUND
//   - upstream 429: RATE_LIMITED
//   - transport or 5xx failures after retries: REGISTRY_UNAVAILABLE
//   - kind without a registry: UNSUPPORTED
package registry

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/integrations"
	"github.com/matzehuels/depwatch/pkg/integrations/npm"
	"github.com/matzehuels/depwatch/pkg/integrations/packagist"
	"github.com/matzehuels/depwatch/pkg/manifest"
)

// Lookup returns the latest version of a package in one registry.
type Lookup interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, name string) (string, error)

func (f LookupFunc) LatestVersion(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// Client dispatches lookups to the registry of each package manager.
type Client struct {
	lookups map[manifest.Kind]Lookup
}

// New creates a Client from an explicit dispatch table.
func New(lookups map[manifest.Kind]Lookup) *Client {
	return &Client{lookups: lookups}
}

// NewDefault wires the npm and Packagist clients.
func NewDefault(n *npm.Client, p *packagist.Client) *Client {
	return New(map[manifest.Kind]Lookup{
		manifest.NpmOrYarn: n,
		manifest.Composer:  p,
	})
}

// Supports reports whether kind has a registry.
func (c *Client) Supports(kind manifest.Kind) bool {
	_, ok := c.lookups[kind]
	return ok
}

// LatestVersion returns the latest published version of name.
func (c *Client) LatestVersion(ctx context.Context, kind manifest.Kind, name string) (string, error) {
	lookup, ok := c.lookups[kind]
	if !ok {
		return "", errors.New(errors.ErrCodeUnsupported, "no registry for package manager %s", kind)
	}
	if err := validateName(kind, name); err != nil {
		return "", err
	}

	v, err := lookup.LatestVersion(ctx, name)
	if err != nil {
		return "", translate(err, kind, name)
	}
	return v, nil
}

func validateName(kind manifest.Kind, name string) error {
	switch kind {
	case manifest.NpmOrYarn:
		return errors.ValidateNpmPackageName(name)
	case manifest.Composer:
		return errors.ValidateComposerPackageName(name)
	default:
		return errors.ValidatePackageName(name)
	}
}

func translate(err error, kind manifest.Kind, name string) error {
	eco := kind.Ecosystem()
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodePackageNotFound, err, "%s package %s not found", eco, name)
	case stderrors.Is(err, integrations.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "%s rate limited lookup of %s", eco, name)
	default:
		return errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "%s lookup of %s failed", eco, name)
	}
}
