// Package provider detects the package manager of a hosted repository and
// fetches its dependency manifest.
//
// Hosts are dispatched through a [Table] keyed by [repourl.Host]. Every
// entry satisfies [Provider]; the GitHub and GitLab entries are both built
// on a content [Source] that lists root files and reads single files.
//
// Errors are translated into codes from pkg/errors:
//
//   - repository missing: REPOSITORY_NOT_FOUND
//   - manifest missing at fetch time: MANIFEST_NOT_FOUND
//   - upstream 429: RATE_LIMITED
//   - other transport or 5xx failures after retries: PROVIDER_UNAVAILABLE
//   - coded errors from the source (NOT_IMPLEMENTED) pass through unchanged
//   - context cancellation is returned as-is
package provider

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/integrations"
	"github.com/matzehuels/depwatch/pkg/manifest"
	"github.com/matzehuels/depwatch/pkg/repourl"
)

// Provider is the capability every host implements.
type Provider interface {
	// Detect returns the package manager of ref, or manifest.Unsupported
	// when no known manifest exists at the repository root.
	Detect(ctx context.Context, ref repourl.Reference) (manifest.Kind, error)

	// FetchManifest reads and parses the manifest of the given kind.
	FetchManifest(ctx context.Context, ref repourl.Reference, kind manifest.Kind) (*manifest.Manifest, error)
}

// Source reads repository contents from a host.
type Source interface {
	ListRootFiles(ctx context.Context, owner, name string) ([]string, error)
	FetchFile(ctx context.Context, owner, name, path string) (string, error)
}

// Table maps each supported host to its provider.
type Table map[repourl.Host]Provider

// For returns the provider of host.
func (t Table) For(host repourl.Host) (Provider, error) {
	p, ok := t[host]
	if !ok || p == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no provider for host %s", host)
	}
	return p, nil
}

// New returns a Provider reading contents through src.
func New(src Source) Provider {
	return &contentProvider{src: src}
}

type contentProvider struct {
	src Source
}

func (p *contentProvider) Detect(ctx context.Context, ref repourl.Reference) (manifest.Kind, error) {
	files, err := p.src.ListRootFiles(ctx, ref.Owner, ref.Name)
	if err != nil {
		return manifest.Unsupported, translate(err, errors.ErrCodeRepositoryNotFound, "list %s", ref)
	}
	return manifest.Detect(files), nil
}

func (p *contentProvider) FetchManifest(ctx context.Context, ref repourl.Reference, kind manifest.Kind) (*manifest.Manifest, error) {
	filename := kind.Filename()
	if filename == "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "no manifest for package manager %s", kind)
	}

	content, err := p.src.FetchFile(ctx, ref.Owner, ref.Name, filename)
	if err != nil {
		return nil, translate(err, errors.ErrCodeManifestNotFound, "fetch %s from %s", filename, ref)
	}

	m, err := manifest.Parse(kind, []byte(content))
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "parse %s from %s", filename, ref)
	}
	return m, nil
}

// translate maps a source error to a coded error. notFound is the code used
// for integrations.ErrNotFound.
func translate(err error, notFound errors.Code, format string, args ...any) error {
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(notFound, err, format, args...)
	case stderrors.Is(err, integrations.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, format, args...)
	default:
		return errors.Wrap(errors.ErrCodeProviderUnavailable, err, format, args...)
	}
}
