// Package resolver computes the outdated dependencies of a hosted repository.
//
// A resolution runs these steps in order:
//
//  1. parse the repository URL ([repourl.Parse])
//  2. detect the package manager through the host's provider
//  3. fetch and parse the manifest
//  4. look up the latest version of every dependency, concurrently
//  5. keep the dependencies whose latest version falls outside the
//     declared constraint ([semver.Outdated])
//
// Failures in steps 1-3 abort the resolution with a coded error. Lookup
// failures in step 4 are logged, recorded in [Report.Skipped], and never
// abort the call. Repositories without a supported manifest resolve to an
// empty list.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/manifest"
	"github.com/matzehuels/depwatch/pkg/observability"
	"github.com/matzehuels/depwatch/pkg/provider"
	"github.com/matzehuels/depwatch/pkg/repourl"
	"github.com/matzehuels/depwatch/pkg/semver"
)

// DefaultConcurrency bounds parallel registry lookups per resolution.
const DefaultConcurrency = 8

// OutdatedDependency is a dependency whose registry version is newer than
// its declared version allows.
type OutdatedDependency struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	LatestVersion string `json:"latestVersion"`
}

// SkippedDependency is a dependency that was not checked: its declared
// version is not a constraint, or its registry lookup failed.
type SkippedDependency struct {
	Name   string      `json:"name"`
	Code   errors.Code `json:"code,omitempty"`
	Reason string      `json:"reason"`
}

// Report is the full result of one resolution.
type Report struct {
	Repository string               `json:"repository"`
	Reference  repourl.Reference    `json:"-"`
	Kind       manifest.Kind        `json:"packageManager"`
	Outdated   []OutdatedDependency `json:"outdated"`
	Checked    int                  `json:"checked"` // successful lookups
	Skipped    []SkippedDependency  `json:"skipped,omitempty"`
}

// Registry looks up the latest version of a package.
type Registry interface {
	LatestVersion(ctx context.Context, kind manifest.Kind, name string) (string, error)
}

// Resolver is safe for concurrent use; it holds no per-resolution state.
type Resolver struct {
	providers   provider.Table
	registry    Registry
	logger      *log.Logger
	concurrency int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for absorbed lookup failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithConcurrency bounds the number of parallel registry lookups.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New creates a Resolver over the given providers and registry.
func New(providers provider.Table, registry Registry, opts ...Option) *Resolver {
	r := &Resolver{
		providers:   providers,
		registry:    registry,
		logger:      log.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the outdated dependencies of the repository at rawURL.
// The result is never nil on success.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) ([]OutdatedDependency, error) {
	report, err := r.ResolveReport(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return report.Outdated, nil
}

// ResolveReport is like Resolve but also returns lookup statistics.
func (r *Resolver) ResolveReport(ctx context.Context, rawURL string) (*Report, error) {
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, rawURL)
	start := time.Now()

	report, err := r.resolve(ctx, rawURL)

	outdated := 0
	if report != nil {
		outdated = len(report.Outdated)
	}
	hooks.OnResolveComplete(ctx, rawURL, outdated, time.Since(start), err)
	return report, err
}

func (r *Resolver) resolve(ctx context.Context, rawURL string) (*Report, error) {
	ref, err := repourl.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	logger := r.logger.With("repo", ref.String())

	p, err := r.providers.For(ref.Host)
	if err != nil {
		return nil, err
	}

	kind, err := p.Detect(ctx, ref)
	if err != nil {
		return nil, err
	}
	report := &Report{
		Repository: ref.String(),
		Reference:  ref,
		Kind:       kind,
		Outdated:   []OutdatedDependency{},
	}
	if kind == manifest.Unsupported {
		logger.Debug("no supported manifest found")
		return report, nil
	}

	m, err := p.FetchManifest(ctx, ref, kind)
	if err != nil {
		return nil, err
	}
	logger.Debug("manifest parsed", "kind", kind, "dependencies", len(m.Dependencies))

	deps := make([]manifest.Dependency, 0, len(m.Dependencies))
	for _, dep := range m.Dependencies {
		if !semver.Comparable(dep.Constraint) {
			logger.Debug("version is not a constraint", "package", dep.Name, "version", dep.Version)
			report.Skipped = append(report.Skipped, SkippedDependency{
				Name:   dep.Name,
				Code:   errors.ErrCodeUnsupported,
				Reason: fmt.Sprintf("version %q is not a version constraint", dep.Version),
			})
			continue
		}
		deps = append(deps, dep)
	}

	latest, errs := r.lookup(ctx, kind, deps)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, dep := range deps {
		if err := errs[i]; err != nil {
			report.Skipped = append(report.Skipped, SkippedDependency{
				Name:   dep.Name,
				Code:   errors.GetCode(err),
				Reason: errors.UserMessage(err),
			})
			if errors.Is(err, errors.ErrCodePackageNotFound) {
				logger.Debug("package not in registry", "package", dep.Name)
			} else {
				logger.Warn("registry lookup failed", "package", dep.Name, "err", err)
			}
			continue
		}
		report.Checked++
		if semver.Outdated(dep.Constraint, latest[i]) {
			report.Outdated = append(report.Outdated, OutdatedDependency{
				Name:          dep.Name,
				Version:       dep.Version,
				LatestVersion: latest[i],
			})
		}
	}
	return report, nil
}

// lookup queries the registry for every dependency. Results are indexed like
// deps. Errors are returned per dependency, never for the whole batch.
func (r *Resolver) lookup(ctx context.Context, kind manifest.Kind, deps []manifest.Dependency) ([]string, []error) {
	latest := make([]string, len(deps))
	errs := make([]error, len(deps))
	hooks := observability.Resolve()
	hooks.OnLookupsStart(ctx, len(deps))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, dep := range deps {
		i, dep := i, dep
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			start := time.Now()
			latest[i], errs[i] = r.registry.LatestVersion(ctx, kind, dep.Name)
			hooks.OnLookupComplete(ctx, kind.Ecosystem(), dep.Name, time.Since(start), errs[i])
			return nil
		})
	}
	_ = g.Wait()
	return latest, errs
}
