// Package repourl parses repository URLs into structured references.
//
// Only https (or http) URLs on github.com and gitlab.com are accepted:
//
//	ref, err := repourl.Parse("https://github.com/expressjs/express")
//	// ref.Host == repourl.GitHub, ref.Owner == "expressjs", ref.Name == "express"
//
// GitHub paths must be exactly /{owner}/{name}. GitLab paths may carry nested
// groups, so the owner of gitlab.com/group/sub/project is "group/sub". A
// trailing slash or ".git" suffix is tolerated on both hosts.
//
// Every failure is an [errors.Error] with code INVALID_REPOSITORY_URL.
// Parsing is pure and never performs I/O.
package repourl

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/integrations/github"
)

// Host identifies a supported source-code hosting provider.
type Host int

const (
	GitHub Host = iota + 1
	GitLab
)

// Hosts lists every supported host in a stable order.
var Hosts = []Host{GitHub, GitLab}

var hostDomains = map[string]Host{
	"github.com": GitHub,
	"gitlab.com": GitLab,
}

// String returns the lowercase host name used in logs and metrics.
func (h Host) String() string {
	switch h {
	case GitHub:
		return "github"
	case GitLab:
		return "gitlab"
	default:
		return "unknown"
	}
}

// Domain returns the canonical web domain of the host.
func (h Host) Domain() string {
	switch h {
	case GitHub:
		return "github.com"
	case GitLab:
		return "gitlab.com"
	default:
		return ""
	}
}

// Reference identifies a repository on a supported host.
type Reference struct {
	Host  Host
	Owner string // user, organization, or GitLab namespace path
	Name  string
}

// String returns the canonical https URL of the repository.
func (r Reference) String() string {
	return "https://" + r.Host.Domain() + "/" + r.Owner + "/" + r.Name
}

// Slug returns "owner/name".
func (r Reference) Slug() string { return r.Owner + "/" + r.Name }

// GitLab path segments: letters, digits, '_', '-', '.', not starting with a
// special character and not ending in ".git" or ".atom".
var gitlabSegment = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{0,254}$`)

// Parse validates raw and returns the repository it points at.
func Parse(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, invalid("repository URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Reference{}, invalid("malformed URL %q", raw)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Reference{}, invalid("URL %q must use http or https", raw)
	}
	if u.User != nil || u.RawQuery != "" || u.Fragment != "" {
		return Reference{}, invalid("URL %q must not carry credentials, query or fragment", raw)
	}

	domain := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host, ok := hostDomains[domain]
	if !ok || u.Port() != "" {
		return Reference{}, invalid("unsupported repository host %q", u.Host)
	}

	path := strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), ".git")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return Reference{}, invalid("URL %q has no owner and repository name", raw)
	}
	segments := strings.Split(path, "/")

	switch host {
	case GitHub:
		return parseGitHub(raw, segments)
	default:
		return parseGitLab(raw, segments)
	}
}

func parseGitHub(raw string, segments []string) (Reference, error) {
	if len(segments) != 2 {
		return Reference{}, invalid("GitHub URL %q must have the form https://github.com/{owner}/{name}", raw)
	}
	owner, name := segments[0], segments[1]
	if err := github.ValidateRepoRef(owner, name); err != nil {
		return Reference{}, errors.Wrap(errors.ErrCodeInvalidRepositoryURL, err, "invalid GitHub repository %q", raw)
	}
	return Reference{Host: GitHub, Owner: owner, Name: name}, nil
}

func parseGitLab(raw string, segments []string) (Reference, error) {
	if len(segments) < 2 {
		return Reference{}, invalid("GitLab URL %q must have the form https://gitlab.com/{namespace}/{name}", raw)
	}
	for _, s := range segments {
		if s == "-" {
			return Reference{}, invalid("GitLab URL %q points inside a repository, not at it", raw)
		}
		if !gitlabSegment.MatchString(s) || strings.HasSuffix(s, ".atom") {
			return Reference{}, invalid("invalid GitLab path segment %q", s)
		}
	}
	last := len(segments) - 1
	return Reference{
		Host:  GitLab,
		Owner: strings.Join(segments[:last], "/"),
		Name:  segments[last],
	}, nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidRepositoryURL, format, args...)
}
