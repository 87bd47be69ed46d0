package provider

import (
	"context"

	"github.com/matzehuels/depwatch/pkg/integrations/github"
	"github.com/matzehuels/depwatch/pkg/integrations/gitlab"
	"github.com/matzehuels/depwatch/pkg/repourl"
)

// NewTable builds the host table from the GitHub and GitLab clients.
func NewTable(gh *github.Client, gl *gitlab.Client) Table {
	return Table{
		repourl.GitHub: NewGitHub(gh),
		repourl.GitLab: NewGitLab(gl),
	}
}

// NewGitHub returns the provider for github.com.
func NewGitHub(c *github.Client) Provider {
	return New(githubSource{c})
}

// NewGitLab returns the provider for gitlab.com. Content access is not
// implemented, so Detect and FetchManifest fail with NOT_IMPLEMENTED.
func NewGitLab(c *gitlab.Client) Provider {
	return New(c)
}

type githubSource struct {
	c *github.Client
}

func (s githubSource) ListRootFiles(ctx context.Context, owner, name string) ([]string, error) {
	return s.c.ListRootFiles(ctx, owner, name)
}

func (s githubSource) FetchFile(ctx context.Context, owner, name, path string) (string, error) {
	f, err := s.c.FetchFile(ctx, owner, name, path)
	if err != nil {
		return "", err
	}
	return f.Content, nil
}
