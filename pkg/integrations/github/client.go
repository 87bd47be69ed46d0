package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depwatch/pkg/cache"
	deperrors "github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Client reads repository contents through the GitHub REST API.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(c cache.Cache, token string, ttl time.Duration) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(c, "github", ttl, headers),
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at another API root (GitHub Enterprise or a test server).
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimSuffix(u, "/") }

// ListContents lists files and directories in a repository path.
// An empty path lists the repository root. A missing repository yields
// [integrations.ErrNotFound].
func (c *Client) ListContents(ctx context.Context, owner, repo, path string) ([]ContentItem, error) {
	key := fmt.Sprintf("contents:%s/%s:%s", owner, repo, path)

	var items []ContentItem
	err := c.Cached(ctx, key, false, &items, func() error {
		var data []apiContentResponse
		if err := c.Get(ctx, c.contentsURL(owner, repo, path), &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
			}
			return err
		}
		items = make([]ContentItem, len(data))
		for i, item := range data {
			items[i] = ContentItem{Name: item.Name, Path: item.Path, Type: item.Type, Size: item.Size}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListRootFiles returns the names of the regular files at the repository root.
func (c *Client) ListRootFiles(ctx context.Context, owner, repo string) ([]string, error) {
	items, err := c.ListContents(ctx, owner, repo, "")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, item := range items {
		if item.Type == "file" {
			names = append(names, item.Name)
		}
	}
	return names, nil
}

// FetchFile retrieves the content of a file from a repository.
// Base64 payloads are decoded; files too large for inline content are
// downloaded from their raw URL instead.
func (c *Client) FetchFile(ctx context.Context, owner, repo, path string) (*FileContent, error) {
	if err := deperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("file:%s/%s:%s", owner, repo, path)

	var file FileContent
	err := c.Cached(ctx, key, false, &file, func() error {
		var data apiContentResponse
		if err := c.Get(ctx, c.contentsURL(owner, repo, path), &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github file %s/%s/%s", err, owner, repo, path)
			}
			return err
		}
		if data.Type != "" && data.Type != "file" {
			return fmt.Errorf("%w: %s is a %s, not a file", integrations.ErrNotFound, path, data.Type)
		}

		content, err := c.decodeContent(ctx, data)
		if err != nil {
			return err
		}
		file = FileContent{Path: data.Path, Size: data.Size, Content: content}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (c *Client) decodeContent(ctx context.Context, data apiContentResponse) (string, error) {
	if data.Encoding == "base64" {
		raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(data.Content, "\n", ""))
		if err != nil {
			return "", fmt.Errorf("decode content of %s: %w", data.Path, err)
		}
		return string(raw), nil
	}
	if data.DownloadURL == "" {
		return data.Content, nil
	}
	return c.GetText(ctx, data.DownloadURL)
}

func (c *Client) contentsURL(owner, repo, path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, strings.TrimPrefix(path, "/"))
}
