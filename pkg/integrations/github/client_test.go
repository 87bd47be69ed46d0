package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/depwatch/pkg/httputil"
	"github.com/matzehuels/depwatch/pkg/integrations"
)

func testClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(nil, token, time.Hour)
	c.SetBaseURL(server.URL)
	c.SetPolicy(httputil.Policy{Attempts: 2, Delay: time.Millisecond, Timeout: time.Second})
	return c
}

func TestClient_ListRootFiles(t *testing.T) {
	var auth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/repos/owner/repo/contents/" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]apiContentResponse{
			{Name: "package.json", Path: "package.json", Type: "file", Size: 120},
			{Name: "src", Path: "src", Type: "dir"},
			{Name: "README.md", Path: "README.md", Type: "file", Size: 42},
		})
	}, "secret")

	files, err := c.ListRootFiles(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("ListRootFiles() error: %v", err)
	}
	if len(files) != 2 || files[0] != "package.json" || files[1] != "README.md" {
		t.Errorf("ListRootFiles() = %v", files)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer secret")
	}
}

func TestClient_ListContentsMissingRepo(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, "")

	_, err := c.ListContents(context.Background(), "owner", "missing", "")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("ListContents() error = %v, want ErrNotFound", err)
	}
}

func TestClient_FetchFileBase64(t *testing.T) {
	body := `{"dependencies":{"express":"^4.0.0"}}`
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/contents/package.json" {
			http.NotFound(w, r)
			return
		}
		encoded := base64.StdEncoding.EncodeToString([]byte(body))
		json.NewEncoder(w).Encode(apiContentResponse{
			Name:     "package.json",
			Path:     "package.json",
			Type:     "file",
			Size:     len(body),
			Content:  encoded[:10] + "\n" + encoded[10:],
			Encoding: "base64",
		})
	}, "")

	f, err := c.FetchFile(context.Background(), "owner", "repo", "package.json")
	if err != nil {
		t.Fatalf("FetchFile() error: %v", err)
	}
	if f.Content != body {
		t.Errorf("Content = %q, want %q", f.Content, body)
	}
}

func TestClient_FetchFileLargeUsesDownloadURL(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/repo/contents/composer.json":
			json.NewEncoder(w).Encode(apiContentResponse{
				Name:        "composer.json",
				Path:        "composer.json",
				Type:        "file",
				Encoding:    "none",
				DownloadURL: server.URL + "/raw/composer.json",
			})
		case "/raw/composer.json":
			w.Write([]byte(`{"require":{}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := NewClient(nil, "", time.Hour)
	c.SetBaseURL(server.URL)

	f, err := c.FetchFile(context.Background(), "owner", "repo", "composer.json")
	if err != nil {
		t.Fatalf("FetchFile() error: %v", err)
	}
	if f.Content != `{"require":{}}` {
		t.Errorf("Content = %q", f.Content)
	}
}

func TestClient_FetchFileNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, "")

	_, err := c.FetchFile(context.Background(), "owner", "repo", "package.json")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchFile() error = %v, want ErrNotFound", err)
	}
}

func TestClient_FetchFileDirectory(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiContentResponse{Name: "package.json", Path: "package.json", Type: "dir"})
	}, "")

	_, err := c.FetchFile(context.Background(), "owner", "repo", "package.json")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchFile() error = %v, want ErrNotFound", err)
	}
}

func TestClient_ServerErrorIsNetwork(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, "")

	_, err := c.ListRootFiles(context.Background(), "owner", "repo")
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("ListRootFiles() error = %v, want ErrNetwork", err)
	}
}

func TestValidateRepoRef(t *testing.T) {
	tests := []struct {
		owner, repo string
		wantErr     bool
	}{
		{"expressjs", "express", false},
		{"my-org", "repo.js", false},
		{"a", "b_c", false},
		{"", "repo", true},
		{"-bad", "repo", true},
		{"owner", "", true},
		{"owner", "has space", true},
		{"this-owner-name-is-way-too-long-for-github", "repo", true},
		{"owner", "..", true},
	}

	for _, tt := range tests {
		err := ValidateRepoRef(tt.owner, tt.repo)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRepoRef(%q, %q) error = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateRepoRef(%q, %q) error = %v, want ErrInvalidName", tt.owner, tt.repo, err)
		}
	}
}
