package npm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/depwatch/pkg/cache"
	"github.com/matzehuels/depwatch/pkg/httputil"
	"github.com/matzehuels/depwatch/pkg/integrations"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, _ := cache.NewMemoryCache(16)
	client := NewClient(c, time.Hour)
	client.SetBaseURL(server.URL + "/")
	client.SetPolicy(httputil.Policy{Attempts: 2, Delay: time.Millisecond, Timeout: time.Second})
	return client
}

func TestFetchPackage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/express/latest" {
			t.Errorf("path = %q, want /express/latest", r.URL.Path)
		}
		w.Write([]byte(`{"name":"express","version":"4.21.2","description":"Fast web framework","license":"MIT"}`))
	})

	pkg, err := client.FetchPackage(context.Background(), "Express", false)
	if err != nil {
		t.Fatalf("FetchPackage() error: %v", err)
	}
	if pkg.Name != "express" || pkg.Version != "4.21.2" {
		t.Errorf("FetchPackage() = %+v", pkg)
	}
	if pkg.License != "MIT" {
		t.Errorf("License = %q, want MIT", pkg.License)
	}
}

func TestFetchPackageScoped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawPath != "" && r.URL.RawPath != "/@types%2Fnode/latest" {
			t.Errorf("raw path = %q", r.URL.RawPath)
		}
		w.Write([]byte(`{"name":"@types/node","version":"22.10.2","license":{"type":"MIT"}}`))
	})

	v, err := client.LatestVersion(context.Background(), "@types/node")
	if err != nil {
		t.Fatalf("LatestVersion() error: %v", err)
	}
	if v != "22.10.2" {
		t.Errorf("LatestVersion() = %q, want 22.10.2", v)
	}
}

func TestFetchPackageNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchPackage(context.Background(), "does-not-exist", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchPackage() error = %v, want ErrNotFound", err)
	}
}

func TestFetchPackageEmptyVersion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"ghost"}`))
	})

	_, err := client.FetchPackage(context.Background(), "ghost", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchPackage() error = %v, want ErrNotFound", err)
	}
}

func TestFetchPackageUsesCache(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"name":"lodash","version":"4.17.21","deprecated":"use lodash-es"}`))
	})

	for i := 0; i < 3; i++ {
		pkg, err := client.FetchPackage(context.Background(), "lodash", false)
		if err != nil {
			t.Fatalf("FetchPackage() error: %v", err)
		}
		if pkg.Deprecated != "use lodash-es" {
			t.Errorf("Deprecated = %q", pkg.Deprecated)
		}
	}
	if calls != 1 {
		t.Errorf("registry calls = %d, want 1", calls)
	}

	if _, err := client.FetchPackage(context.Background(), "lodash", true); err != nil {
		t.Fatalf("FetchPackage(refresh) error: %v", err)
	}
	if calls != 2 {
		t.Errorf("refresh should bypass cache, calls = %d", calls)
	}
}

func TestExtractField(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"MIT", "MIT"},
		{map[string]any{"type": "ISC"}, "ISC"},
		{map[string]any{"name": "x"}, ""},
		{nil, ""},
		{true, ""},
	}
	for _, tt := range tests {
		if got := extractField(tt.in, "type"); got != tt.want {
			t.Errorf("extractField(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
