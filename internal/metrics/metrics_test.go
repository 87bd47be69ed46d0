package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/observability"
)

func TestResolveHooks(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnResolveComplete(ctx, "https://github.com/a/b", 3, time.Second, nil)
	m.OnResolveComplete(ctx, "https://gitlab.com/a/b", 0, time.Millisecond, errors.NotImplemented())
	m.OnResolveComplete(ctx, "https://github.com/a/b", 0, time.Millisecond, context.Canceled)

	if got := testutil.ToFloat64(m.resolutions.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok resolutions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.resolutions.WithLabelValues("NOT_IMPLEMENTED")); got != 1 {
		t.Errorf("NOT_IMPLEMENTED resolutions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.resolutions.WithLabelValues("CANCELED")); got != 1 {
		t.Errorf("CANCELED resolutions = %v, want 1", got)
	}

	m.OnLookupComplete(ctx, "npm", "react", time.Millisecond, nil)
	m.OnLookupComplete(ctx, "npm", "left-pad", time.Millisecond, errors.New(errors.ErrCodePackageNotFound, "gone"))
	m.OnLookupComplete(ctx, "packagist", "x/y", time.Millisecond, io.EOF)

	if got := testutil.ToFloat64(m.lookups.WithLabelValues("npm", "PACKAGE_NOT_FOUND")); got != 1 {
		t.Errorf("npm PACKAGE_NOT_FOUND = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.lookups.WithLabelValues("packagist", "INTERNAL_ERROR")); got != 1 {
		t.Errorf("packagist INTERNAL_ERROR = %v, want 1", got)
	}
}

func TestCacheAndHTTPHooks(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnCacheHit(ctx, "npm")
	m.OnCacheHit(ctx, "npm")
	m.OnCacheMiss(ctx, "github")
	m.OnCacheSet(ctx, "github", 128)
	m.OnResponse(ctx, "GET", "api.github.com", "/repos/a/b/contents/", 200, time.Millisecond)
	m.OnError(ctx, "GET", "registry.npmjs.org", "/x/latest", io.EOF)

	if got := testutil.ToFloat64(m.cache.WithLabelValues("npm", "hit")); got != 2 {
		t.Errorf("npm hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cache.WithLabelValues("github", "set")); got != 1 {
		t.Errorf("github sets = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.upstream.WithLabelValues("api.github.com", "200")); got != 1 {
		t.Errorf("github 200s = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.upstream.WithLabelValues("registry.npmjs.org", "error")); got != 1 {
		t.Errorf("npm errors = %v, want 1", got)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()

	m := New()
	m.Install()

	if observability.Resolve() != observability.ResolveHooks(m) {
		t.Error("resolve hooks not installed")
	}
	if observability.Cache() != observability.CacheHooks(m) {
		t.Error("cache hooks not installed")
	}
	if observability.HTTP() != observability.HTTPHooks(m) {
		t.Error("http hooks not installed")
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/subscriptions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Handle("/metrics", Handler(reg))

	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/subscriptions/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/subscriptions/{id}", "400")); got != 2 {
		t.Errorf("route requests = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"depwatch_http_requests_total", `route="/subscriptions/{id}"`} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics output missing %q", want)
		}
	}
}
