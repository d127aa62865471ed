package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func newTestCache(t *testing.T, client *http.Client) *Cache {
	t.Helper()
	t.Setenv(cacheEnvVar, t.TempDir())
	cache, err := New(client)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return cache
}

func TestResolveLocalPath(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "figure.png")
	if err := os.WriteFile(local, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cache := newTestCache(t, nil)
	got, err := cache.Resolve(context.Background(), local)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != local {
		t.Fatalf("local path should be returned untouched, got %q", got)
	}
}

func TestResolveMissingLocalPath(t *testing.T) {
	cache := newTestCache(t, nil)
	if _, err := cache.Resolve(context.Background(), "/nowhere/missing.png"); err == nil {
		t.Fatal("missing local image should be an error")
	}
}

func TestResolveDownloadsRemoteOnce(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte("image-data"))
	}))
	defer server.Close()

	cache := newTestCache(t, server.Client())

	url := server.URL + "/generated/chart.png"
	first, err := cache.Resolve(context.Background(), url)
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	second, err := cache.Resolve(context.Background(), url)
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if first != second {
		t.Fatalf("cache returned different paths: %q vs %q", first, second)
	}
	if atomic.LoadInt64(&hits) != 1 {
		t.Fatalf("expected one download, got %d", hits)
	}
	data, err := os.ReadFile(first)
	if err != nil || string(data) != "image-data" {
		t.Fatalf("cached file wrong: %q, %v", data, err)
	}
}

func TestResolveRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	cache := newTestCache(t, server.Client())
	if _, err := cache.Resolve(context.Background(), server.URL+"/gone.png"); err == nil {
		t.Fatal("404 should surface as an error")
	}
}
