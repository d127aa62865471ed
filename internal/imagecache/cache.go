package imagecache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheEnvVar        = "EDUASSIST_CACHE_DIR"
	cacheSubdir        = "eduassist/images"
	partialSuffix      = ".part"
	defaultHTTPTimeout = 90 * time.Second
	maxImageBytes      = 20 * 1024 * 1024
)

// Cache resolves image references to local files. Local paths are returned
// as-is; remote URLs are downloaded once into the cache directory, keyed by
// URL hash, so repeated exports never refetch and an expired remote link
// still resolves from an earlier download.
type Cache struct {
	dir    string
	client *http.Client
}

// New builds a cache rooted at EDUASSIST_CACHE_DIR, the user cache dir, or a
// temp fallback, in that order.
func New(client *http.Client) (*Cache, error) {
	dir := os.Getenv(cacheEnvVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "eduassist-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Cache{dir: dir, client: client}, nil
}

// Resolve returns a local path for the given image URL, downloading it first
// when the URL is remote and not yet cached.
func (c *Cache) Resolve(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("empty image url")
	}
	if !isRemote(url) {
		if _, err := os.Stat(url); err != nil {
			return "", fmt.Errorf("local image missing: %w", err)
		}
		return url, nil
	}

	target := filepath.Join(c.dir, cacheKey(url)+imageExt(url))
	if info, err := os.Stat(target); err == nil && info.Size() > 0 {
		return target, nil
	}
	return c.download(ctx, url, target)
}

func (c *Cache) download(ctx context.Context, url, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("image download failed: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	partial := target + partialSuffix
	file, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, io.LimitReader(resp.Body, maxImageBytes)); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(partial, target); err != nil {
		return "", err
	}
	return target, nil
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func cacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func imageExt(url string) string {
	ext := strings.ToLower(filepath.Ext(strings.SplitN(url, "?", 2)[0]))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif":
		return ext
	default:
		return ".img"
	}
}
