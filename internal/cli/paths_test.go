package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/modpublish/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/modpublish-xdg", filepath.Join("/tmp/modpublish-xdg", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestCacheOptionsOpen(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, LogDebug)
	ctx := context.Background()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    cacheOptions
		xdg     string
		wantTyp string
	}{
		{"disabled", cacheOptions{noCache: true}, t.TempDir(), "cache.NullCache"},
		{"file", cacheOptions{}, t.TempDir(), "*cache.FileCache"},
		{"unwritable dir falls back to memory", cacheOptions{}, blocker, "*cache.MemoryCache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			c, err := tt.opts.open(ctx, logger)
			if err != nil {
				t.Fatalf("open() error: %v", err)
			}
			defer c.Close()
			var got string
			switch c.(type) {
			case cache.NullCache:
				got = "cache.NullCache"
			case *cache.FileCache:
				got = "*cache.FileCache"
			case *cache.MemoryCache:
				got = "*cache.MemoryCache"
			}
			if got != tt.wantTyp {
				t.Errorf("open() = %T, want %s", c, tt.wantTyp)
			}
		})
	}
}
