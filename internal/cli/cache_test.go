package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/flametower/internal/config"
	"github.com/matzehuels/flametower/pkg/cache"
)

func TestCacheLocation(t *testing.T) {
	c := newTestCLI(t)
	dir := c.Config.Cache.Dir

	tests := []struct {
		name string
		cfg  config.CacheConfig
		want string
	}{
		{"file", config.CacheConfig{Backend: config.BackendFile, Dir: dir}, dir},
		{"none", config.CacheConfig{Backend: config.BackendNone}, "disabled"},
		{"redis", config.CacheConfig{Backend: config.BackendRedis, Redis: config.RedisConfig{Addr: "cache:6379", DB: 2}}, "redis://cache:6379/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Config.Cache = tt.cfg
			if got := c.cacheLocation(); got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheLocationDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := newTestCLI(t)
	c.Config.Cache.Dir = ""
	want, err := cache.DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if got := c.cacheLocation(); got != want {
		t.Errorf("cacheLocation() = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	c := newTestCLI(t)
	ctx := context.Background()

	store, err := cache.NewFileCache(c.Config.Cache.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "tree:abc", []byte("{}"), time.Hour); err != nil {
		t.Fatal(err)
	}

	cmd := c.cacheClearCommand()
	cmd.SetArgs([]string{})
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if _, hit, _ := store.Get(ctx, "tree:abc"); hit {
		t.Error("entry survived cache clear")
	}

	entries, err := os.ReadDir(c.Config.Cache.Dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("left behind %s", filepath.Join(c.Config.Cache.Dir, e.Name()))
	}
}
