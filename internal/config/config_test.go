package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/flametower/pkg/cache"
	"github.com/matzehuels/flametower/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"
cors_origins = ["https://example.com"]
read_timeout = "5s"

[cache]
backend = "none"

[render]
width = 1200.0
unit = "byte"
palette = ["#112233", "#445566"]

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9000")
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://example.com" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != Default().Server.WriteTimeout {
		t.Errorf("Server.WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, BackendNone)
	}
	if cfg.Render.Width != 1200 || cfg.Render.Unit != "byte" {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if len(cfg.Render.Palette) != 2 {
		t.Errorf("Render.Palette = %v", cfg.Render.Palette)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[server\naddr=1", errors.ErrCodeInvalidInput},
		{"unknown key", "[server]\nport = 80\n", errors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"bad width", "[render]\nwidth = -1.0\n", errors.ErrCodeInvalidWidth},
		{"bad style", "[render]\nstyle = \"neon\"\n", errors.ErrCodeInvalidStyle},
		{"bad palette", "[render]\npalette = [\"red\"]\n", errors.ErrCodeInvalidStyle},
		{"bad level", "[log]\nlevel = \"loud\"\n", errors.ErrCodeInvalidInput},
		{"bad duration", "[server]\nread_timeout = \"soon\"\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	got, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "flametower", "config.toml")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FLAMETOWER_ADDR":          ":7000",
		"FLAMETOWER_CACHE_BACKEND": "redis",
		"FLAMETOWER_REDIS_ADDR":    "cache:6379",
		"FLAMETOWER_REDIS_DB":      "3",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want :7000", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != BackendRedis {
		t.Errorf("Cache.Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Addr != "cache:6379" || cfg.Cache.Redis.DB != 3 {
		t.Errorf("Cache.Redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Log.Level != Default().Log.Level {
		t.Errorf("Log.Level = %q, want unchanged", cfg.Log.Level)
	}

	env["FLAMETOWER_REDIS_DB"] = "three"
	if err := cfg.ApplyEnv(lookup); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ApplyEnv(bad db) error = %v, want INVALID_INPUT", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Server.Addr = ":8181"
	cfg.Server.ReadTimeout = Duration{3 * time.Second}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Server.Addr != ":8181" || got.Server.ReadTimeout.Duration != 3*time.Second {
		t.Errorf("Load(Save(cfg)).Server = %+v", got.Server)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	c, err := CacheConfig{Backend: BackendNone}.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("OpenCache(none) = %T, want cache.NullCache", c)
	}

	dir := t.TempDir()
	c, err = CacheConfig{Backend: BackendFile, Dir: dir}.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("OpenCache(file) = %T, want *cache.FileCache", c)
	}
	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}

	if _, err := (CacheConfig{Backend: "tape"}).OpenCache(ctx); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("OpenCache(tape) error = %v, want INVALID_INPUT", err)
	}
}
