// Package config loads flametower's TOML configuration.
//
// Values are layered: built-in defaults, then the config file, then
// FLAMETOWER_* environment variables. Command-line flags are applied last by
// the CLI.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
)

const (
	appDirName     = "flametower"
	configFileName = "config.toml"
	envPrefix      = "FLAMETOWER_"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures `flametower serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	CORSOrigins    []string `toml:"cors_origins"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	RequestTimeout Duration `toml:"request_timeout"`
	SeedFiles      int      `toml:"seed_files"`
}

// CacheConfig selects and configures the render cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Width   float64  `toml:"width"`
	Unit    string   `toml:"unit"`
	Style   string   `toml:"style"`
	Palette []string `toml:"palette"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			CORSOrigins:    []string{"*"},
			ReadTimeout:    Duration{10 * time.Second},
			WriteTimeout:   Duration{60 * time.Second},
			RequestTimeout: Duration{30 * time.Second},
			SeedFiles:      25,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Redis:   RedisConfig{Addr: "127.0.0.1:6379"},
		},
		Render: RenderConfig{
			Width: 900,
			Unit:  "ns",
			Style: styles.StyleSimple,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Path returns the default config file location:
// $XDG_CONFIG_HOME/flametower/config.toml, falling back to the OS user
// config directory.
func Path() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName, configFileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "locate config dir")
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// Load reads path over the defaults and applies the environment. An empty
// path means the default location, where a missing file is not an error; a
// missing file at an explicit path is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case os.IsNotExist(err) && !explicit:
		cfg = Default()
	case os.IsNotExist(err):
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	default:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides values from FLAMETOWER_* variables:
// ADDR, CACHE_BACKEND, CACHE_DIR, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB,
// LOG_LEVEL.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"ADDR":           &c.Server.Addr,
		"CACHE_BACKEND":  &c.Cache.Backend,
		"CACHE_DIR":      &c.Cache.Dir,
		"REDIS_ADDR":     &c.Cache.Redis.Addr,
		"REDIS_PASSWORD": &c.Cache.Redis.Password,
		"LOG_LEVEL":      &c.Log.Level,
	}
	for name, dst := range str {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	if v, ok := lookup(envPrefix + "REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%sREDIS_DB must be an integer, got %q", envPrefix, v)
		}
		c.Cache.Redis.DB = db
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be %s, %s or %s, got %q", BackendFile, BackendRedis, BackendNone, c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis.addr is required for the redis backend")
	}
	if err := errors.ValidateWidth(c.Render.Width); err != nil {
		return err
	}
	if _, err := styles.ByName(c.Render.Style); err != nil {
		return err
	}
	for _, color := range c.Render.Palette {
		if _, err := styles.ParsePalette(color); err != nil {
			return err
		}
	}
	if c.Server.SeedFiles < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.seed_files must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write config %s", path)
	}
	return nil
}
