package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nodetrees/pkg/cache"
	"github.com/matzehuels/nodetrees/pkg/errors"
)

// ConfigFile is the project configuration file name, looked up in the
// project root.
const ConfigFile = "nodetrees.toml"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultRedisPrefix namespaces index keys in a shared Redis.
const DefaultRedisPrefix = "nodetrees:"

// Config is the contents of nodetrees.toml:
//
//	root = "."
//	logic_marker = "+logic"
//	textures_dir = "textures"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://build-box:6379/2"
//	ttl = "72h"
type Config struct {
	Root        string      `toml:"root"`
	LogicMarker string      `toml:"logic_marker"`
	TexturesDir string      `toml:"textures_dir"`
	Cache       CacheConfig `toml:"cache"`
}

// CacheConfig selects the change-detection backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses strings like "90m" or "72h".
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
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads nodetrees.toml from dir. A missing file yields the zero
// Config. Unknown keys are rejected so typos do not pass silently.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(dir, cfg.Root)
	}
	return &cfg, nil
}

// Options converts the file settings into pass options.
func (c *Config) Options() Options {
	return Options{
		Root:        c.Root,
		LogicMarker: c.LogicMarker,
		TexturesDir: c.TexturesDir,
		CacheTTL:    c.Cache.TTL.Duration,
	}
}

// DefaultCacheDir returns $HOME/.cache/nodetrees.
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "nodetrees"), nil
}

// OpenCache creates the configured cache backend. An empty backend selects
// the file cache in DefaultCacheDir.
func (c CacheConfig) OpenCache() (cache.Cache, error) {
	switch c.Backend {
	case "", CacheFile:
		dir := c.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeCache, err, "locate cache directory")
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open cache %s", dir)
		}
		return fc, nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(cache.RedisOptions{URL: c.RedisURL})
		if err != nil {
			return nil, err
		}
		prefix := c.Prefix
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		return cache.NewScopedCache(rc, prefix), nil
	case CacheNone:
		return cache.NewNullCache(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, none)", c.Backend)
}
