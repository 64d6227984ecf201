package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/nodetrees/pkg/cache"
	"github.com/matzehuels/nodetrees/pkg/errors"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
root = "out"
logic_marker = "#logic"
textures_dir = "maps"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/2"
ttl = "72h"
`)
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := &Config{
		Root:        filepath.Join(dir, "out"),
		LogicMarker: "#logic",
		TexturesDir: "maps",
		Cache: CacheConfig{
			Backend:  CacheRedis,
			RedisURL: "redis://localhost:6379/2",
			TTL:      Duration{72 * time.Hour},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}

	opts := cfg.Options()
	if opts.Root != want.Root || opts.CacheTTL != 72*time.Hour || opts.LogicMarker != "#logic" {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("missing file should give zero config:\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", `rooot = "."`},
		{"bad duration", "[cache]\nttl = \"soon\""},
		{"syntax", `root = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := LoadConfig(dir)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestOpenCache(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "idx")
		c, err := CacheConfig{Dir: dir}.OpenCache()
		if err != nil {
			t.Fatal(err)
		}
		defer c.Close()
		fc, ok := c.(*cache.FileCache)
		if !ok || fc.Dir() != dir {
			t.Errorf("OpenCache() = %T, want FileCache in %s", c, dir)
		}
	})

	t.Run("none", func(t *testing.T) {
		c, err := CacheConfig{Backend: CacheNone}.OpenCache()
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.(*cache.NullCache); !ok {
			t.Errorf("OpenCache() = %T, want NullCache", c)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c, err := CacheConfig{Backend: CacheRedis, RedisURL: "redis://" + mr.Addr()}.OpenCache()
		if err != nil {
			t.Fatal(err)
		}
		defer c.Close()
		if _, ok := c.(*cache.ScopedCache); !ok {
			t.Errorf("OpenCache() = %T, want ScopedCache over redis", c)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := CacheConfig{Backend: "memcached"}.OpenCache()
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("err = %v, want INVALID_CONFIG", err)
		}
	})
}
