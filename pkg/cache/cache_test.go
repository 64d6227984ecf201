package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "index"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "a", []byte("alpha"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "alpha" {
		t.Fatalf("Get(a) = %q, %v, %v", data, hit, err)
	}

	t.Run("expired", func(t *testing.T) {
		if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
			t.Fatal(err)
		}
		time.Sleep(time.Millisecond)
		if _, hit, _ := c.Get(ctx, "old"); hit {
			t.Error("expired entry should miss")
		}
		if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
			t.Error("expired entry should be removed")
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		path := c.path("bad")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
			t.Errorf("corrupt entry = hit %v, err %v; want clean miss", hit, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := c.Delete(ctx, "a"); err != nil {
			t.Fatal(err)
		}
		if _, hit, _ := c.Get(ctx, "a"); hit {
			t.Error("deleted entry should miss")
		}
		if err := c.Delete(ctx, "a"); err != nil {
			t.Errorf("deleting a missing key should succeed: %v", err)
		}
	})
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"one", "two", "three"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir itself should survive Clear: %v", err)
	}
}

func TestScopedCache(t *testing.T) {
	ctx := context.Background()
	inner, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := NewScopedCache(inner, "project-a:")
	b := NewScopedCache(inner, "project-b:")

	if err := a.Set(ctx, "k", []byte("from a"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := b.Get(ctx, "k"); hit {
		t.Error("scopes should not see each other's keys")
	}
	if data, hit, _ := inner.Get(ctx, "project-a:k"); !hit || string(data) != "from a" {
		t.Errorf("inner key = %q, %v", data, hit)
	}
}

func TestScopedCacheNilInner(t *testing.T) {
	c := NewScopedCache(nil, "prefix:")
	if _, hit, err := c.Get(context.Background(), "k"); hit || err != nil {
		t.Errorf("nil inner should behave like NullCache: hit %v, err %v", hit, err)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should still match ErrNetwork")
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestBackoffDo(t *testing.T) {
	fast := Backoff{Attempts: 3, Initial: time.Millisecond}

	tests := []struct {
		name      string
		failures  int   // calls that fail before success
		err       error // error returned by failing calls
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"not retryable", 5, ErrCacheMiss, 1, true},
		{"recovers", 1, Retryable(ErrNetwork), 2, false},
		{"exhausted", 5, Retryable(ErrNetwork), 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fast.Do(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffDefaults(t *testing.T) {
	if got := (Backoff{}).orDefault(); got != DefaultBackoff {
		t.Errorf("zero Backoff = %+v, want DefaultBackoff", got)
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Backoff{Attempts: 3, Initial: time.Hour}.Do(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Do = %v, want context.Canceled", err)
	}
}
