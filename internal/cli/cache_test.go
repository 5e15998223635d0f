package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/agendagraph/pkg/cache"
	"github.com/matzehuels/agendagraph/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join("/tmp/xdg-cache", "agendagraph"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", "agendagraph"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache("", true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("noCache gave %T, want *cache.NullCache", c)
	}

	c, err = newCache("", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("default gave %T, want *cache.FileCache", c)
	}

	c, err = newCache("none", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none gave %T, want *cache.NullCache", c)
	}
}

func TestNewRunnerScopesSharedCacheKeys(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	opts := cache.ArtifactKeyOpts{Engine: "graphviz", Format: "svg"}

	cfg := config.Default()
	cfg.CacheURL = "redis://localhost:6379/0"
	shared, err := c.newRunner(cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	defer shared.Close()
	if key := shared.Keyer.ArtifactKey("graph TD", opts); !strings.HasPrefix(key, "agendagraph:artifact:") {
		t.Errorf("redis key = %q, want agendagraph: prefix", key)
	}

	local, err := c.newRunner(config.Default(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer local.Close()
	if key := local.Keyer.ArtifactKey("graph TD", opts); !strings.HasPrefix(key, "artifact:") {
		t.Errorf("file key = %q, want no prefix", key)
	}
}

func TestCacheCommands(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir := filepath.Join(xdg, "agendagraph")

	out, err := runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b"} {
		if err := fc.Set(ctx, key, []byte("<svg/>"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	var status bytes.Buffer
	setUIOut(t, &status)
	if _, err := runCLI(t, "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(status.String(), "Cleared 2 cached images") {
		t.Errorf("status = %q", status.String())
	}
	if _, hit, _ := fc.Get(ctx, "a"); hit {
		t.Error("entry survived cache clear")
	}
}
