package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var (
	errTimeout = errors.New("i/o timeout")
	errDenied  = errors.New("NOPERM")
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

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache reported a hit")
	}

	png := []byte{0x89, 'P', 'N', 'G'}
	if err := c.Set(ctx, "k", png, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(got) != string(png) {
		t.Errorf("Get = %v, want %v", got, png)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key still present")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("svg"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
	}
}

func TestNewFileCacheEmptyDir(t *testing.T) {
	if _, err := NewFileCache(""); err == nil {
		t.Error("empty dir should fail")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		url  string
		want string
	}{
		{"", "*cache.NullCache"},
		{"none", "*cache.NullCache"},
		{dir, "*cache.FileCache"},
		{"file://" + dir, "*cache.FileCache"},
		{"redis://localhost:6379/0", "*cache.RedisCache"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, err := Open(tt.url)
			if err != nil {
				t.Fatalf("Open(%q) error = %v", tt.url, err)
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("Open(%q) = %s, want %s", tt.url, got, tt.want)
			}
		})
	}

	if _, err := Open("s3://bucket"); err == nil {
		t.Error("unsupported scheme should fail")
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *NullCache:
		return "*cache.NullCache"
	case *FileCache:
		return "*cache.FileCache"
	case *RedisCache:
		return "*cache.RedisCache"
	}
	return "unknown"
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("AGENDAGRAPH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("AGENDAGRAPH_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(url)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := c.Ping(ctx); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	key := NewScopedKeyer(nil, "test:").ArtifactKey(t.Name(), ArtifactKeyOpts{Engine: "embedded", Format: "svg"})
	defer c.Delete(ctx, key)

	if err := c.Set(ctx, key, []byte("<svg/>"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(got) != "<svg/>" {
		t.Errorf("Get = %q, %v, %v", got, hit, err)
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

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	text := "graph TD\nNTheme[\"Theme\"]\n"

	ak1 := k.ArtifactKey(text, ArtifactKeyOpts{Engine: "mermaid", Format: "svg"})
	ak2 := k.ArtifactKey(text, ArtifactKeyOpts{Engine: "mermaid", Format: "png"})
	ak3 := k.ArtifactKey(text, ArtifactKeyOpts{Engine: "graphviz", Format: "svg"})
	ak4 := k.ArtifactKey(text+" ", ArtifactKeyOpts{Engine: "mermaid", Format: "svg"})
	if ak1 == ak2 || ak1 == ak3 || ak1 == ak4 {
		t.Error("Different inputs should produce different keys")
	}
	if ak1 != k.ArtifactKey(text, ArtifactKeyOpts{Engine: "mermaid", Format: "svg"}) {
		t.Error("ArtifactKey should be deterministic")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey = %s, want artifact: prefix", ak1)
	}
}

func TestHashKeySeparatesParts(t *testing.T) {
	if hashKey("p", "ab", "c") == hashKey("p", "a", "bc") {
		t.Error("part boundaries should change the key")
	}
}

func TestFileCacheStoresRawBytes(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	png := []byte("\x89PNG\r\n\x1a\n")
	if err := c.Set(ctx, "img", png, 0); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(c.path("img"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "AGC1") || !strings.HasSuffix(string(raw), string(png)) {
		t.Errorf("entry = %q", raw)
	}
	if filepath.Ext(c.path("img")) != ".img" {
		t.Errorf("path = %s", c.path("img"))
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "agendagraph:")
	opts := ArtifactKeyOpts{Engine: "embedded", Format: "svg"}

	want := "agendagraph:" + inner.ArtifactKey("x", opts)
	if got := scoped.ArtifactKey("x", opts); got != want {
		t.Errorf("ScopedKeyer ArtifactKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("x", ArtifactKeyOpts{})
	if !strings.HasPrefix(key, "prefix:artifact:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestTransient(t *testing.T) {
	if transient(nil) != nil {
		t.Error("transient(nil) should be nil")
	}
	err := transient(errTimeout)
	if !isTransient(err) {
		t.Error("marked error should be transient")
	}
	if err.Error() != errTimeout.Error() {
		t.Errorf("message changed: %s", err)
	}
	if !errors.Is(err, errTimeout) {
		t.Error("marked error should unwrap to the cause")
	}
	if isTransient(errDenied) {
		t.Error("unmarked error should not be transient")
	}
}

func TestClassify(t *testing.T) {
	if !isTransient(classify(timeoutErr{})) {
		t.Error("timeouts should be transient")
	}
	if isTransient(classify(errDenied)) {
		t.Error("server replies should not be transient")
	}
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}

func TestWithRetry(t *testing.T) {
	backoff = time.Millisecond
	t.Cleanup(func() { backoff = 100 * time.Millisecond })
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"permanent", 5, errDenied, 1, true},
		{"recovers", 1, errTimeout, 2, false},
		{"exhausted", 5, errTimeout, maxAttempts, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := withRetry(ctx, func() error {
				calls++
				if calls > tt.failures {
					return nil
				}
				if tt.err == errTimeout {
					return transient(tt.err)
				}
				return tt.err
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

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, func() error { return transient(errTimeout) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
