package cache

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/factcheck/internal/model"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey(KindVerify, "Paris est la capitale de la France.")
	b := CacheKey(KindVerify, "Paris est la capitale de la France!")
	c := CacheKey(KindSearch, "Paris est la capitale de la France.")

	if !strings.HasPrefix(a, "factcheck:v1:verify:") {
		t.Errorf("Unexpected key prefix: %s", a)
	}
	if a == b {
		t.Error("Expected different inputs to produce different keys")
	}
	if a == c {
		t.Error("Expected different kinds to produce different keys")
	}
	if a != CacheKey(KindVerify, "Paris est la capitale de la France.") {
		t.Error("Expected keys to be deterministic")
	}

	// Inputs sharing a long prefix must not collide
	prefix := strings.Repeat("x", 200)
	if CacheKey(KindVerify, prefix+"a") == CacheKey(KindVerify, prefix+"b") {
		t.Error("Expected keys for long inputs to differ")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Hour, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss on empty cache")
	}

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, found := c.Get("k"); !found || string(got) != "v" {
		t.Errorf("Expected hit with v, got %q %v", got, found)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	_ = c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after clear, got %d", c.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Hour, time.Minute)

	_ = c.Set("short", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("short"); found {
		t.Error("Expected entry to expire")
	}
}

func openTestSQLite(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := OpenSQLiteCache(filepath.Join(t.TempDir(), "cache", "factcheck.db"), time.Hour)
	if err != nil {
		t.Fatalf("OpenSQLiteCache failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLiteCache(t *testing.T) {
	c := openTestSQLite(t)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss on empty cache")
	}

	if err := c.Set("k", []byte("first"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set("k", []byte("second"), 0); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	if got, found := c.Get("k"); !found || string(got) != "second" {
		t.Errorf("Expected overwritten value, got %q %v", got, found)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after clear, got %d", c.Len())
	}
}

func TestSQLiteCache_ExpiryAndSweep(t *testing.T) {
	c := openTestSQLite(t)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set("old", []byte("1"), time.Minute)
	_ = c.Set("older", []byte("2"), time.Minute)
	_ = c.Set("fresh", []byte("3"), 48*time.Hour)

	now = now.Add(2 * time.Minute)

	if c.Len() != 1 {
		t.Errorf("Expected 1 unexpired entry, got %d", c.Len())
	}
	if _, found := c.Get("old"); found {
		t.Error("Expected expired entry to miss")
	}

	removed, err := c.Sweep()
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected sweep to remove the remaining expired entry, removed %d", removed)
	}
	if _, found := c.Get("fresh"); !found {
		t.Error("Expected fresh entry to survive the sweep")
	}
}

func TestSQLiteCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factcheck.db")

	first, err := OpenSQLiteCache(path, time.Hour)
	if err != nil {
		t.Fatalf("OpenSQLiteCache failed: %v", err)
	}
	_ = first.Set("k", []byte("persisted"), 0)
	_ = first.Close()

	second, err := OpenSQLiteCache(path, time.Hour)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer func() { _ = second.Close() }()

	if got, found := second.Get("k"); !found || string(got) != "persisted" {
		t.Errorf("Expected persisted value after reopen, got %q %v", got, found)
	}
}

func TestLayeredCache_PromotesFromPersistent(t *testing.T) {
	memory := NewMemoryCache(time.Hour, time.Minute)
	persistent := openTestSQLite(t)
	layered := NewLayeredCache(memory, persistent)

	_ = persistent.Set("k", []byte("v"), 0)

	if got, found := layered.Get("k"); !found || string(got) != "v" {
		t.Fatalf("Expected hit from persistent layer, got %q %v", got, found)
	}
	if _, found := memory.Get("k"); !found {
		t.Error("Expected value promoted to memory")
	}

	_ = layered.Set("both", []byte("x"), 0)
	if _, found := persistent.Get("both"); !found {
		t.Error("Expected Set to write through to persistent layer")
	}
	if layered.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", layered.Len())
	}

	if err := layered.Delete("both"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := layered.Get("both"); found {
		t.Error("Expected miss after delete")
	}
}

func TestLayeredCache_PromotionKeepsRemainingTTL(t *testing.T) {
	memory := NewMemoryCache(time.Hour, time.Minute)
	persistent := openTestSQLite(t)
	layered := NewLayeredCache(memory, persistent)

	_ = persistent.Set("short", []byte("v"), 150*time.Millisecond)

	if _, found := layered.Get("short"); !found {
		t.Fatal("Expected hit from persistent layer")
	}
	if _, found := memory.Get("short"); !found {
		t.Fatal("Expected value promoted to memory")
	}

	time.Sleep(300 * time.Millisecond)

	if _, found := memory.Get("short"); found {
		t.Error("Expected promoted entry to expire with the persistent copy")
	}
	if _, found := layered.Get("short"); found {
		t.Error("Expected layered miss after expiry")
	}
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache(time.Hour, time.Minute)

	want := model.VerificationResult{
		OverallConfidence: 0.43,
		Claims: []model.ClaimVerdict{
			{Text: "Paris est la capitale de la France", Confidence: 0.3, Status: model.StatusDisputed},
		},
	}
	key := CacheKey(KindVerify, "Paris est la capitale de la France.")

	if err := SetJSON(c, key, want, 0); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	got, found := GetJSON[model.VerificationResult](c, key)
	if !found {
		t.Fatal("Expected hit")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Cached value mismatch (-want +got):\n%s", diff)
	}

	_ = c.Set("corrupt", []byte("{not json"), 0)
	if _, found := GetJSON[model.VerificationResult](c, "corrupt"); found {
		t.Error("Expected undecodable entry to count as a miss")
	}
}

func TestNew(t *testing.T) {
	memoryOnly, err := New(model.CacheConfig{TTL: time.Hour})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := memoryOnly.(*MemoryCache); !ok {
		t.Errorf("Expected memory cache without a path, got %T", memoryOnly)
	}

	layered, err := New(model.CacheConfig{TTL: time.Hour, Path: filepath.Join(t.TempDir(), "c.db")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = layered.Close() }()
	if _, ok := layered.(*LayeredCache); !ok {
		t.Errorf("Expected layered cache with a path, got %T", layered)
	}
}

func TestRunJanitor(t *testing.T) {
	c := openTestSQLite(t)
	_ = c.Set("expired", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunJanitor(ctx, NewLayeredCache(NewMemoryCache(time.Hour, time.Minute), c), 5*time.Millisecond, func(err error) {
			t.Errorf("Unexpected sweep error: %v", err)
		})
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		var n int
		_ = c.db.QueryRow("SELECT COUNT(*) FROM cache_entries").Scan(&n)
		if n == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done

	var n int
	_ = c.db.QueryRow("SELECT COUNT(*) FROM cache_entries").Scan(&n)
	if n != 0 {
		t.Errorf("Expected janitor to sweep expired rows, %d left", n)
	}
}

func TestRunJanitor_IgnoresSelfExpiringCaches(t *testing.T) {
	done := make(chan struct{})
	go func() {
		RunJanitor(context.Background(), NewMemoryCache(time.Hour, time.Minute), time.Millisecond, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected RunJanitor to return immediately for memory caches")
	}
}
