package tickcache

import (
	"testing"
	"time"

	"github.com/arynux/tickcache/internal/cache"
)

func TestCacheLRUCorrectness(t *testing.T) {
	c, err := New[string, int](3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("a", 1, 10*time.Second)
	c.Set("b", 2, 10*time.Second)
	c.Set("c", 3, 10*time.Second)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = (%d, %v), want (1, true)", v, ok)
	}

	c.Set("d", 4, 10*time.Second)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = (%d, %v), want (1, true)", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("Get(b) = present, want absent (least recently used)")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("Get(c) = (%d, %v), want (3, true)", v, ok)
	}
	if v, ok := c.Get("d"); !ok || v != 4 {
		t.Fatalf("Get(d) = (%d, %v), want (4, true)", v, ok)
	}
	if size := c.Size(); size != 3 {
		t.Fatalf("Size() = %d, want 3", size)
	}
}

func TestCacheSlidingExpiration(t *testing.T) {
	clk := cache.NewManualClock()
	c, err := New[string, int](8,
		WithClock[string, int](clk),
		WithTickInterval[string, int](50*time.Millisecond),
		WithUpdateTTLOnGet[string, int](true),
		WithPassiveExpiration[string, int](false),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("k", 1, 200*time.Millisecond)

	clk.Advance(100 * time.Millisecond)
	if v, ok := c.Get("k"); !ok || v != 1 {
		t.Fatalf("Get(k) after 100ms = (%d, %v), want (1, true)", v, ok)
	}

	clk.Advance(120 * time.Millisecond)
	if v, ok := c.Get("k"); !ok || v != 1 {
		t.Fatalf("Get(k) after 220ms total = (%d, %v), want (1, true)", v, ok)
	}

	clk.Advance(220 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("Get(k) after a further 220ms without access = present, want absent")
	}
}

func TestCacheDefensiveExpireOnRead(t *testing.T) {
	clk := cache.NewManualClock()
	c, err := New[string, int](8,
		WithClock[string, int](clk),
		WithTickInterval[string, int](50*time.Millisecond),
		WithPassiveExpiration[string, int](true),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("k", 1, 150*time.Millisecond)
	clk.Set(200)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("Get(k) at 200ms = present, want absent")
	}
	if size := c.Size(); size != 0 {
		t.Fatalf("Size() after defensive expiry = %d, want 0", size)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, err := New[string, string](4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("a", "1", time.Second)
	c.Set("b", "2", time.Second)

	if !c.Delete("a") {
		t.Fatalf("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Fatalf("second Delete(a) = true, want false")
	}
	if c.Has("a") {
		t.Fatalf("Has(a) = true after delete")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("Size() after Clear = %d, want 0", c.Size())
	}
	if c.Has("b") {
		t.Fatalf("Has(b) = true after Clear")
	}
}

func TestCacheStatsReflectID(t *testing.T) {
	c, err := New[string, int](4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("a", 1, time.Second)
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	if stats.ID != c.ID() {
		t.Fatalf("Stats().ID = %v, want %v", stats.ID, c.ID())
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("Stats() = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestInvalidMaxEntries(t *testing.T) {
	if _, err := New[string, int](0); err != ErrInvalidMaxEntries {
		t.Fatalf("New(0) error = %v, want ErrInvalidMaxEntries", err)
	}
	if _, err := New[string, int](-1); err != ErrInvalidMaxEntries {
		t.Fatalf("New(-1) error = %v, want ErrInvalidMaxEntries", err)
	}
}
