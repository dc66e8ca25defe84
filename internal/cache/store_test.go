package cache

import (
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T, maxEntries int) *Store[string, string] {
	t.Helper()
	s, err := New[string, string](Options[string, string]{
		MaxEntries: maxEntries,
		WheelSize:  64,
		TickMs:     50,
		Clock:      NewManualClock(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestStoreSetGetDelete(t *testing.T) {
	s := newTestStore(t, 16)
	s.Set("hello", "world", 10_000)

	got, ok := s.Get("hello")
	if !ok || got != "world" {
		t.Fatalf("unexpected (%q, %v)", got, ok)
	}

	if !s.Delete("hello") {
		t.Fatalf("expected delete to report true")
	}
	if _, ok := s.Get("hello"); ok {
		t.Fatalf("expected key deleted")
	}
}

func TestStoreTTLExpiration(t *testing.T) {
	clk := NewManualClock()
	s, err := New[string, string](Options[string, string]{
		MaxEntries: 8,
		WheelSize:  64,
		TickMs:     50,
		Clock:      clk,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.Set("temp", "v", 50)
	if _, ok := s.Get("temp"); !ok {
		t.Fatalf("expected key present immediately after set")
	}

	clk.Advance(200 * time.Millisecond)
	if _, ok := s.Get("temp"); ok {
		t.Fatalf("expected key expired")
	}
}

func TestStoreStatsCountsHitsAndMisses(t *testing.T) {
	s := newTestStore(t, 8)
	s.Set("a", "1", 10_000)

	s.Get("a")
	s.Get("missing")

	stats := s.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", stats)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := newTestStore(t, 32)
	const goroutines = 50
	const opsPer = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < opsPer; i++ {
				k := fmt.Sprintf("k-%d", i%100) // 100 distinct keys
				v := strconv.Itoa(id*opsPer + i)
				s.Set(k, v, 10_000)
				s.Get(k)
				if i%10 == 0 {
					s.Delete(k)
				}
			}
		}(g)
	}
	wg.Wait()

	if s.Size() < 0 {
		t.Fatalf("invalid size")
	}
}
