package tickcache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrLoadCoalescesConcurrentCallers(t *testing.T) {
	c, err := New[string, int](8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	var loadCount int64
	loader := func(ctx context.Context) (int, error) {
		atomic.AddInt64(&loadCount, 1)
		time.Sleep(50 * time.Millisecond)
		return 42, nil
	}

	const callers = 20
	var wg sync.WaitGroup
	wg.Add(callers)
	results := make([]int, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		go func(idx int) {
			defer wg.Done()
			v, err := c.GetOrLoad(context.Background(), "k", time.Second, loader)
			results[idx] = v
			errs[idx] = err
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt64(&loadCount); got != 1 {
		t.Fatalf("loader ran %d times, want exactly 1", got)
	}
	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: unexpected error %v", i, err)
		}
		if results[i] != 42 {
			t.Fatalf("caller %d: result = %d, want 42", i, results[i])
		}
	}

	if v, ok := c.Get("k"); !ok || v != 42 {
		t.Fatalf("Get(k) after load = (%d, %v), want (42, true)", v, ok)
	}
}

func TestGetOrLoadReturnsCachedValueWithoutLoading(t *testing.T) {
	c, err := New[string, string](8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("k", "cached", time.Second)

	called := false
	v, err := c.GetOrLoad(context.Background(), "k", time.Second, func(ctx context.Context) (string, error) {
		called = true
		return "loaded", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("loader called on a cache hit")
	}
	if v != "cached" {
		t.Fatalf("GetOrLoad = %q, want %q", v, "cached")
	}
}

func TestGetOrLoadPropagatesLoaderError(t *testing.T) {
	c, err := New[string, int](8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	wantErr := fmt.Errorf("load failed")
	_, err = c.GetOrLoad(context.Background(), "k", time.Second, func(ctx context.Context) (int, error) {
		return 0, wantErr
	})
	if err != wantErr {
		t.Fatalf("GetOrLoad error = %v, want %v", err, wantErr)
	}
	if c.Has("k") {
		t.Fatalf("Has(k) = true after a failed load")
	}
}

func TestGetOrLoadHonorsContextCancellation(t *testing.T) {
	c, err := New[string, int](8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	loader := func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 1, nil
	}

	go func() {
		defer close(done)
		_, _ = c.GetOrLoad(context.Background(), "k", time.Second, loader)
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.GetOrLoad(ctx, "k", time.Second, loader)
	if err != context.Canceled {
		t.Fatalf("GetOrLoad error = %v, want context.Canceled", err)
	}

	close(release)
	<-done
}
