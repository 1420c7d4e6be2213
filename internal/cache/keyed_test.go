package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrLoadDedup(t *testing.T) {
	c := NewKeyed[string, int]()

	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(ctx context.Context, key string) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const n = 20
	var wg sync.WaitGroup
	results := make([]int, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrLoad(context.Background(), "tt0133093", loader)
		}(i)
	}

	// Let all goroutines reach the cache before releasing the loader
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("loader ran %d times, want 1", got)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d got error: %v", i, errs[i])
		}
		if results[i] != 42 {
			t.Errorf("caller %d got %d, want 42", i, results[i])
		}
	}
}

func TestGetOrLoadCachesValue(t *testing.T) {
	c := NewKeyed[string, string]()

	var calls int
	loader := func(ctx context.Context, key string) (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := c.GetOrLoad(context.Background(), "k", loader); err != nil {
			t.Fatalf("GetOrLoad failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("loader ran %d times, want 1", calls)
	}
	if c.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", c.Len())
	}
}

func TestGetOrLoadFailureNotPoisoning(t *testing.T) {
	c := NewKeyed[string, int]()

	boom := errors.New("boom")
	var calls int
	loader := func(ctx context.Context, key string) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}

	if _, err := c.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected load failure, got %v", err)
	}
	if c.Len() != 0 {
		t.Error("failed load must cache nothing")
	}

	v, err := c.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("retry after failure should load fresh, got %v", err)
	}
	if v != 7 {
		t.Errorf("got %d, want 7", v)
	}
	if calls != 2 {
		t.Errorf("loader ran %d times, want 2", calls)
	}
}

func TestGetOrLoadFailurePropagatesToWaiters(t *testing.T) {
	c := NewKeyed[string, int]()

	boom := errors.New("boom")
	release := make(chan struct{})
	loader := func(ctx context.Context, key string) (int, error) {
		<-release
		return 0, boom
	}

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.GetOrLoad(context.Background(), "k", loader)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, boom) {
			t.Errorf("waiter %d got %v, want load failure", i, err)
		}
	}
}

func TestGetOrLoadWaiterCancellation(t *testing.T) {
	c := NewKeyed[string, int]()

	release := make(chan struct{})
	loader := func(ctx context.Context, key string) (int, error) {
		<-release
		return 1, nil
	}

	go c.GetOrLoad(context.Background(), "k", loader)
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GetOrLoad(ctx, "k", loader); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled waiter got %v, want context.Canceled", err)
	}

	// The original load must still complete and store its value
	close(release)
	time.Sleep(20 * time.Millisecond)
	if v, ok := c.Get("k"); !ok || v != 1 {
		t.Errorf("load result not stored after waiter cancellation: %d %v", v, ok)
	}
}

func TestClear(t *testing.T) {
	c := NewKeyed[string, int]()
	loader := func(ctx context.Context, key string) (int, error) { return 1, nil }

	c.GetOrLoad(context.Background(), "a", loader)
	c.GetOrLoad(context.Background(), "b", loader)
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
}
