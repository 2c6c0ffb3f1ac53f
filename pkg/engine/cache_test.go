package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock is a settable clock for deterministic cache tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestCacheServesWithinTTL(t *testing.T) {
	clk := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	cache := NewCache[string](time.Minute, clk.Now)

	calls := 0
	produce := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	items, age := cache.Get(produce)
	if len(items) != 2 || age != 0 {
		t.Fatalf("first get: items=%v age=%v", items, age)
	}

	clk.Advance(30 * time.Second)
	items, age = cache.Get(produce)
	if len(items) != 2 {
		t.Fatalf("second get: items=%v", items)
	}
	if age != 30*time.Second {
		t.Errorf("age = %v, want 30s", age)
	}
	if calls != 1 {
		t.Errorf("producer called %d times, want exactly 1", calls)
	}
}

func TestCacheRebuildsAfterTTL(t *testing.T) {
	clk := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	cache := NewCache[int](time.Minute, clk.Now)

	calls := 0
	produce := func() ([]int, error) {
		calls++
		return []int{calls}, nil
	}

	cache.Get(produce)
	clk.Advance(61 * time.Second)
	items, _ := cache.Get(produce)

	if calls != 2 {
		t.Errorf("producer called %d times, want 2", calls)
	}
	if len(items) != 1 || items[0] != 2 {
		t.Errorf("items = %v, want rebuilt result", items)
	}
}

func TestCacheStaleIfError(t *testing.T) {
	clk := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	cache := NewCache[string](time.Minute, clk.Now)

	cache.Get(func() ([]string, error) { return []string{"good"}, nil })
	clk.Advance(2 * time.Minute)

	items, _ := cache.Get(func() ([]string, error) {
		return nil, errors.New("feed down")
	})
	if len(items) != 1 || items[0] != "good" {
		t.Errorf("items = %v, want previous good result", items)
	}
}

func TestCacheStaleIfEmpty(t *testing.T) {
	clk := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	cache := NewCache[string](time.Minute, clk.Now)

	cache.Get(func() ([]string, error) { return []string{"good"}, nil })
	clk.Advance(2 * time.Minute)

	items, _ := cache.Get(func() ([]string, error) { return nil, nil })
	if len(items) != 1 || items[0] != "good" {
		t.Errorf("items = %v, want previous good result over empty rebuild", items)
	}
}

func TestCacheEmptyWithoutPrevious(t *testing.T) {
	clk := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	cache := NewCache[string](time.Minute, clk.Now)

	items, _ := cache.Get(func() ([]string, error) { return nil, errors.New("down") })
	if len(items) != 0 {
		t.Errorf("items = %v, want empty", items)
	}
}

func TestCacheCoalescesConcurrentRebuilds(t *testing.T) {
	clk := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	cache := NewCache[int](time.Minute, clk.Now)

	var calls atomic.Int32
	gate := make(chan struct{})
	produce := func() ([]int, error) {
		calls.Add(1)
		<-gate
		return []int{1}, nil
	}

	const workers = 10
	var started, done sync.WaitGroup
	started.Add(workers)
	done.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			started.Done()
			items, _ := cache.Get(produce)
			if len(items) != 1 {
				t.Errorf("worker got %v", items)
			}
			done.Done()
		}()
	}

	started.Wait()
	time.Sleep(50 * time.Millisecond) // let workers reach the rebuild
	close(gate)
	done.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("producer ran %d times, want 1", n)
	}
}
