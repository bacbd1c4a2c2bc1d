package utils

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(3, 0)
	var running, peak int64

	for i := 0; i < 20; i++ {
		err := pool.Submit(context.Background(), func(context.Context) {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&running, -1)
		})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	pool.Wait()

	if peak > 3 {
		t.Errorf("peak concurrency: got %d, want at most 3", peak)
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 100
	pool := NewWorkerPool(3, rateLimitMs)

	var mu sync.Mutex
	var starts []time.Time
	for i := 0; i < 3; i++ {
		_ = pool.Submit(context.Background(), func(context.Context) {
			mu.Lock()
			starts = append(starts, time.Now())
			mu.Unlock()
		})
	}
	pool.Wait()

	if len(starts) != 3 {
		t.Fatalf("expected 3 jobs to run, got %d", len(starts))
	}
	first, last := starts[0], starts[0]
	for _, s := range starts[1:] {
		if s.Before(first) {
			first = s
		}
		if s.After(last) {
			last = s
		}
	}
	// Three starts spaced 100ms apart span at least 200ms, minus timer slack.
	if span := last.Sub(first); span < 190*time.Millisecond {
		t.Errorf("start span: got %v, want >= ~200ms", span)
	}
}

func TestWorkerPoolSkipsJobsAfterCancel(t *testing.T) {
	pool := NewWorkerPool(1, 50)
	ctx, cancel := context.WithCancel(context.Background())
	var ran int64

	_ = pool.Submit(ctx, func(context.Context) { atomic.AddInt64(&ran, 1) })
	cancel()
	pool.Wait()

	if err := pool.Submit(ctx, func(context.Context) { atomic.AddInt64(&ran, 1) }); err == nil {
		t.Error("Submit after cancel should return the context error")
	}
	pool.Wait()

	if ran > 1 {
		t.Errorf("jobs run: got %d, want at most 1", ran)
	}
}
