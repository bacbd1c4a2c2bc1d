package utils

import (
	"context"
	"sync"
	"time"
)

// WorkerPool runs jobs on a bounded number of goroutines and spaces job
// starts at least rateLimit apart.
type WorkerPool struct {
	slots     chan struct{}
	rateLimit time.Duration
	wg        sync.WaitGroup

	mu        sync.Mutex
	nextStart time.Time
}

// NewWorkerPool creates a WorkerPool with the given concurrency and rate
// limit in milliseconds.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		slots:     make(chan struct{}, maxWorkers),
		rateLimit: time.Duration(rateLimitMs) * time.Millisecond,
	}
}

// Submit runs job once a slot is free and its start time has come. It
// returns ctx.Err() without running job when ctx ends first.
func (wp *WorkerPool) Submit(ctx context.Context, job func(ctx context.Context)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case wp.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.slots }()

		if err := wp.waitTurn(ctx); err != nil {
			return
		}
		job(ctx)
	}()
	return nil
}

// Wait blocks until all submitted jobs have finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// waitTurn reserves the next start slot and sleeps until it.
func (wp *WorkerPool) waitTurn(ctx context.Context) error {
	wp.mu.Lock()
	now := time.Now()
	start := wp.nextStart
	if start.Before(now) {
		start = now
	}
	wp.nextStart = start.Add(wp.rateLimit)
	wp.mu.Unlock()

	wait := time.Until(start)
	if wait <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
