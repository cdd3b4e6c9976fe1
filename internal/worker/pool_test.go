package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	p1 := NewPool[int](context.Background(), 5)
	if p1.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p1.workers)
	}

	p2 := NewPool[int](context.Background(), 0)
	if p2.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p2.workers)
	}

	p3 := NewPool[int](context.Background(), -1)
	if p3.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p3.workers)
	}
}

func TestPool_ResultsInSubmissionOrder(t *testing.T) {
	pool := NewPool[int](context.Background(), 4)
	pool.Start()

	count := 20
	for i := 0; i < count; i++ {
		pool.Submit(func(ctx context.Context) int {
			// Later tasks finish first
			time.Sleep(time.Duration(count-i) * time.Millisecond)
			return i * i
		})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	for i, got := range results {
		if got != i*i {
			t.Errorf("expected %d at index %d, got %d", i*i, i, got)
		}
	}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 10
	pool := NewPool[struct{}](context.Background(), workers)
	pool.Start()

	var current, maxConcurrent, completed int32
	totalJobs := 50

	for i := 0; i < totalJobs; i++ {
		pool.Submit(func(ctx context.Context) struct{} {
			curr := atomic.AddInt32(&current, 1)
			for {
				seen := atomic.LoadInt32(&maxConcurrent)
				if curr <= seen || atomic.CompareAndSwapInt32(&maxConcurrent, seen, curr) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			atomic.AddInt32(&completed, 1)
			return struct{}{}
		})
	}

	pool.Wait()

	if got := atomic.LoadInt32(&completed); got != int32(totalJobs) {
		t.Errorf("expected %d completed jobs, got %d", totalJobs, got)
	}
	if got := atomic.LoadInt32(&maxConcurrent); got > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", got, workers)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool[int](context.Background(), 2)
	pool.Start()
	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Submit(func(ctx context.Context) int { return 1 })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPool_SubmitRacingShutdown(t *testing.T) {
	for i := 0; i < 200; i++ {
		pool := NewPool[int](context.Background(), 2)
		pool.Start()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			pool.Shutdown()
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				pool.Submit(func(ctx context.Context) int { return 1 })
			}
		}()
		wg.Wait()

		// Submitting to a fully shut down pool must not panic on the closed queue
		pool.Submit(func(ctx context.Context) int { return 1 })
	}
}

func TestPool_SubmitAfterWait(t *testing.T) {
	pool := NewPool[int](context.Background(), 1)
	pool.Start()
	pool.Submit(func(ctx context.Context) int { return 7 })

	results := pool.Wait()
	pool.Submit(func(ctx context.Context) int { return 8 })

	if len(results) != 1 || results[0] != 7 {
		t.Errorf("expected [7], got %v", results)
	}
}

func TestPool_ShutdownStopsWaiting(t *testing.T) {
	pool := NewPool[int](context.Background(), 1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(func(ctx context.Context) int {
		close(started)
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
		return 1
	})
	<-started

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Shutdown timed out")
	}
}

func TestPool_CancelledParentLeavesZeroValues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool[int](ctx, 1)
	cancel()
	pool.Start()

	pool.Submit(func(ctx context.Context) int { return 7 })
	results := pool.Wait()

	if len(results) != 1 {
		t.Fatalf("expected 1 result slot, got %d", len(results))
	}
	if results[0] != 0 && results[0] != 7 {
		t.Errorf("unexpected result %d", results[0])
	}
}
