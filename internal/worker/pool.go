package worker

import (
	"context"
	"sync"
)

// Task is a unit of work producing a result
type Task[R any] func(ctx context.Context) R

type indexedTask[R any] struct {
	index int
	run   Task[R]
}

// Pool runs tasks on a fixed number of workers and returns their results
// in submission order
type Pool[R any] struct {
	workers    int
	tasks      chan indexedTask[R]
	results    []R
	submitted  int
	mu         sync.Mutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	// sendMu guards closed and the task channel against sends after close
	sendMu sync.RWMutex
	closed bool
}

// NewPool creates a pool with the specified number of workers, bound to ctx
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers:    workers,
		tasks:      make(chan indexedTask[R], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			result := task.run(p.ctx)

			p.mu.Lock()
			p.results[task.index] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues a task. It blocks while the queue is full and drops the
// task once the pool has been shut down or waited on.
func (p *Pool[R]) Submit(task Task[R]) {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()
	if p.closed {
		return
	}

	p.mu.Lock()
	index := p.submitted
	p.submitted++
	var zero R
	p.results = append(p.results, zero)
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
	case p.tasks <- indexedTask[R]{index: index, run: task}:
	}
}

// Wait closes the queue, waits for the workers and returns one result per
// submitted task. Tasks that never ran leave the zero value.
func (p *Pool[R]) Wait() []R {
	p.closeTasks()
	p.wg.Wait()
	p.cancelFunc()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// Shutdown stops the workers without waiting for queued tasks
func (p *Pool[R]) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeTasks()
}

func (p *Pool[R]) closeTasks() {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
}
