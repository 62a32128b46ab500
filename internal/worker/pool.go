package worker

import (
	"context"
	"sync"
)

// Job is a unit of work producing a value
type Job[R any] func(ctx context.Context) R

// Result is a job's value in submission order. Done is false when the job
// never ran because the pool was cancelled first.
type Result[R any] struct {
	Value R
	Done  bool
}

type task[R any] struct {
	index int
	job   Job[R]
}

type outcome[R any] struct {
	index int
	value R
}

// Pool runs jobs on a fixed number of workers and returns their results in
// submission order. Submit must be called from a single goroutine.
type Pool[R any] struct {
	workers   int
	jobs      chan task[R]
	results   chan outcome[R]
	collected map[int]R
	collectWG sync.WaitGroup
	submitted int
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a new worker pool bound to ctx
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers:   workers,
		jobs:      make(chan task[R], workers*2),
		results:   make(chan outcome[R], workers*2),
		collected: make(map[int]R),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts the workers and the result collector
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	// Drain results continuously so workers never block on a full channel
	p.collectWG.Add(1)
	go func() {
		defer p.collectWG.Done()
		for o := range p.results {
			p.collected[o.index] = o.value
		}
	}()
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()

	for t := range p.jobs {
		if p.ctx.Err() != nil {
			continue
		}
		p.results <- outcome[R]{index: t.index, value: t.job(p.ctx)}
	}
}

// Submit queues a job. It returns false if the pool was cancelled.
func (p *Pool[R]) Submit(job Job[R]) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- task[R]{index: p.submitted, job: job}:
		p.submitted++
		return true
	}
}

// Wait stops accepting jobs, waits for queued ones, and returns all results in
// submission order
func (p *Pool[R]) Wait() []Result[R] {
	p.closeJobs()
	p.wg.Wait()
	close(p.results)
	p.collectWG.Wait()
	p.cancel()

	out := make([]Result[R], p.submitted)
	for i := range out {
		if v, ok := p.collected[i]; ok {
			out[i] = Result[R]{Value: v, Done: true}
		}
	}
	return out
}

// Shutdown cancels queued jobs; running jobs see a cancelled context. Call
// Wait afterwards to collect what finished.
func (p *Pool[R]) Shutdown() {
	p.cancel()
}

func (p *Pool[R]) closeJobs() {
	p.closeOnce.Do(func() {
		close(p.jobs)
	})
}
