package protocol

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/dkarasev/zkid/internal/common"
)

// WorkerPool bounds the number of concurrent CPU-bound modPow operations
// independently of the HTTP/I/O concurrency level (spec.md §5): a burst of
// verifies must not starve other network traffic, and a backlog beyond
// capacity is rejected rather than grown unbounded.
type WorkerPool struct {
	sem      *semaphore.Weighted
	queueCap int64
	inflight chan struct{}
}

// NewWorkerPool creates a pool that runs at most size tasks concurrently
// and admits at most queueCap additional callers waiting for a slot before
// it starts failing fast with ErrDependencyUnavailable.
func NewWorkerPool(size, queueCap int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if queueCap < 0 {
		queueCap = 0
	}
	return &WorkerPool{
		sem:      semaphore.NewWeighted(int64(size)),
		queueCap: int64(queueCap),
		inflight: make(chan struct{}, queueCap+size),
	}
}

// Submit runs fn on the pool and returns its result. If the queue is full,
// it returns ErrDependencyUnavailable immediately without running fn.
func (p *WorkerPool) Submit(ctx context.Context, fn func() (any, error)) (any, error) {
	select {
	case p.inflight <- struct{}{}:
	default:
		return nil, fmt.Errorf("%w: modPow worker queue full", common.ErrDependencyUnavailable)
	}
	defer func() { <-p.inflight }()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDependencyUnavailable, err)
	}
	defer p.sem.Release(1)

	return fn()
}
