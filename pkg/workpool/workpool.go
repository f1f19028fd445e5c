// Package workpool provides a bounded worker pool for fanning out
// independent API calls. Bulk commands use it to resolve many issue
// references concurrently instead of one round trip at a time.
package workpool

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

var (
	defaultNumWorkers uint = 4
	defaultQueueSize  uint = 64
)

// Job is a unit of work for the worker pool to execute.
type Job func(ctx context.Context)

// Config is the configuration options for the worker pool.
type Config struct {
	// NumWorkers is the number of concurrent workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel.
	QueueSize uint

	// Logger receives per-worker debug records. Optional.
	Logger *slog.Logger
}

// Pool executes jobs across a fixed set of worker goroutines.
type Pool struct {
	ctx    context.Context
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger
}

// New creates a Pool and starts its worker goroutines. Jobs receive the
// given context so an interrupt cancels in-flight API calls.
func New(ctx context.Context, c *Config) *Pool {
	if c == nil {
		c = &Config{}
	}
	workers := c.NumWorkers
	if workers == 0 {
		workers = defaultNumWorkers
	}
	size := c.QueueSize
	if size == 0 {
		size = defaultQueueSize
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Pool{
		ctx:    ctx,
		queue:  make(chan Job, size),
		logger: logger,
	}

	p.wg.Add(int(workers))
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// Enqueue submits a job, blocking when the queue is full.
func (p *Pool) Enqueue(job Job) {
	p.queue <- job
}

// Close signals workers to stop and waits for in-flight jobs to drain.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker continuously pulls jobs off the queue until it is closed.
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		job(p.ctx)
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}
