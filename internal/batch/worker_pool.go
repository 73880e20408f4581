package batch

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Job is one independent optimizer run identified by its seed
type Job struct {
	ID    string
	Index int
	Seed  int64
}

// JobResult is the outcome of a job
type JobResult struct {
	Job      Job
	Value    interface{}
	Duration time.Duration
	Error    error
}

// ProcessFunc executes a single job. It should return promptly once ctx is done.
type ProcessFunc func(ctx context.Context, job Job) (interface{}, error)

// WorkerPool manages parallel execution of independent runs
type WorkerPool struct {
	workerCount int
	jobQueue    chan Job
	resultQueue chan JobResult
	process     ProcessFunc
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewWorkerPool creates a new worker pool. A non-positive workerCount uses one
// worker per CPU.
func NewWorkerPool(parent context.Context, workerCount, jobBufferSize int, process ProcessFunc) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(parent)

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan Job, jobBufferSize),
		resultQueue: make(chan JobResult, jobBufferSize),
		process:     process,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the worker pool
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Close stops accepting jobs; workers exit once the queue drains and the
// result channel is closed after the last one returns
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
		wp.cancel()
	}()
}

// SubmitJob submits a job to the pool
func (wp *WorkerPool) SubmitJob(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// GetResults returns the result channel for collecting completed jobs
func (wp *WorkerPool) GetResults() <-chan JobResult {
	return wp.resultQueue
}

// WorkerCount returns the number of workers
func (wp *WorkerPool) WorkerCount() int {
	return wp.workerCount
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		start := time.Now()
		var result JobResult
		if err := wp.ctx.Err(); err != nil {
			result = JobResult{Job: job, Error: err}
		} else {
			value, err := wp.process(wp.ctx, job)
			result = JobResult{Job: job, Value: value, Duration: time.Since(start), Error: err}
		}
		// resultQueue is sized for every submitted job, so this never blocks
		wp.resultQueue <- result
	}
}
