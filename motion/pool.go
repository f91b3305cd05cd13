package motion

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Reporter observes job progress. Calls come from worker goroutines, so
// implementations must be safe for concurrent use.
type Reporter interface {
	// JobStarted is called right before the job's process is spawned.
	JobStarted(worker int, job *JobSpec)
	// JobFinished is called once per job. worker is -1 for jobs that never
	// started because the batch was cancelled.
	JobFinished(worker int, res *RunResult)
}

type nopReporter struct{}

func (nopReporter) JobStarted(int, *JobSpec)    {}
func (nopReporter) JobFinished(int, *RunResult) {}

// Pool executes batches of independent jobs with bounded parallelism. It is
// created with NewPool and released with Close; Close waits for batches that
// are still running.
type Pool struct {
	workers  int
	executor Executor

	mu     sync.Mutex
	closed bool
	active sync.WaitGroup
}

// NewPool creates a pool running at most workers jobs at once. A
// non-positive count means one worker per CPU.
func NewPool(workers int, executor Executor) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers, executor: executor}
}

// Workers returns the concurrency bound.
func (p *Pool) Workers() int { return p.workers }

// Run executes every job exactly once and blocks until all have finished.
// Results are indexed like jobs; completion order is not defined. A failing
// job never stops its siblings. If ctx is cancelled, jobs that have not
// started yet are not spawned and get a result carrying ctx.Err().
func (p *Pool) Run(ctx context.Context, jobs []*JobSpec, rep Reporter) ([]*RunResult, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.active.Add(1)
	p.mu.Unlock()
	defer p.active.Done()

	if rep == nil {
		rep = nopReporter{}
	}

	results := make([]*RunResult, len(jobs))

	slots := make(chan int, p.workers)
	for i := 0; i < p.workers; i++ {
		slots <- i
	}

	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = notStarted(job, err)
			rep.JobFinished(-1, results[i])
			continue
		}

		g.Go(func() error {
			worker := <-slots
			defer func() { slots <- worker }()

			if err := ctx.Err(); err != nil {
				results[i] = notStarted(job, err)
				rep.JobFinished(-1, results[i])
				return nil
			}

			rep.JobStarted(worker, job)
			res := p.executor.Execute(ctx, job)
			results[i] = res
			rep.JobFinished(worker, res)
			return nil
		})
	}

	_ = g.Wait()
	return results, nil
}

// Close stops the pool from accepting new batches and waits for running ones.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.active.Wait()
}

func notStarted(job *JobSpec, err error) *RunResult {
	now := time.Now()
	return &RunResult{Job: job, ExitCode: -1, Err: err, Started: now, Finished: now}
}
