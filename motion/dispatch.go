package motion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DispatchOptions controls how a plan is executed and judged.
type DispatchOptions struct {
	RunID      string
	ExitPolicy ExitPolicy
	Skip       SkipPolicy
	Reporter   Reporter
	Log        logrus.FieldLogger
}

// Summary aggregates the outcome of a batch.
type Summary struct {
	Total         int
	Succeeded     int
	NonZeroExit   int
	SpawnFailed   int
	TimedOut      int
	Cancelled     int
	Skipped       int
	MetricMissing int
	Elapsed       time.Duration
}

// Failed counts the jobs that ran into trouble other than cancellation.
func (s Summary) Failed() int {
	return s.NonZeroExit + s.SpawnFailed + s.TimedOut
}

// Add counts one result.
func (s *Summary) Add(res *RunResult) {
	s.Total++

	var exitErr *ExitError
	var spawnErr *SpawnError
	switch {
	case res.Err == nil:
		s.Succeeded++
	case errors.As(res.Err, &exitErr):
		s.NonZeroExit++
	case errors.As(res.Err, &spawnErr):
		s.SpawnFailed++
	case errors.Is(res.Err, ErrTimeout):
		s.TimedOut++
	default:
		s.Cancelled++
	}

	if res.Exited() && res.MetricErr != nil {
		s.MetricMissing++
	}
}

// Dispatch runs plan on pool, logs each result according to the exit
// policy and returns the batch summary. Under ExitFail, or when the batch
// was cancelled, the error is non-nil once every job has been accounted for.
func Dispatch(ctx context.Context, pool *Pool, plan *Plan, opts DispatchOptions) (Summary, error) {
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		opts.Log = l
	}
	if opts.ExitPolicy == "" {
		opts.ExitPolicy = ExitWarn
	}

	started := time.Now()
	rep := &dispatchReporter{inner: opts.Reporter, opts: opts}
	if rep.inner == nil {
		rep.inner = nopReporter{}
	}

	results, err := pool.Run(ctx, plan.Jobs, rep)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, res := range results {
		sum.Add(res)
	}
	sum.Skipped = len(plan.Skipped)
	sum.Elapsed = time.Since(started)

	if sum.Cancelled > 0 {
		return sum, fmt.Errorf("batch cancelled with %d job(s) unfinished: %w", sum.Cancelled, context.Cause(ctx))
	}
	if opts.ExitPolicy == ExitFail && sum.Failed() > 0 {
		return sum, fmt.Errorf("%d of %d job(s) failed", sum.Failed(), sum.Total)
	}
	return sum, nil
}

// dispatchReporter logs and marks results before handing them on.
type dispatchReporter struct {
	inner Reporter
	opts  DispatchOptions
	mu    sync.Mutex
}

func (d *dispatchReporter) JobStarted(worker int, job *JobSpec) {
	d.opts.Log.WithFields(logrus.Fields{"job": job.ID, "source": job.Rel, "worker": worker}).Debug("Job started")
	d.inner.JobStarted(worker, job)
}

func (d *dispatchReporter) JobFinished(worker int, res *RunResult) {
	entry := d.opts.Log.WithFields(logrus.Fields{
		"job":      res.Job.ID,
		"source":   res.Job.Rel,
		"duration": res.Duration().Round(time.Millisecond).String(),
	})

	var exitErr *ExitError
	var spawnErr *SpawnError
	switch {
	case res.Err == nil:
		entry.Debug("Job finished")
		if d.opts.Skip.Mode == SkipMarker {
			if err := WriteMarker(res, d.opts.RunID); err != nil {
				entry.WithError(err).Error("Failed to write completion marker")
			}
		}
	case errors.As(res.Err, &exitErr):
		if d.opts.ExitPolicy == ExitIgnore {
			entry.WithField("status", exitErr.Code).Debug("Detection tool exited non-zero")
		} else {
			entry.WithField("status", exitErr.Code).Warn("Detection tool exited non-zero")
		}
	case errors.As(res.Err, &spawnErr):
		entry.WithError(spawnErr.Err).Error("Detection tool could not be started")
	case errors.Is(res.Err, ErrTimeout):
		entry.Warn("Job timed out and was killed")
	default:
		entry.WithError(res.Err).Debug("Job cancelled")
	}

	if res.Exited() && res.MetricErr != nil {
		entry.Info("Throughput not found in tool output")
	}

	// Keep a job's report lines together for reporters that are not
	// internally serialized.
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inner.JobFinished(worker, res)
}

type completionMarker struct {
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	FinishedAt time.Time `json:"finished_at"`
	FPS        float64   `json:"fps,omitempty"`
}

// WriteMarker records that res's job completed with a zero exit.
func WriteMarker(res *RunResult, runID string) error {
	data, err := json.MarshalIndent(completionMarker{
		RunID:      runID,
		Source:     res.Job.Source,
		FinishedAt: res.Finished.UTC(),
		FPS:        res.FPS,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(res.Job.MarkerPath(), append(data, '\n'), 0o644)
}
