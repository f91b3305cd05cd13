package motion

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// DefaultTool is the motion-detection binary invoked per job.
const DefaultTool = "dvr-scan"

// RunResult is the structured outcome of one job.
type RunResult struct {
	Job       *JobSpec
	Stdout    string
	Stderr    string
	ExitCode  int   // -1 when the process never started or was killed
	Err       error // nil, *SpawnError, *ExitError, ErrTimeout or a context error
	FPS       float64
	MetricErr error // ErrMetricNotFound when no throughput figure was found
	Started   time.Time
	Finished  time.Time
}

// OK reports whether the process ran and exited with status zero.
func (r *RunResult) OK() bool { return r.Err == nil }

// Exited reports whether the process ran to an exit status of its own, zero
// or not. Only then is its output worth scraping for a throughput figure.
func (r *RunResult) Exited() bool { return r.ExitCode >= 0 }

// Duration returns the wall-clock time the job took.
func (r *RunResult) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// Executor runs a single job. Implementations must be safe for concurrent use.
type Executor interface {
	Execute(ctx context.Context, job *JobSpec) *RunResult
}

// ProcessRunner runs the detection tool as a child process per job and
// captures both output streams. It classifies how the process ended but does
// not act on it; see ExitPolicy.
type ProcessRunner struct {
	Tool    string
	Timeout time.Duration // per job, 0 disables
}

// NewProcessRunner creates a runner for tool, DefaultTool when empty.
func NewProcessRunner(tool string, timeout time.Duration) *ProcessRunner {
	if tool == "" {
		tool = DefaultTool
	}
	return &ProcessRunner{Tool: tool, Timeout: timeout}
}

// Execute implements Executor.
func (r *ProcessRunner) Execute(ctx context.Context, job *JobSpec) *RunResult {
	res := &RunResult{Job: job, ExitCode: -1, Started: time.Now()}
	defer func() { res.Finished = time.Now() }()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, r.Tool, job.Command...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second

	runErr := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		res.ExitCode = 0
	case errors.As(runErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		switch {
		case ctx.Err() != nil:
			res.Err = ctx.Err()
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			res.Err = ErrTimeout
		default:
			res.Err = &ExitError{Code: res.ExitCode}
		}
	case errors.Is(runErr, exec.ErrWaitDelay):
		// Exited, but a grandchild kept the output pipes open past WaitDelay.
		res.ExitCode = cmd.ProcessState.ExitCode()
		if res.ExitCode != 0 {
			res.Err = &ExitError{Code: res.ExitCode}
		}
	case ctx.Err() != nil:
		res.Err = ctx.Err()
	default:
		res.Err = &SpawnError{Tool: r.Tool, Err: runErr}
		return res
	}

	res.FPS, res.MetricErr = ExtractThroughput(res.Stderr, res.Stdout)
	return res
}
