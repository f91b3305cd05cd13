package motion

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// writeTool creates an executable shell script standing in for the
// detection tool.
func writeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes are not supported on Windows")
	}

	path := filepath.Join(t.TempDir(), "dvr-scan")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("Failed to write fake tool: %v", err)
	}
	return path
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
}

func makeJobs(t *testing.T, n int) []*JobSpec {
	t.Helper()
	dir := t.TempDir()
	jobs := make([]*JobSpec, n)
	for i := range jobs {
		out := filepath.Join(dir, "out", string(rune('a'+i)))
		if err := os.MkdirAll(out, 0o755); err != nil {
			t.Fatalf("Failed to create output dir: %v", err)
		}
		jobs[i] = &JobSpec{
			ID:        i + 1,
			Source:    filepath.Join(dir, string(rune('a'+i))+".mp4"),
			Rel:       string(rune('a'+i)) + ".mp4",
			Output:    out,
			OutputDir: out,
			Options:   DefaultOptions(),
		}
		jobs[i].Command = BuildCommand(jobs[i])
	}
	return jobs
}

// fakeExecutor records calls and concurrency without spawning processes.
type fakeExecutor struct {
	delay  time.Duration
	exitOf map[int]int // job ID to non-zero exit code
	onRun  func(job *JobSpec)

	mu         sync.Mutex
	running    int
	maxRunning int
	calls      map[int]int
}

func (f *fakeExecutor) Execute(ctx context.Context, job *JobSpec) *RunResult {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[int]int)
	}
	f.calls[job.ID]++
	f.running++
	f.maxRunning = max(f.maxRunning, f.running)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.running--
		f.mu.Unlock()
	}()

	if f.onRun != nil {
		f.onRun(job)
	}

	res := &RunResult{Job: job, Started: time.Now(), Stderr: "100 frames/s"}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			res.Err = ctx.Err()
			res.ExitCode = -1
			res.Finished = time.Now()
			return res
		}
	}

	if code, ok := f.exitOf[job.ID]; ok {
		res.ExitCode = code
		res.Err = &ExitError{Code: code}
	}
	res.FPS, res.MetricErr = ExtractThroughput(res.Stderr)
	res.Finished = time.Now()
	return res
}

// recordingReporter counts reporter calls.
type recordingReporter struct {
	mu       sync.Mutex
	started  map[int]int
	finished map[int]int
	workers  map[int]bool
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{started: map[int]int{}, finished: map[int]int{}, workers: map[int]bool{}}
}

func (r *recordingReporter) JobStarted(worker int, job *JobSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started[job.ID]++
	r.workers[worker] = true
}

func (r *recordingReporter) JobFinished(worker int, res *RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[res.Job.ID]++
}
