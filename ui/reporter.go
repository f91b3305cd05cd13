package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/motionprep/motion"
)

// ConsoleReporter prints a start line per job and, when it finishes, the
// captured tool output, the throughput figure and a finish line. Lines of
// one job are never interleaved with another job's.
type ConsoleReporter struct {
	mu        sync.Mutex
	out       io.Writer
	total     int
	completed int
	tool      string
}

// NewConsoleReporter creates a reporter for a batch of total jobs.
func NewConsoleReporter(out io.Writer, total int, tool string) *ConsoleReporter {
	return &ConsoleReporter{out: out, total: total, tool: tool}
}

// JobStarted implements motion.Reporter.
func (r *ConsoleReporter) JobStarted(worker int, job *motion.JobSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s\n", ProcessingStyle.Render(fmt.Sprintf("▶️  Worker %d: %s", worker+1, job.Rel)))
}

// JobFinished implements motion.Reporter.
func (r *ConsoleReporter) JobFinished(worker int, res *motion.RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completed++
	progress := fmt.Sprintf("[%d/%d]", r.completed, r.total)

	if out := strings.TrimRight(res.Stdout, "\r\n "); out != "" {
		for _, line := range strings.Split(out, "\n") {
			fmt.Fprintf(r.out, "   %s\n", MutedStyle.Render("│ "+strings.TrimRight(line, "\r")))
		}
	}

	if res.Exited() {
		if res.MetricErr != nil {
			fmt.Fprintf(r.out, "   %s\n", WarningStyle.Render("⚠️  Throughput not found in tool output"))
		} else {
			fmt.Fprintf(r.out, "   %s\n", InfoStyle.Render(fmt.Sprintf("📈 %.1f frames/s", res.FPS)))
		}
	}

	fmt.Fprintf(r.out, "%s\n", finishLine(progress, res, r.tool))
}

func finishLine(progress string, res *motion.RunResult, tool string) string {
	name := res.Job.Rel
	took := res.Duration().Round(100 * time.Millisecond)

	var exitErr *motion.ExitError
	var spawnErr *motion.SpawnError
	switch {
	case res.Err == nil:
		return SuccessStyle.Render(fmt.Sprintf("✅ %s %s → %s (%s)", progress, name, res.Job.Output, took))
	case errors.As(res.Err, &exitErr):
		return WarningStyle.Render(fmt.Sprintf("⚠️  %s %s: %s exited with status %d (%s)", progress, name, tool, exitErr.Code, took))
	case errors.As(res.Err, &spawnErr):
		return ErrorStyle.Render(fmt.Sprintf("❌ %s %s: %v", progress, name, spawnErr))
	case errors.Is(res.Err, motion.ErrTimeout):
		return ErrorStyle.Render(fmt.Sprintf("⏱️  %s %s: timed out after %s", progress, name, took))
	default:
		return InfoStyle.Render(fmt.Sprintf("⏹️  %s %s: cancelled", progress, name))
	}
}

// PrintSummary displays final statistics
func (r *ConsoleReporter) PrintSummary(sum motion.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "\n%s\n", HeaderStyle.Render("📊 Motion Scan Summary"))
	fmt.Fprintf(r.out, "   Processed: %d jobs in %s\n", sum.Total, sum.Elapsed.Round(time.Second))
	fmt.Fprintf(r.out, "   Succeeded: %d\n", sum.Succeeded)
	fmt.Fprintf(r.out, "   Skipped (already done): %d\n", sum.Skipped)
	if sum.NonZeroExit > 0 {
		fmt.Fprintf(r.out, "   %s\n", WarningStyle.Render(fmt.Sprintf("Non-zero exit: %d", sum.NonZeroExit)))
	}
	if sum.SpawnFailed > 0 {
		fmt.Fprintf(r.out, "   %s\n", ErrorStyle.Render(fmt.Sprintf("Failed to start: %d", sum.SpawnFailed)))
	}
	if sum.TimedOut > 0 {
		fmt.Fprintf(r.out, "   %s\n", ErrorStyle.Render(fmt.Sprintf("Timed out: %d", sum.TimedOut)))
	}
	if sum.Cancelled > 0 {
		fmt.Fprintf(r.out, "   Cancelled: %d\n", sum.Cancelled)
	}
	if sum.MetricMissing > 0 {
		fmt.Fprintf(r.out, "   No throughput figure: %d\n", sum.MetricMissing)
	}

	if sum.Failed() == 0 && sum.Cancelled == 0 {
		fmt.Fprintf(r.out, "\n%s\n", SuccessStyle.Render("🎉 Motion scan complete!"))
	}
}

// TUIReporter forwards job events to a running bubbletea program.
type TUIReporter struct {
	send      func(tea.Msg)
	mu        sync.Mutex
	total     int
	completed int
}

// NewTUIReporter creates a reporter feeding p.
func NewTUIReporter(p *tea.Program, total int) *TUIReporter {
	return newTUIReporter(p.Send, total)
}

func newTUIReporter(send func(tea.Msg), total int) *TUIReporter {
	return &TUIReporter{send: send, total: total}
}

// JobStarted implements motion.Reporter.
func (r *TUIReporter) JobStarted(worker int, job *motion.JobSpec) {
	r.send(WorkerStartedMsg{WorkerID: worker, Filename: job.Rel})
}

// JobFinished implements motion.Reporter.
func (r *TUIReporter) JobFinished(worker int, res *motion.RunResult) {
	msg := WorkerCompletedMsg{
		WorkerID: worker,
		Filename: res.Job.Rel,
		Success:  res.OK(),
		Error:    res.Err,
	}
	if res.OK() {
		if res.MetricErr != nil {
			msg.Detail = "throughput not found"
		} else {
			msg.Detail = fmt.Sprintf("%.1f frames/s", res.FPS)
		}
	}

	r.mu.Lock()
	r.completed++
	completed := r.completed
	r.mu.Unlock()

	r.send(msg)
	r.send(OverallProgressMsg{Completed: completed, Total: r.total})
}
