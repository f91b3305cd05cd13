package motion

import (
	"errors"
	"fmt"
)

var (
	// ErrMetricNotFound means no throughput figure was found in the tool output.
	ErrMetricNotFound = errors.New("throughput figure not found")
	// ErrTimeout means the per-job timeout expired and the process was killed.
	ErrTimeout = errors.New("job timed out")
	// ErrPoolClosed is returned by Pool.Run after Close.
	ErrPoolClosed = errors.New("worker pool is closed")
)

// ConfigError is an invalid run-time option. It aborts the run before any
// work starts.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// OutputConflictError means two sources resolve to the same output path.
type OutputConflictError struct {
	Output string
	First  string
	Second string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("output conflict: %s and %s both map to %s", e.First, e.Second, e.Output)
}

// SpawnError means the detection tool could not be launched at all.
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Tool, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError means the detection tool ran and exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exited with status %d", e.Code)
}
