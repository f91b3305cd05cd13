package ui

// TUI Message Types for worker communication
type WorkerStartedMsg struct {
	WorkerID int
	Filename string
}

type WorkerCompletedMsg struct {
	WorkerID int
	Filename string
	Detail   string // metric or outcome shown in the job list
	Success  bool
	Error    error
}

type OverallProgressMsg struct {
	Completed int
	Total     int
}

// BatchDoneMsg is sent once the worker pool has drained.
type BatchDoneMsg struct{}
