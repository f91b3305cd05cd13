package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Job log entry for the completed jobs list
type JobLogEntry struct {
	Source string
	Detail string
	Status string // "✓", "❌"
	Error  string
}

func (e JobLogEntry) FilterValue() string { return e.Source }
func (e JobLogEntry) Title() string       { return e.Source }
func (e JobLogEntry) Description() string {
	if e.Error != "" {
		return fmt.Sprintf("❌ %s", e.Error)
	}
	return fmt.Sprintf("✓ %s", e.Detail)
}

// Worker state tracking
type WorkerState struct {
	ID          int
	CurrentFile string
	Status      string // "idle", "processing"
	Finished    int
}

// TUI Model for a running batch
type TUIModel struct {
	// Application state
	totalJobs     int
	completedJobs int
	workers       []*WorkerState
	entries       []JobLogEntry
	failed        int

	// UI components
	overallProgress progress.Model
	jobList         list.Model

	// Layout
	width  int
	height int

	// Control state
	cancel   func()
	quitting bool
	done     bool

	// Version for display
	Version string
}

// NewTUIModel creates a new TUI model. cancel is called when the user quits
// before the batch has finished.
func NewTUIModel(numJobs, numWorkers int, version string, cancel func()) TUIModel {
	workers := make([]*WorkerState, numWorkers)
	for i := range workers {
		workers[i] = &WorkerState{
			ID:     i,
			Status: "idle",
		}
	}

	jobList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	jobList.Title = "Completed Jobs"
	jobList.SetShowHelp(false)

	return TUIModel{
		totalJobs:       numJobs,
		workers:         workers,
		overallProgress: progress.New(progress.WithDefaultGradient()),
		jobList:         jobList,
		cancel:          cancel,
		Version:         version,
	}
}

// Init implements tea.Model
func (m TUIModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.cancel != nil && !m.done {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.overallProgress.Width = max(msg.Width-30, 10)
		m.jobList.SetSize(msg.Width-4, msg.Height/2)

	case WorkerStartedMsg:
		if w := m.worker(msg.WorkerID); w != nil {
			w.CurrentFile = msg.Filename
			w.Status = "processing"
		}

	case WorkerCompletedMsg:
		if w := m.worker(msg.WorkerID); w != nil {
			w.Status = "idle"
			w.CurrentFile = ""
			w.Finished++
		}

		entry := JobLogEntry{
			Source: msg.Filename,
			Detail: msg.Detail,
			Status: "✓",
		}
		if !msg.Success {
			m.failed++
			entry.Status = "❌"
			if msg.Error != nil {
				entry.Error = msg.Error.Error()
			} else {
				entry.Error = "failed"
			}
		}

		m.entries = append(m.entries, entry)
		items := make([]list.Item, len(m.entries))
		for i, e := range m.entries {
			items[i] = e
		}
		m.jobList.SetItems(items)

	case OverallProgressMsg:
		// Progress messages from different workers may arrive out of order.
		m.completedJobs = max(m.completedJobs, msg.Completed)

	case BatchDoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m TUIModel) worker(id int) *WorkerState {
	if id < 0 || id >= len(m.workers) {
		return nil
	}
	return m.workers[id]
}

// View implements tea.Model
func (m TUIModel) View() string {
	if m.quitting {
		return "Cancelling batch, waiting for running jobs...\n"
	}

	header := HeaderStyle.Render(fmt.Sprintf("Motion Prep %s", m.Version))

	overallPercent := 0.0
	if m.totalJobs > 0 {
		overallPercent = float64(m.completedJobs) / float64(m.totalJobs)
	}
	overallView := fmt.Sprintf("Overall Progress: %s (%d/%d, %d failed)",
		m.overallProgress.ViewAs(overallPercent),
		m.completedJobs,
		m.totalJobs,
		m.failed)

	workerViews := []string{"Worker Status:"}
	for _, w := range m.workers {
		status := fmt.Sprintf("Worker %d: ", w.ID+1)
		if w.Status == "processing" {
			status += ProcessingStyle.Render(w.CurrentFile)
		} else {
			status += MutedStyle.Render(fmt.Sprintf("%s (%d done)", w.Status, w.Finished))
		}
		workerViews = append(workerViews, status)
	}

	controls := "Controls: [q] Cancel batch"

	sections := []string{
		header,
		overallView,
		strings.Join(workerViews, "\n"),
		m.jobList.View(),
		controls,
	}

	return strings.Join(sections, "\n\n")
}
