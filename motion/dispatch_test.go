package motion

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
)

func TestDispatch_ExitPolicy(t *testing.T) {
	tests := []struct {
		policy  ExitPolicy
		wantErr bool
	}{
		{ExitIgnore, false},
		{ExitWarn, false},
		{ExitFail, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			plan := &Plan{Jobs: makeJobs(t, 3), Skipped: []SkippedSource{{Rel: "old.mp4"}}}
			pool := NewPool(2, &fakeExecutor{exitOf: map[int]int{1: 2}})
			defer pool.Close()

			sum, err := Dispatch(context.Background(), pool, plan, DispatchOptions{ExitPolicy: tt.policy, Log: quietLog()})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Dispatch() error = %v, wantErr %v", err, tt.wantErr)
			}

			if sum.Total != 3 || sum.Succeeded != 2 || sum.NonZeroExit != 1 || sum.Skipped != 1 {
				t.Errorf("Unexpected summary: %+v", sum)
			}
			if sum.Failed() != 1 {
				t.Errorf("Expected 1 failed job, got %d", sum.Failed())
			}
		})
	}
}

func TestDispatch_WritesMarkers(t *testing.T) {
	jobs := makeJobs(t, 2)
	plan := &Plan{Jobs: jobs}
	pool := NewPool(2, &fakeExecutor{exitOf: map[int]int{2: 1}})
	defer pool.Close()

	opts := DispatchOptions{RunID: "run-1", Skip: SkipPolicy{Mode: SkipMarker}, Log: quietLog()}
	if _, err := Dispatch(context.Background(), pool, plan, opts); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	data, err := os.ReadFile(jobs[0].MarkerPath())
	if err != nil {
		t.Fatalf("Expected marker for successful job: %v", err)
	}
	var marker completionMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		t.Fatalf("Marker is not JSON: %v", err)
	}
	if marker.RunID != "run-1" || marker.Source != jobs[0].Source || marker.FPS != 100 {
		t.Errorf("Unexpected marker: %+v", marker)
	}

	if _, err := os.Stat(jobs[1].MarkerPath()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected no marker for failed job, got %v", err)
	}

	// The marker makes the next plan skip the job
	skip, _, err := SkipPolicy{Mode: SkipMarker}.Prepare(Layout{Output: jobs[0].Output, OutputDir: jobs[0].OutputDir}, false)
	if err != nil || !skip {
		t.Errorf("Expected marked output to be skipped, got skip=%v err=%v", skip, err)
	}
}

func TestDispatch_NoMarkersInNonEmptyMode(t *testing.T) {
	jobs := makeJobs(t, 1)
	pool := NewPool(1, &fakeExecutor{})
	defer pool.Close()

	if _, err := Dispatch(context.Background(), pool, &Plan{Jobs: jobs}, DispatchOptions{Log: quietLog()}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if _, err := os.Stat(jobs[0].MarkerPath()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected no marker in nonempty mode, got %v", err)
	}
}

func TestDispatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewPool(1, &fakeExecutor{onRun: func(*JobSpec) { cancel() }})
	defer pool.Close()

	sum, err := Dispatch(ctx, pool, &Plan{Jobs: makeJobs(t, 3)}, DispatchOptions{Log: quietLog()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if sum.Cancelled != 2 || sum.Succeeded != 1 {
		t.Errorf("Unexpected summary: %+v", sum)
	}
}

func TestSummaryAdd(t *testing.T) {
	job := &JobSpec{ID: 1}
	var sum Summary
	sum.Add(&RunResult{Job: job})
	sum.Add(&RunResult{Job: job, MetricErr: ErrMetricNotFound})
	sum.Add(&RunResult{Job: job, Err: &ExitError{Code: 1}})
	sum.Add(&RunResult{Job: job, Err: &SpawnError{Tool: "dvr-scan", Err: os.ErrNotExist}})
	sum.Add(&RunResult{Job: job, Err: ErrTimeout})
	sum.Add(&RunResult{Job: job, Err: context.Canceled})

	expected := Summary{Total: 6, Succeeded: 2, NonZeroExit: 1, SpawnFailed: 1, TimedOut: 1, Cancelled: 1, MetricMissing: 1}
	if sum != expected {
		t.Errorf("Expected %+v, got %+v", expected, sum)
	}
}

func TestSummaryAdd_MetricMissingFollowsExit(t *testing.T) {
	// Any process that exited is scraped for a figure, whatever its status
	job := &JobSpec{ID: 1}
	tests := []struct {
		name     string
		res      *RunResult
		expected int
	}{
		{"zero exit", &RunResult{Job: job, MetricErr: ErrMetricNotFound}, 1},
		{"non-zero exit", &RunResult{Job: job, ExitCode: 2, Err: &ExitError{Code: 2}, MetricErr: ErrMetricNotFound}, 1},
		{"non-zero exit with figure", &RunResult{Job: job, ExitCode: 2, Err: &ExitError{Code: 2}, FPS: 80}, 0},
		{"killed by timeout", &RunResult{Job: job, ExitCode: -1, Err: ErrTimeout, MetricErr: ErrMetricNotFound}, 0},
		{"never started", &RunResult{Job: job, ExitCode: -1, Err: &SpawnError{Tool: "dvr-scan", Err: os.ErrNotExist}, MetricErr: ErrMetricNotFound}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sum Summary
			sum.Add(tt.res)
			if sum.MetricMissing != tt.expected {
				t.Errorf("Expected MetricMissing %d, got %d", tt.expected, sum.MetricMissing)
			}
		})
	}
}
