package motion

import (
	"slices"
	"testing"
)

func TestBuildCommand(t *testing.T) {
	base := JobSpec{Source: "/videos/a/1.mp4", Output: "/out/a/1"}

	tests := []struct {
		name     string
		modify   func(o *Options)
		output   string
		expected []string
	}{
		{
			name:   "defaults",
			modify: func(o *Options) {},
			expected: []string{
				"-i", "/videos/a/1.mp4", "-d", "/out/a/1",
				"-l", "2", "-t", "0.15", "-tb", "1.5s", "-tp", "2s",
			},
		},
		{
			name: "custom threshold and length",
			modify: func(o *Options) {
				o.Threshold = 0.3
				o.MinEventLength = 3
			},
			expected: []string{
				"-i", "/videos/a/1.mp4", "-d", "/out/a/1",
				"-l", "3", "-t", "0.3", "-tb", "1.5s", "-tp", "2s",
			},
		},
		{
			name: "alternate backend and timecode",
			modify: func(o *Options) {
				o.Backend = BackendCNT
				o.Timecode = true
			},
			expected: []string{
				"-i", "/videos/a/1.mp4", "-d", "/out/a/1",
				"-l", "2", "-t", "0.15", "-tb", "1.5s", "-tp", "2s",
				"-b", "CNT", "-tc",
			},
		},
		{
			name: "combine mode",
			modify: func(o *Options) {
				o.Combine = true
				o.PrePad = "30"
			},
			output: "/out/a/1.avi",
			expected: []string{
				"-i", "/videos/a/1.mp4", "-o", "/out/a/1.avi",
				"-l", "2", "-t", "0.15", "-tb", "30", "-tp", "2s",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := base
			job.Options = DefaultOptions()
			tt.modify(&job.Options)
			if tt.output != "" {
				job.Output = tt.output
			}

			args := BuildCommand(&job)
			if !slices.Equal(args, tt.expected) {
				t.Errorf("BuildCommand() = %v, expected %v", args, tt.expected)
			}
		})
	}
}

func TestBuildCommand_ReturnsFreshSlice(t *testing.T) {
	job := &JobSpec{Source: "in.mp4", Output: "out", Options: DefaultOptions()}

	first := BuildCommand(job)
	first[1] = "tampered"

	second := BuildCommand(job)
	if second[1] != "in.mp4" {
		t.Errorf("Expected a new slice per call, got %v", second)
	}
}
