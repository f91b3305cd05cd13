package cmd

import (
	"time"

	"github.com/lepinkainen/motionprep/motion"
	"github.com/lepinkainen/motionprep/video"
)

// DetectFlags are the detection and scheduling options shared by scan and all.
type DetectFlags struct {
	Output         string        `short:"o" help:"Output folder of the motion detected video clips" default:"motion_detected_clips" type:"path" env:"MOTIONPREP_OUTPUT"`
	Jobs           int           `short:"j" help:"Number of parallel jobs at once (0 = one per CPU)" default:"0" env:"MOTIONPREP_JOBS"`
	Tool           string        `help:"Motion detection binary" default:"dvr-scan" env:"MOTIONPREP_TOOL"`
	Threshold      float64       `short:"t" help:"Motion threshold, higher means less sensitive" default:"0.15" env:"MOTIONPREP_THRESHOLD"`
	MinEventLength int           `short:"l" name:"min-event-length" help:"Frames of motion required to start an event" default:"2" env:"MOTIONPREP_MIN_EVENT_LENGTH"`
	Backend        string        `short:"b" help:"Background subtraction backend" default:"MOG2" enum:"MOG2,CNT" env:"MOTIONPREP_BACKEND"`
	PrePad         string        `name:"pre-pad" help:"Time kept before each event, frames (15) or seconds (1.5s)" default:"1.5s" env:"MOTIONPREP_PRE_PAD"`
	PostPad        string        `name:"post-pad" help:"Time kept after each event, frames (15) or seconds (2s)" default:"2s" env:"MOTIONPREP_POST_PAD"`
	Timecode       bool          `help:"Draw a timecode on the output clips" env:"MOTIONPREP_TIMECODE"`
	Combine        bool          `help:"Write one combined file per source instead of a folder of clips" env:"MOTIONPREP_COMBINE"`
	Skip           string        `help:"How already processed sources are recognized" default:"nonempty" enum:"nonempty,marker" env:"MOTIONPREP_SKIP"`
	Force          bool          `help:"Process every source, even when output already exists"`
	ExitPolicy     string        `name:"exit-policy" help:"What a non-zero tool exit means for the run" default:"warn" enum:"ignore,warn,fail" env:"MOTIONPREP_EXIT_POLICY"`
	Timeout        time.Duration `help:"Kill a job running longer than this (0 disables)" default:"0s" env:"MOTIONPREP_TIMEOUT"`
	Ext            []string      `help:"Video file extensions to discover (default: common video containers)" env:"MOTIONPREP_EXT"`
	TUI            bool          `name:"tui" help:"Show an interactive progress view"`
	DryRun         bool          `name:"dry-run" help:"Print the planned commands without running them"`
}

// Options converts the flags into the shared detection options.
func (f *DetectFlags) Options() (motion.Options, error) {
	backend, err := motion.ParseBackend(f.Backend)
	if err != nil {
		return motion.Options{}, err
	}
	pre, err := motion.ParsePadding(f.PrePad)
	if err != nil {
		return motion.Options{}, &motion.ConfigError{Field: "pre-pad", Err: err}
	}
	post, err := motion.ParsePadding(f.PostPad)
	if err != nil {
		return motion.Options{}, &motion.ConfigError{Field: "post-pad", Err: err}
	}

	opts := motion.Options{
		Threshold:      f.Threshold,
		MinEventLength: f.MinEventLength,
		Backend:        backend,
		PrePad:         pre,
		PostPad:        post,
		Timecode:       f.Timecode,
		Combine:        f.Combine,
	}
	return opts, opts.Validate()
}

// PlanConfig builds the planner configuration for a scan of source.
func (f *DetectFlags) PlanConfig(source string) (motion.PlanConfig, error) {
	opts, err := f.Options()
	if err != nil {
		return motion.PlanConfig{}, err
	}

	exts := video.NewExtensions(video.DefaultExtensions...)
	if len(f.Ext) > 0 {
		exts = video.NewExtensions(f.Ext...)
	}

	return motion.PlanConfig{
		SourceRoot: source,
		OutputRoot: f.Output,
		Extensions: exts,
		Options:    opts,
		Skip:       motion.SkipPolicy{Mode: motion.SkipMode(f.Skip), Force: f.Force},
	}, nil
}
