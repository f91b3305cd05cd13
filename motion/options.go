package motion

import (
	"fmt"
	"regexp"
	"strings"
)

// Backend selects the background-subtraction algorithm of the detection tool.
type Backend string

const (
	BackendMOG2 Backend = "MOG2" // Default, emitted as no flag.
	BackendCNT  Backend = "CNT"  // Alternate, faster on most CPUs.
)

// ParseBackend accepts a backend name case-insensitively. The empty string
// selects the default.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(BackendMOG2):
		return BackendMOG2, nil
	case string(BackendCNT):
		return BackendCNT, nil
	default:
		return "", &ConfigError{Field: "backend", Err: fmt.Errorf("unknown backend %q", s)}
	}
}

// Padding is a duration before or after an event, either a frame count
// ("15") or seconds with an "s" suffix ("1.5s").
type Padding string

var paddingRegex = regexp.MustCompile(`^(\d+|\d+(\.\d+)?s)$`)

// ParsePadding validates s as a Padding.
func ParsePadding(s string) (Padding, error) {
	s = strings.TrimSpace(s)
	if !paddingRegex.MatchString(s) {
		return "", fmt.Errorf("invalid padding %q: want a frame count like 15 or seconds like 1.5s", s)
	}
	return Padding(s), nil
}

// Options is the detection configuration shared by every job of a run. It is
// set once from the top-level configuration and never mutated per job.
type Options struct {
	Threshold      float64
	MinEventLength int // frames
	Backend        Backend
	PrePad         Padding
	PostPad        Padding
	Timecode       bool
	Combine        bool // one combined file per source instead of a clip directory
}

// DefaultOptions returns the detection tool's own defaults
func DefaultOptions() Options {
	return Options{
		Threshold:      0.15,
		MinEventLength: 2,
		Backend:        BackendMOG2,
		PrePad:         "1.5s",
		PostPad:        "2s",
	}
}

// Validate reports the first invalid field as a *ConfigError.
func (o Options) Validate() error {
	if o.Threshold < 0 {
		return &ConfigError{Field: "threshold", Err: fmt.Errorf("must be >= 0, got %v", o.Threshold)}
	}
	if o.MinEventLength < 0 {
		return &ConfigError{Field: "min-event-length", Err: fmt.Errorf("must be >= 0, got %d", o.MinEventLength)}
	}
	if _, err := ParseBackend(string(o.Backend)); err != nil {
		return err
	}
	if _, err := ParsePadding(string(o.PrePad)); err != nil {
		return &ConfigError{Field: "pre-pad", Err: err}
	}
	if _, err := ParsePadding(string(o.PostPad)); err != nil {
		return &ConfigError{Field: "post-pad", Err: err}
	}
	return nil
}

// SkipMode selects how a previous run's output is recognized.
type SkipMode string

const (
	SkipNonEmpty SkipMode = "nonempty" // output present and non-empty
	SkipMarker   SkipMode = "marker"   // completion marker written after a zero exit
)

// ExitPolicy decides what a non-zero exit of the detection tool means for
// the run. Sibling jobs are never affected.
type ExitPolicy string

const (
	ExitIgnore ExitPolicy = "ignore"
	ExitWarn   ExitPolicy = "warn"
	ExitFail   ExitPolicy = "fail"
)
