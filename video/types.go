package video

import "fmt"

// DiscoveryError reports that a scan root could not be traversed. It is fatal
// for a run: no jobs are scheduled once discovery fails.
type DiscoveryError struct {
	Root string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery failed for %s: %v", e.Root, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// SplitOptions holds configuration for splitting one video into equal parts
type SplitOptions struct {
	Parts     int    // Number of segments to produce (>= 1)
	OutputDir string // Directory receiving the segments
	FFmpeg    string // ffmpeg binary, "ffmpeg" when empty
	FFprobe   string // ffprobe binary, "ffprobe" when empty
}

// SplitResult holds the outcome of a split
type SplitResult struct {
	Source          string
	DurationSeconds float64
	SegmentSeconds  float64
	Segments        []string
}
