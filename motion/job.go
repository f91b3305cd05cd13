package motion

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// CombinedExt is the extension the detection tool writes combined files with.
	CombinedExt = ".avi"
	// MarkerName is the completion marker written inside a clip directory.
	MarkerName = ".motionprep-complete"
	// markerSuffix is appended to a combined output file to name its marker.
	markerSuffix = ".complete"
)

// JobSpec describes one unit of work. It is created once per discovered,
// non-skipped source and not modified after planning.
type JobSpec struct {
	ID        int    // 1-based position in the plan
	Source    string // absolute source path
	Rel       string // source path relative to the scan root
	Output    string // clip directory, or combined file in combine mode
	OutputDir string // directory created before the job is scheduled
	Options   Options
	Command   []string // arguments for the detection tool, owned by this job
}

// MarkerPath returns where the completion marker for this job lives.
func (j *JobSpec) MarkerPath() string {
	return markerPath(j.Output, j.Options.Combine)
}

func markerPath(output string, combine bool) string {
	if combine {
		return output + markerSuffix
	}
	return filepath.Join(output, MarkerName)
}

// Layout is the output location mirrored from a source file.
type Layout struct {
	Rel       string
	Output    string
	OutputDir string
}

// ResolveLayout mirrors source's position under sourceRoot onto outputRoot.
// In clip mode the output is a directory named after the source stem; in
// combine mode it is <stem>.avi next to where that directory would be.
//
//	clip:    <outputRoot>/<rel dir>/<stem>/
//	combine: <outputRoot>/<rel dir>/<stem>.avi
func ResolveLayout(sourceRoot, outputRoot, source string, combine bool) (Layout, error) {
	rel, err := filepath.Rel(sourceRoot, source)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to relate %s to %s: %w", source, sourceRoot, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Layout{}, fmt.Errorf("%s is outside %s", source, sourceRoot)
	}

	dir := filepath.Join(outputRoot, filepath.Dir(rel))
	stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))

	if combine {
		return Layout{Rel: rel, Output: filepath.Join(dir, stem+CombinedExt), OutputDir: dir}, nil
	}
	out := filepath.Join(dir, stem)
	return Layout{Rel: rel, Output: out, OutputDir: out}, nil
}
