package motion

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// SkipPolicy decides whether a previous run already produced the output of
// a source. The file system is the only state carried between runs, so the
// decision is re-derived on every run.
type SkipPolicy struct {
	Mode  SkipMode
	Force bool // never skip
}

// Prepare creates the output directory of layout and then reports whether
// the source should be skipped, with a short reason when it is.
//
// In SkipNonEmpty mode a clip directory with at least one entry, or a
// non-empty combined file, counts as done. A run interrupted mid-write looks
// the same as a finished one; SkipMarker avoids that by requiring the marker
// written after a zero exit.
func (p SkipPolicy) Prepare(layout Layout, combine bool) (bool, string, error) {
	if err := os.MkdirAll(layout.OutputDir, 0o755); err != nil {
		return false, "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if p.Force {
		return false, "", nil
	}

	switch p.Mode {
	case SkipMarker:
		ok, err := exists(markerPath(layout.Output, combine))
		if err != nil || !ok {
			return false, "", err
		}
		return true, "completion marker present", nil

	case SkipNonEmpty, "":
		if combine {
			fi, err := os.Stat(layout.Output)
			if errors.Is(err, os.ErrNotExist) {
				return false, "", nil
			}
			if err != nil {
				return false, "", err
			}
			if fi.Size() > 0 {
				return true, "combined output exists", nil
			}
			return false, "", nil
		}

		nonEmpty, err := dirNonEmpty(layout.Output)
		if err != nil || !nonEmpty {
			return false, "", err
		}
		return true, "output directory not empty", nil

	default:
		return false, "", &ConfigError{Field: "skip", Err: fmt.Errorf("unknown mode %q", p.Mode)}
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func dirNonEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	return err == nil, err
}
