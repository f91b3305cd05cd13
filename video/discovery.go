package video

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
)

// Discover lazily walks root and yields the absolute path of every regular
// file whose extension is in exts. Order follows filepath.WalkDir but callers
// must not depend on it. Directories listed in exclude (typically an output
// root nested inside the scan root) are pruned.
//
// A missing, unreadable or non-directory root yields a single
// *DiscoveryError and ends the sequence. So does any traversal error below
// the root. An empty tree yields nothing and is not an error. Stopping the
// range loop early stops the walk.
func Discover(root string, exts Extensions, exclude ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		abs, err := filepath.Abs(root)
		if err != nil {
			yield("", &DiscoveryError{Root: root, Err: err})
			return
		}

		fi, err := os.Stat(abs)
		if err != nil {
			yield("", &DiscoveryError{Root: root, Err: err})
			return
		}
		if !fi.IsDir() {
			yield("", &DiscoveryError{Root: root, Err: errors.New("not a directory")})
			return
		}

		pruned := make([]string, 0, len(exclude))
		for _, dir := range exclude {
			if dir == "" {
				continue
			}
			if a, err := filepath.Abs(dir); err == nil && a != abs {
				pruned = append(pruned, a)
			}
		}

		stopped := false
		walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if slices.Contains(pruned, path) {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !exts.Match(path) {
				return nil
			}

			if !yield(path, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})

		if walkErr != nil && !stopped {
			yield("", &DiscoveryError{Root: root, Err: walkErr})
		}
	}
}
