package utils

import (
	"path/filepath"
	"strings"
)

// networkPrefixes are mount points commonly used for NFS, SMB and removable media.
var networkPrefixes = []string{
	"/mnt/",     // Linux NFS/SMB mounts
	"/media/",   // Linux removable/network media
	"/Volumes/", // macOS network volumes
}

var networkIndicators = []string{"nfs", "cifs", "smb", "webdav", "ftp", "sftp"}

// NetworkHint returns the path element that suggests dir lives on a network
// mount, and false when nothing does. Parallel reads from such mounts tend to
// thrash, so callers use this to warn about high job counts.
func NetworkHint(dir string) (string, bool) {
	// UNC paths are checked before filepath.Abs mangles them
	for _, unc := range []string{"//", `\\`} {
		if strings.HasPrefix(dir, unc) {
			return unc, true
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(abs, prefix) {
			return prefix, true
		}
	}

	lower := strings.ToLower(abs)
	for _, indicator := range networkIndicators {
		if strings.Contains(lower, indicator) {
			return indicator, true
		}
	}

	return "", false
}
