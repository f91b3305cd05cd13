package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// LookupTool checks that an external binary is available in PATH and
// returns its resolved path. The error carries installation instructions.
func LookupTool(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH. %s", name, getInstallationInstructions(name))
	}
	return path, nil
}

// ValidateFFmpegDependencies checks if ffmpeg and ffprobe are available in PATH
func ValidateFFmpegDependencies() error {
	// Check for ffprobe
	if _, err := LookupTool("ffprobe"); err != nil {
		return err
	}

	// Check for ffmpeg
	if _, err := LookupTool("ffmpeg"); err != nil {
		return err
	}

	return nil
}

// getInstallationInstructions returns platform-specific installation instructions
func getInstallationInstructions(tool string) string {
	if tool == "dvr-scan" {
		return "Install with: pip install dvr-scan[opencv] (see https://www.dvr-scan.com)"
	}

	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install ffmpeg"
	case "linux":
		return "Install with: apt-get install ffmpeg (Ubuntu/Debian) or yum install ffmpeg (CentOS/RHEL)"
	case "windows":
		return "Download from https://ffmpeg.org/download.html and add to PATH"
	default:
		return "Download from https://ffmpeg.org/download.html"
	}
}
