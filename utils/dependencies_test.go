package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLookupTool_Missing(t *testing.T) {
	tests := []struct {
		tool string
		hint string
	}{
		{"dvr-scan", "pip install dvr-scan"},
		{"ffprobe", "ffmpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			// An empty PATH hides every installed binary
			t.Setenv("PATH", t.TempDir())

			_, err := LookupTool(tt.tool)
			if err == nil {
				t.Fatalf("Expected %s to be missing", tt.tool)
			}
			if !strings.Contains(err.Error(), tt.tool+" not found in PATH") {
				t.Errorf("Expected error to name %s, got: %v", tt.tool, err)
			}
			if !strings.Contains(err.Error(), tt.hint) {
				t.Errorf("Expected install hint %q, got: %v", tt.hint, err)
			}
		})
	}
}

func TestLookupTool_Found(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit lookup differs on Windows")
	}

	dir := t.TempDir()
	tool := filepath.Join(dir, "dvr-scan")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("Failed to write fake tool: %v", err)
	}
	t.Setenv("PATH", dir)

	path, err := LookupTool("dvr-scan")
	if err != nil {
		t.Fatalf("LookupTool() error = %v", err)
	}
	if path != tool {
		t.Errorf("Expected %s, got %s", tool, path)
	}
}

func TestValidateFFmpegDependencies_Missing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	err := ValidateFFmpegDependencies()
	if err == nil {
		t.Fatal("Expected validation to fail with an empty PATH")
	}
	// ffprobe is checked first
	if !strings.Contains(err.Error(), "ffprobe not found") {
		t.Errorf("Expected ffprobe to be reported, got: %v", err)
	}
}
