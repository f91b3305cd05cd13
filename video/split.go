package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// SegmentPath returns the output path of segment index (0-based) for src
func SegmentPath(src, outputDir string, index int) string {
	ext := filepath.Ext(src)
	stem := strings.TrimSuffix(filepath.Base(src), ext)
	return filepath.Join(outputDir, fmt.Sprintf("%s_%03d%s", stem, index+1, ext))
}

// SegmentArgs builds the ffmpeg arguments cutting [start, start+length) out
// of src without re-encoding. Seeking happens before the input for speed.
func SegmentArgs(src, dst string, start, length float64) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-ss", formatSeconds(start),
		"-i", src,
		"-t", formatSeconds(length),
		"-c", "copy",
		"-map", "0",
		dst,
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// SplitVideo cuts src into opts.Parts equal-length segments, one ffmpeg
// invocation at a time. onSegment, when non-nil, is called after each
// segment is written. The first failing segment aborts the split.
func SplitVideo(ctx context.Context, src string, opts SplitOptions, onSegment func(index int, path string)) (*SplitResult, error) {
	if opts.Parts < 1 {
		return nil, fmt.Errorf("number of parts must be at least 1, got %d", opts.Parts)
	}
	if !IsVideoFile(src) {
		return nil, fmt.Errorf("%s is not a video file", src)
	}

	ffmpeg := opts.FFmpeg
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}

	duration, err := GetVideoDuration(ctx, opts.FFprobe, src)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &SplitResult{
		Source:          src,
		DurationSeconds: duration,
		SegmentSeconds:  duration / float64(opts.Parts),
	}

	for i := 0; i < opts.Parts; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		dst := SegmentPath(src, opts.OutputDir, i)
		start := float64(i) * result.SegmentSeconds

		cmd := exec.CommandContext(ctx, ffmpeg, SegmentArgs(src, dst, start, result.SegmentSeconds)...)
		if output, err := cmd.CombinedOutput(); err != nil {
			return result, fmt.Errorf("failed to write segment %d: %w\nffmpeg output: %s", i+1, err, extractFirstLine(string(output)))
		}

		size, err := GetFileSize(dst)
		if err != nil {
			return result, err
		}
		if size == 0 {
			return result, fmt.Errorf("segment %d is empty: %s", i+1, dst)
		}

		result.Segments = append(result.Segments, dst)
		if onSegment != nil {
			onSegment(i, dst)
		}
	}

	return result, nil
}
