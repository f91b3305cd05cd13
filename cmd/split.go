package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/motionprep/types"
	"github.com/lepinkainen/motionprep/ui"
	"github.com/lepinkainen/motionprep/utils"
	"github.com/lepinkainen/motionprep/video"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// SplitCmd cuts one video into equally sized clips without re-encoding.
type SplitCmd struct {
	Source string `arg:"" name:"src_video" help:"Source video to split" type:"existingfile"`
	Number int    `short:"n" help:"Number of splits of the video desired" default:"8"`
	Output string `short:"o" help:"Output folder of the split video clips" default:"split_clips" type:"path"`
}

// Run executes the split command.
func (cmd *SplitCmd) Run(ctx context.Context, appCtx *types.AppContext) error {
	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Motion Prep %s", appCtx.VersionString())))
	_, err := runSplit(ctx, appCtx, cmd.Source, cmd.Number, cmd.Output, os.Stdout)
	return err
}

func runSplit(ctx context.Context, appCtx *types.AppContext, source string, parts int, outputDir string, out io.Writer) (*video.SplitResult, error) {
	if err := utils.ValidateFFmpegDependencies(); err != nil {
		return nil, err
	}

	fmt.Fprintln(out, ui.ProcessingStyle.Render(fmt.Sprintf("✂️  Splitting %s into %d clips:", source, parts)))

	bar := progressbar.NewOptions(parts,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Splitting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	result, err := video.SplitVideo(ctx, source, video.SplitOptions{
		Parts:     parts,
		OutputDir: outputDir,
	}, func(int, string) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	if err != nil {
		return result, fmt.Errorf("failed to split %s: %w", source, err)
	}

	appCtx.Logger().WithFields(logrus.Fields{
		"source":   source,
		"segments": len(result.Segments),
		"seconds":  result.SegmentSeconds,
	}).Info("Split complete")

	for _, seg := range result.Segments {
		fmt.Fprintf(out, "%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ %s", seg)))
	}
	fmt.Fprintf(out, "📏 %.1f s each, %.1f s total\n", result.SegmentSeconds, result.DurationSeconds)

	return result, nil
}
