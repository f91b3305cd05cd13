package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/motionprep/motion"
	"github.com/lepinkainen/motionprep/types"
)

// AllCmd splits a video and then scans the split clips for motion.
type AllCmd struct {
	Source      string `arg:"" name:"src_video" help:"Source video to preprocess" type:"existingfile"`
	Number      int    `short:"n" help:"Number of splits of the video desired" default:"8"`
	SplitDir    string `name:"split-dir" help:"Folder receiving the split clips" default:"split_clips" type:"path"`
	DetectFlags `embed:""`
}

// Run executes split followed by scan over the split folder.
func (cmd *AllCmd) Run(ctx context.Context, appCtx *types.AppContext) error {
	_, err := runAll(ctx, appCtx, cmd, os.Stdout)
	return err
}

func runAll(ctx context.Context, appCtx *types.AppContext, cmd *AllCmd, out io.Writer) (motion.Summary, error) {
	if _, err := runSplit(ctx, appCtx, cmd.Source, cmd.Number, cmd.SplitDir, out); err != nil {
		return motion.Summary{}, err
	}

	sum, err := runScan(ctx, appCtx, cmd.SplitDir, &cmd.DetectFlags, out)
	if err != nil {
		return sum, fmt.Errorf("motion scan of %s failed: %w", cmd.SplitDir, err)
	}
	return sum, nil
}
