package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/motionprep/cmd"
	"github.com/lepinkainen/motionprep/types"
	"github.com/lepinkainen/motionprep/utils"
)

var Version = "dev"

type CLI struct {
	LogLevel  string           `name:"log-level" help:"Diagnostic log level" default:"info" enum:"debug,info,warn,error" env:"MOTIONPREP_LOG_LEVEL"`
	LogFormat string           `name:"log-format" help:"Diagnostic log format" default:"text" enum:"text,json" env:"MOTIONPREP_LOG_FORMAT"`
	Version   kong.VersionFlag `help:"Print version and exit"`

	Scan  cmd.ScanCmd  `cmd:"" help:"Scans and creates motion detected clips in parallel of all videos in a folder"`
	Split cmd.SplitCmd `cmd:"" help:"Only split the video into equally sized clips"`
	All   cmd.AllCmd   `cmd:"" help:"Run all processing and output motion clips. Will require at most 3 times as much disk space"`
}

// configFiles are read in order; flags and environment variables win.
var configFiles = []string{"motionprep.json", "~/.config/motionprep.json"}

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name("motionprep"),
		kong.Description("Split and parallelize the clipping of motion detection preprocessing on videos."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
		kong.Configuration(kong.JSON, configFiles...),
	}
}

func main() {
	// A .env file is optional; variables may also be set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "⚠️  Failed to load .env: %v\n", err)
	}

	var cli CLI
	kctx := kong.Parse(&cli, parserOptions()...)

	logger, err := utils.NewLogger(cli.LogLevel, cli.LogFormat, os.Stderr)
	kctx.FatalIfErrorf(err)

	runID := uuid.New().String()
	appCtx := &types.AppContext{
		Version: Version,
		RunID:   runID,
		Log:     logger.WithField("run", runID),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	kctx.BindTo(ctx, (*context.Context)(nil))

	err = kctx.Run(appCtx)
	stop()
	kctx.FatalIfErrorf(err)
}
