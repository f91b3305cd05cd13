package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/motionprep/motion"
	"github.com/lepinkainen/motionprep/types"
	"github.com/lepinkainen/motionprep/ui"
	"github.com/lepinkainen/motionprep/utils"
	"github.com/sirupsen/logrus"
)

type ScanCmd struct {
	Source      string `arg:"" name:"src" help:"Folder of source videos to scan" type:"path"`
	DetectFlags `embed:""`
}

func (cmd *ScanCmd) Run(ctx context.Context, appCtx *types.AppContext) error {
	_, err := runScan(ctx, appCtx, cmd.Source, &cmd.DetectFlags, os.Stdout)
	return err
}

// runScan plans and executes a motion scan of source, writing operator
// output to out.
func runScan(ctx context.Context, appCtx *types.AppContext, source string, flags *DetectFlags, out io.Writer) (motion.Summary, error) {
	log := appCtx.Logger()

	cfg, err := flags.PlanConfig(source)
	if err != nil {
		return motion.Summary{}, err
	}

	// A missing tool shows up as a spawn failure on every job; warn early.
	if _, err := utils.LookupTool(flags.Tool); err != nil {
		log.WithError(err).Warn("Motion detection tool not found")
	}

	workers := flags.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if hint, ok := utils.NetworkHint(source); ok && workers > 1 {
		log.WithFields(logrus.Fields{"workers": workers, "hint": hint}).Warn("Network drive detected, consider fewer jobs")
	}

	fmt.Fprintln(out, ui.HeaderStyle.Render(fmt.Sprintf("Motion Prep %s", appCtx.VersionString())))

	plan, err := motion.BuildPlan(ctx, cfg, log)
	if err != nil {
		return motion.Summary{}, err
	}

	if len(plan.Skipped) > 0 {
		fmt.Fprintln(out, ui.SkippedStyle.Render(fmt.Sprintf("⏭️  Skipped %d files already processed", len(plan.Skipped))))
	}

	if flags.DryRun {
		fmt.Fprintln(out, ui.ProcessingStyle.Render("🔍 DRY RUN MODE - No tool will be run"))
		for _, job := range plan.Jobs {
			fmt.Fprintf(out, "%s %s\n", flags.Tool, quoteArgs(job.Command))
		}
		return motion.Summary{Skipped: len(plan.Skipped)}, nil
	}

	if len(plan.Jobs) == 0 {
		fmt.Fprintln(out, "🎯 No files need motion detection.")
		return motion.Summary{Skipped: len(plan.Skipped)}, nil
	}

	fmt.Fprintln(out, ui.ProcessingStyle.Render(fmt.Sprintf("🎬 Scanning %d files with %d workers:", len(plan.Jobs), workers)))

	pool := motion.NewPool(workers, motion.NewProcessRunner(flags.Tool, flags.Timeout))
	defer pool.Close()

	console := ui.NewConsoleReporter(out, len(plan.Jobs), flags.Tool)
	opts := motion.DispatchOptions{
		RunID:      appCtx.RunID,
		ExitPolicy: motion.ExitPolicy(flags.ExitPolicy),
		Skip:       cfg.Skip,
		Reporter:   console,
		Log:        log,
	}

	var sum motion.Summary
	if flags.TUI {
		sum, err = dispatchWithTUI(ctx, appCtx, pool, plan, opts)
	} else {
		sum, err = motion.Dispatch(ctx, pool, plan, opts)
	}

	console.PrintSummary(sum)
	return sum, err
}

// dispatchWithTUI runs the batch behind an interactive progress view.
// Quitting the view cancels the jobs that have not finished yet.
func dispatchWithTUI(ctx context.Context, appCtx *types.AppContext, pool *motion.Pool, plan *motion.Plan, opts motion.DispatchOptions) (motion.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Log lines would draw over the alt screen; show them once it is gone.
	release := utils.HoldOutput(appCtx.Logger().Logger)
	defer release()

	model := ui.NewTUIModel(len(plan.Jobs), pool.Workers(), appCtx.VersionString(), cancel)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	opts.Reporter = ui.NewTUIReporter(p, len(plan.Jobs))

	type outcome struct {
		sum motion.Summary
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		sum, err := motion.Dispatch(ctx, pool, plan, opts)
		p.Send(ui.BatchDoneMsg{})
		done <- outcome{sum, err}
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		res := <-done
		if res.err != nil {
			return res.sum, res.err
		}
		// A cancelled context also ends the program; that is not a TUI failure.
		if ctx.Err() == nil {
			return res.sum, fmt.Errorf("progress view failed: %w", err)
		}
		return res.sum, nil
	}

	res := <-done
	return res.sum, res.err
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'\\$") {
			quoted[i] = strconv.Quote(a)
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}
