package motion

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/motionprep/video"
	"github.com/sirupsen/logrus"
)

// PlanConfig holds everything needed to turn a source tree into jobs.
type PlanConfig struct {
	SourceRoot string
	OutputRoot string
	Extensions video.Extensions
	Options    Options
	Skip       SkipPolicy
}

// SkippedSource is a discovered file that a previous run already handled.
type SkippedSource struct {
	Source string
	Rel    string
	Reason string
}

// Plan is the immutable job list of one run.
type Plan struct {
	Jobs       []*JobSpec
	Skipped    []SkippedSource
	Discovered int
}

// BuildPlan discovers sources under cfg.SourceRoot and returns one job per
// source that is not skipped. Each job's output directory exists when
// BuildPlan returns. Discovery failures, invalid options and output
// conflicts abort the plan before any output directory is created.
func BuildPlan(ctx context.Context, cfg PlanConfig, log logrus.FieldLogger) (*Plan, error) {
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}

	sourceRoot, err := filepath.Abs(cfg.SourceRoot)
	if err != nil {
		return nil, &video.DiscoveryError{Root: cfg.SourceRoot, Err: err}
	}
	outputRoot, err := filepath.Abs(cfg.OutputRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output root: %w", err)
	}

	// Clips written into the scan root would be rediscovered as sources.
	if outputRoot == sourceRoot || within(sourceRoot, outputRoot) {
		return nil, &ConfigError{Field: "output", Err: fmt.Errorf("%s must not contain the source folder %s", outputRoot, sourceRoot)}
	}

	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = video.NewExtensions(video.DefaultExtensions...)
	}

	plan := &Plan{}
	claims := newOutputClaims(outputRoot)
	var layouts []Layout
	var sources []string

	for source, err := range video.Discover(sourceRoot, exts, outputRoot) {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan.Discovered++

		layout, err := ResolveLayout(sourceRoot, outputRoot, source, cfg.Options.Combine)
		if err != nil {
			return nil, err
		}
		if err := claims.claim(layout.Output, source); err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
		sources = append(sources, source)
	}

	// Nothing touches the output tree until every output is known to be unique.
	for i, layout := range layouts {
		source := sources[i]

		skip, reason, err := cfg.Skip.Prepare(layout, cfg.Options.Combine)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare %s: %w", layout.Rel, err)
		}
		if skip {
			log.WithField("source", layout.Rel).Debugf("Skipping: %s", reason)
			plan.Skipped = append(plan.Skipped, SkippedSource{Source: source, Rel: layout.Rel, Reason: reason})
			continue
		}

		job := &JobSpec{
			ID:        len(plan.Jobs) + 1,
			Source:    source,
			Rel:       layout.Rel,
			Output:    layout.Output,
			OutputDir: layout.OutputDir,
			Options:   cfg.Options,
		}
		job.Command = BuildCommand(job)
		plan.Jobs = append(plan.Jobs, job)
	}

	log.WithFields(logrus.Fields{
		"discovered": plan.Discovered,
		"jobs":       len(plan.Jobs),
		"skipped":    len(plan.Skipped),
	}).Info("Plan ready")

	return plan, nil
}

// outputClaims tracks which source owns each output path. An output may not
// equal, contain or sit inside another source's output, since a clip
// directory holding a second job's output would look finished to the skip
// check.
type outputClaims struct {
	root    string
	owners  map[string]string // claimed output to source
	parents map[string]string // every directory above a claimed output to source
}

func newOutputClaims(root string) *outputClaims {
	return &outputClaims{root: root, owners: map[string]string{}, parents: map[string]string{}}
}

func (c *outputClaims) claim(output, source string) error {
	if first, ok := c.owners[output]; ok {
		return &OutputConflictError{Output: output, First: first, Second: source}
	}
	if first, ok := c.parents[output]; ok {
		return &OutputConflictError{Output: output, First: first, Second: source}
	}

	var dirs []string
	for dir := filepath.Dir(output); within(dir, c.root); dir = filepath.Dir(dir) {
		if first, ok := c.owners[dir]; ok {
			return &OutputConflictError{Output: dir, First: first, Second: source}
		}
		dirs = append(dirs, dir)
	}

	c.owners[output] = source
	for _, dir := range dirs {
		if _, ok := c.parents[dir]; !ok {
			c.parents[dir] = source
		}
	}
	return nil
}

// within reports whether path lies strictly below root.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
