package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simonhull/firebird-suite/wren/internal/generator"
	"github.com/simonhull/firebird-suite/wren/internal/input"
	"github.com/simonhull/firebird-suite/wren/internal/makers"
	"github.com/simonhull/firebird-suite/wren/internal/merge"
	"github.com/simonhull/firebird-suite/wren/internal/output"
	"github.com/simonhull/firebird-suite/wren/internal/templates"
)

type makeOptions struct {
	force, skip, merge, diff bool
	dryRun                   bool
	show                     bool
	bundle                   string
}

// MakeCmd creates and returns the 'make' command that runs one maker
func MakeCmd(env *Env) *cobra.Command {
	var opts makeOptions
	registry := makers.Default()

	cmd := &cobra.Command{
		Use:   "make <maker>",
		Short: "Generate plugin code after a short interview",
		Long: `Interview for names and namespaces, then generate the files of one artifact.

Available makers:
` + describeMakers(registry) + `
Existing files:
  Without a flag you are asked per file whether to overwrite, merge or skip.
  Only services.xml and main.js can be merged; other kinds fail on merge.
  The conflict.strategy key in .wren.yml sets the default for all runs.

Examples:
  wren make entity
  wren make storefront-controller --bundle SwagExample
  wren make js-plugin --merge
  wren make event-subscriber --dry-run
  wren make js-plugin --merge --show`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: registry.List(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMake(cmd, env, registry, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite existing files without asking")
	cmd.Flags().BoolVar(&opts.skip, "skip", false, "Skip existing files without asking")
	cmd.Flags().BoolVar(&opts.merge, "merge", false, "Merge into existing files without asking")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Show a diff before asking about an existing file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Preview without writing files")
	cmd.Flags().BoolVar(&opts.show, "show", false, "Also print the content of merged files")
	cmd.Flags().StringVarP(&opts.bundle, "bundle", "b", "", "Target bundle name (skips the bundle question)")

	return cmd
}

func describeMakers(r *makers.Registry) string {
	descriptions := r.ListWithDescriptions()
	names := make([]string, 0, len(descriptions))
	for name := range descriptions {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %-22s - %s\n", name, descriptions[name])
	}
	return b.String()
}

func runMake(cmd *cobra.Command, env *Env, registry *makers.Registry, name string, opts makeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := registry.Get(name); !ok {
		return fmt.Errorf("unknown maker '%s', available: %s", name, strings.Join(registry.List(), ", "))
	}

	cfg, logger, err := env.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !opts.force && !opts.skip && !opts.merge {
		applyConfiguredStrategy(&opts, cfg.Conflict.Strategy)
	}

	bundles, err := env.bundles(cfg, logger)
	if err != nil {
		return err
	}
	output.Verbose(fmt.Sprintf("Found %d bundle(s)", len(bundles)))

	prompter := env.prompter(cmd)
	resolver, err := generator.NewResolver(generator.ResolverOptions{
		Force:    opts.force,
		Skip:     opts.skip,
		Merge:    opts.merge,
		Diff:     opts.diff,
		Prompter: prompter,
		Out:      cmd.OutOrStdout(),
		Pager:    isTerminal(cmd.OutOrStdout()),
	})
	if err != nil {
		return err
	}

	session := &makers.Session{
		Prompter: prompter,
		Fs:       env.Fs,
		Bundles:  bundles,
		Now:      env.now,
		Bundle:   opts.bundle,
	}
	plan, err := registry.Plan(ctx, name, session)
	if errors.Is(err, input.ErrAborted) {
		output.Warning("Aborted, nothing was generated")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("plan ready",
		zap.String("maker", name),
		zap.String("bundle", plan.Bundle.Name),
		zap.Int("files", len(plan.Requests)))

	renderer := generator.NewRenderer(generator.NewFSStore(templates.FS(), cfg.Templates.Dir))
	renderer.AllowUnresolved = cfg.Templates.AllowUnresolved

	scaffolder := &generator.Scaffolder{
		Fs:       env.Fs,
		Renderer: renderer,
		Resolver: resolver,
		Merges:   merge.DefaultRegistry(),
		Logger:   logger,
	}

	report, err := generator.Execute(ctx, scaffolder, plan.Requests, generator.ExecuteOptions{
		DryRun: opts.dryRun,
		Writer: cmd.OutOrStdout(),
	})
	if errors.Is(err, input.ErrAborted) {
		output.Warning("Aborted, remaining files were not generated")
		return nil
	}
	if err != nil {
		return err
	}

	// created files are always shown; merged ones only on request
	for _, res := range report.Results {
		if res.Outcome == generator.OutcomeCreated || (opts.show && res.Outcome == generator.OutcomeMerged) {
			output.Code(res.Request.Target, res.Content)
		}
	}

	summary := fmt.Sprintf("%d created, %d merged, %d skipped, %d failed",
		report.Count(generator.OutcomeCreated),
		report.Count(generator.OutcomeMerged),
		report.Count(generator.OutcomeSkipped),
		report.Count(generator.OutcomeFailed))

	if err := report.Err(); err != nil {
		output.Error(summary)
		return fmt.Errorf("%s failed: %w", name, err)
	}

	if opts.dryRun {
		output.Info("Dry run: " + summary)
		return nil
	}
	output.Success(summary)

	if len(plan.Next) > 0 {
		output.Info("Next steps:")
		for _, step := range plan.Next {
			output.Step(step)
		}
	}
	return nil
}

// applyConfiguredStrategy turns conflict.strategy into the matching flag.
func applyConfiguredStrategy(opts *makeOptions, strategy string) {
	switch strategy {
	case "force":
		opts.force = !opts.diff
	case "skip":
		opts.skip = !opts.diff
	case "merge":
		opts.merge = !opts.diff
	}
}
