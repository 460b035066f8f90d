package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/simonhull/firebird-suite/wren/internal/input"
)

// ExecuteOptions configures batch execution.
type ExecuteOptions struct {
	DryRun bool
	Writer io.Writer // where to write per-file lines (defaults to os.Stdout)
}

// Report collects the results of a batch.
type Report struct {
	Results []Result
}

// Count returns how many results ended with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Err joins the errors of every failed file, nil when none failed.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// DryRunFs layers an in-memory overlay over base. Reads see base, writes
// land in memory only.
func DryRunFs(base afero.Fs) afero.Fs {
	return afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(base), afero.NewMemMapFs())
}

// Execute generates every request in order. A failed file does not stop
// the batch; cancellation of ctx or an aborted prompt does, and is returned
// together with the results gathered so far.
func Execute(ctx context.Context, s *Scaffolder, reqs []Request, opts ExecuteOptions) (*Report, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	if opts.DryRun {
		dry := *s
		dry.Fs = DryRunFs(s.Fs)
		s = &dry
	}

	report := &Report{}
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := s.Generate(ctx, req)
		report.Results = append(report.Results, res)
		fmt.Fprintln(opts.Writer, describe(res, opts.DryRun))

		if errors.Is(res.Err, input.ErrAborted) || errors.Is(res.Err, context.Canceled) {
			return report, res.Err
		}
	}

	return report, nil
}

func describe(res Result, dryRun bool) string {
	prefix := ""
	if dryRun {
		prefix = "[DRY RUN] "
	}

	target := res.Request.Target
	switch res.Outcome {
	case OutcomeCreated:
		verb := "Create"
		if res.Decision == DecisionOverwrite {
			verb = "Overwrite"
		}
		return fmt.Sprintf("✓ %s%s %s (%d bytes)", prefix, verb, target, len(res.Content))
	case OutcomeMerged:
		return fmt.Sprintf("✓ %sMerge %s (%d bytes)", prefix, target, len(res.Content))
	case OutcomeSkipped:
		return fmt.Sprintf("- %sSkip %s", prefix, target)
	default:
		return fmt.Sprintf("✗ %sFailed %v", prefix, res.Err)
	}
}
