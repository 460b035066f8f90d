package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/simonhull/firebird-suite/wren/internal/merge"
)

// Outcome is the result of generating one file.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeMerged
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeMerged:
		return "merged"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Request asks for one template to be rendered into Target.
type Request struct {
	TemplateID string
	Variables  map[string]string
	Target     string
}

// Result reports what happened to one Request.
type Result struct {
	Request  Request
	Outcome  Outcome
	Decision Decision
	Content  []byte // bytes written, nil when nothing was written
	Err      error  // *FileError when Outcome is OutcomeFailed
}

// Scaffolder renders, resolves and writes one file at a time.
type Scaffolder struct {
	Fs       afero.Fs
	Renderer *Renderer
	Resolver *Resolver
	Merges   *merge.Registry
	Logger   *zap.Logger

	// FileMode is applied to new files, 0644 when zero.
	FileMode fs.FileMode
}

// Generate renders req, decides what to do with an existing target and
// applies the decision. It never returns a Go error: failures are carried
// in the Result so that a batch can continue.
func (s *Scaffolder) Generate(ctx context.Context, req Request) Result {
	log := s.logger().With(zap.String("path", req.Target), zap.String("template", req.TemplateID))
	res := Result{Request: req}

	fail := func(op string, err error) Result {
		res.Outcome = OutcomeFailed
		res.Err = &FileError{Path: req.Target, Op: op, Err: err}
		log.Debug("generation failed", zap.String("op", op), zap.Error(err))
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail("render", err)
	}

	rendered, err := s.Renderer.Render(req.TemplateID, req.Variables)
	if err != nil {
		return fail("render", err)
	}

	existing, err := s.readExisting(req.Target)
	if err != nil {
		return fail("read", err)
	}

	decision, err := s.Resolver.Resolve(ctx, req.Target, existing, []byte(rendered))
	if err != nil {
		return fail("resolve", err)
	}
	res.Decision = decision
	log.Debug("resolved target", zap.Stringer("decision", decision))

	switch decision {
	case DecisionSkip:
		res.Outcome = OutcomeSkipped

	case DecisionWrite, DecisionOverwrite:
		if err := s.write(req.Target, []byte(rendered)); err != nil {
			return fail("write", err)
		}
		res.Outcome = OutcomeCreated
		res.Content = []byte(rendered)

	case DecisionMerge:
		strategy, err := s.Merges.ForPath(req.Target)
		if err != nil {
			return fail("merge", err)
		}
		merged, err := strategy.Merge(existing, []byte(rendered))
		if err != nil {
			return fail("merge", err)
		}
		if err := s.write(req.Target, merged); err != nil {
			return fail("write", err)
		}
		res.Outcome = OutcomeMerged
		res.Content = merged

	default:
		return fail("resolve", fmt.Errorf("unknown decision %v", decision))
	}

	log.Debug("generated file", zap.Stringer("outcome", res.Outcome), zap.Int("bytes", len(res.Content)))
	return res
}

// readExisting returns nil when path does not exist and a non-nil slice
// (possibly empty) when it does.
func (s *Scaffolder) readExisting(path string) ([]byte, error) {
	info, err := s.Fs.Stat(path)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrWriteFailure, path)
	}

	data, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (s *Scaffolder) write(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := s.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: cannot create directory %s: %w", ErrWriteFailure, dir, err)
		}
	}

	mode := s.FileMode
	if mode == 0 {
		mode = 0o644
	}
	if err := afero.WriteFile(s.Fs, path, content, mode); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	return nil
}

func (s *Scaffolder) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
