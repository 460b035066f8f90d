package generator

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/firebird-suite/wren/internal/input"
)

// Decision is what to do with one generated file.
type Decision int

const (
	// DecisionWrite writes a file that does not exist yet.
	DecisionWrite Decision = iota
	DecisionOverwrite
	DecisionMerge
	DecisionSkip
)

func (d Decision) String() string {
	switch d {
	case DecisionWrite:
		return "write"
	case DecisionOverwrite:
		return "overwrite"
	case DecisionMerge:
		return "merge"
	case DecisionSkip:
		return "skip"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// ParseDecision maps a configured strategy name onto a Decision.
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite", "force":
		return DecisionOverwrite, nil
	case "merge":
		return DecisionMerge, nil
	case "skip":
		return DecisionSkip, nil
	default:
		return DecisionSkip, fmt.Errorf("unknown conflict decision %q", s)
	}
}

// ConflictOptions are the choices offered for an existing file. The
// default is skip.
var ConflictOptions = []input.Option{
	{Value: "overwrite", Label: "Overwrite (replace with generated content)"},
	{Value: "merge", Label: "Merge (add missing entries to the existing file)"},
	{Value: "skip", Label: "Skip (keep existing file)"},
}

// ConflictStrategy decides what happens to a target that already exists.
type ConflictStrategy interface {
	Resolve(ctx context.Context, path string, existing, rendered []byte) (Decision, error)
}

// Resolver applies a ConflictStrategy to every target that already exists.
type Resolver struct {
	strategy ConflictStrategy
}

// ResolverOptions mirrors the conflict flags of the make command.
type ResolverOptions struct {
	Force bool // overwrite every existing file
	Skip  bool // keep every existing file
	Merge bool // merge every existing file
	Diff  bool // print a diff before asking

	Prompter input.Prompter
	Out      io.Writer // diff output, defaults to os.Stdout
	Pager    bool      // show long diffs in a full-screen viewer
}

// NewResolver creates a resolver for the given flags.
// Returns an error when flags contradict each other.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	if opts.Force && (opts.Skip || opts.Merge || opts.Diff) {
		return nil, fmt.Errorf("--force cannot be combined with --skip, --merge or --diff")
	}
	if opts.Skip && opts.Merge {
		return nil, fmt.Errorf("--skip cannot be combined with --merge")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	needsPrompt := !opts.Force && !opts.Skip && !opts.Merge
	if needsPrompt && opts.Prompter == nil {
		return nil, fmt.Errorf("interactive conflict resolution needs a prompter")
	}

	return &Resolver{strategy: selectStrategy(opts)}, nil
}

// NewResolverWithStrategy wraps an existing strategy.
func NewResolverWithStrategy(strategy ConflictStrategy) *Resolver {
	return &Resolver{strategy: strategy}
}

// Resolve returns DecisionWrite when existing is nil (the target is absent)
// and defers to the strategy otherwise.
func (r *Resolver) Resolve(ctx context.Context, path string, existing, rendered []byte) (Decision, error) {
	if existing == nil {
		return DecisionWrite, nil
	}
	return r.strategy.Resolve(ctx, path, existing, rendered)
}

func selectStrategy(opts ResolverOptions) ConflictStrategy {
	interactive := &InteractiveStrategy{Prompter: opts.Prompter}

	switch {
	case opts.Force:
		return FixedStrategy(DecisionOverwrite)
	case opts.Skip:
		return FixedStrategy(DecisionSkip)
	case opts.Merge:
		return FixedStrategy(DecisionMerge)
	case opts.Diff:
		return &DiffStrategy{Out: opts.Out, Pager: opts.Pager, Next: interactive}
	default:
		return interactive
	}
}

// FixedStrategy returns the same decision for every conflict.
type FixedStrategy Decision

func (s FixedStrategy) Resolve(ctx context.Context, path string, existing, rendered []byte) (Decision, error) {
	return Decision(s), nil
}

// InteractiveStrategy asks the operator.
type InteractiveStrategy struct {
	Prompter input.Prompter
}

func (s *InteractiveStrategy) Resolve(ctx context.Context, path string, existing, rendered []byte) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return DecisionSkip, err
	}

	choice, err := s.Prompter.Choose(fmt.Sprintf("File %s already exists. What should happen?", path), ConflictOptions, "skip")
	if err != nil {
		return DecisionSkip, err
	}
	return ParseDecision(choice)
}

// DiffStrategy shows a diff, then hands the decision to Next.
type DiffStrategy struct {
	Out   io.Writer
	Pager bool
	Next  ConflictStrategy
}

// pagerThreshold is the diff length above which the pager is used.
const pagerThreshold = 20

func (s *DiffStrategy) Resolve(ctx context.Context, path string, existing, rendered []byte) (Decision, error) {
	diff := Diff(path, existing, rendered)

	switch {
	case diff == "":
		fmt.Fprintln(s.Out, mutedStyle.Render("    (generated content is identical)"))
	case s.Pager && strings.Count(diff, "\n") > pagerThreshold:
		p := tea.NewProgram(newDiffViewerModel(path, diff), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return DecisionSkip, fmt.Errorf("failed to show diff: %w", err)
		}
	default:
		fmt.Fprint(s.Out, diff)
	}

	return s.Next.Resolve(ctx, path, existing, rendered)
}

var (
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// diffViewerModel is the BubbleTea model for scrolling long diffs.
type diffViewerModel struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{path: path, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc", "enter":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		const chrome = 4 // header and footer lines
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chrome)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chrome
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	rule := borderStyle.Render(strings.Repeat("─", max(0, m.viewport.Width)))
	footer := mutedStyle.Render(fmt.Sprintf(" %3.f%%    [↑/↓] Scroll    [q] Back to the question", m.viewport.ScrollPercent()*100))

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		titleStyle.Render(" Diff: "+m.path), rule, m.viewport.View(), rule, footer)
}
