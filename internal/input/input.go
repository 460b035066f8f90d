package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrAborted is returned when the operator cancels a question or input ends
// before a usable answer was given.
var ErrAborted = errors.New("input aborted")

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
)

// Option is one entry of a choice question.
type Option struct {
	Value string // returned when selected
	Label string // shown to the operator; Value when empty
}

func (o Option) display() string {
	if o.Label == "" {
		return o.Value
	}
	return o.Label
}

// Prompter asks the operator for input.
type Prompter interface {
	// Ask reads free text. An empty answer selects defaultValue. When
	// validate is non-nil the answer must pass it.
	Ask(question, defaultValue string, validate func(string) error) (string, error)
	// Choose returns the Value of one of options.
	Choose(question string, options []Option, defaultValue string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(question string, defaultYes bool) (bool, error)
}

// Terminal is a Prompter reading from a terminal or pipe.
type Terminal struct {
	in          io.Reader
	reader      *bufio.Reader
	out         io.Writer
	interactive bool

	ctx     context.Context
	pending chan readResult // read still running when the context was cancelled
}

type readResult struct {
	line string
	err  error
}

// NewTerminal creates a Prompter on in/out. The arrow-key menu is used only
// when in is a terminal.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	return &Terminal{
		in:          in,
		reader:      bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// WithContext makes every question return ErrAborted once ctx is done, even
// while a read is blocked.
func (t *Terminal) WithContext(ctx context.Context) *Terminal {
	t.ctx = ctx
	return t
}

// readLine reads one line, giving up when the context is cancelled. The
// abandoned read is picked up by the next call.
func (t *Terminal) readLine() (string, error) {
	if t.ctx == nil {
		return t.reader.ReadString('\n')
	}
	if err := t.ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAborted, err)
	}

	if t.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := t.reader.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
		t.pending = ch
	}

	select {
	case <-t.ctx.Done():
		fmt.Fprintln(t.out)
		return "", fmt.Errorf("%w: %w", ErrAborted, t.ctx.Err())
	case r := <-t.pending:
		t.pending = nil
		return r.line, r.err
	}
}

// Ask prompts until the answer passes validate. Input ending early falls
// back to the default when it is valid.
func (t *Terminal) Ask(question, defaultValue string, validate func(string) error) (string, error) {
	for {
		if defaultValue != "" {
			fmt.Fprint(t.out, promptStyle.Render(question)+" "+
				hintStyle.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
		} else {
			fmt.Fprint(t.out, promptStyle.Render(question)+": ")
		}

		line, readErr := t.readLine()
		if errors.Is(readErr, ErrAborted) {
			return "", readErr
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = defaultValue
		}

		if validate != nil {
			if err := validate(answer); err != nil {
				if readErr != nil {
					return "", fmt.Errorf("%w: %w", ErrAborted, err)
				}
				fmt.Fprintln(t.out, errorStyle.Render("  "+err.Error()))
				continue
			}
		}

		if readErr != nil && answer == "" {
			return "", ErrAborted
		}
		return answer, nil
	}
}

// Choose shows a menu of options.
func (t *Terminal) Choose(question string, options []Option, defaultValue string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %q", question)
	}

	cursor := 0
	for i, o := range options {
		if o.Value == defaultValue {
			cursor = i
		}
	}

	if t.interactive {
		return t.chooseMenu(question, options, cursor)
	}
	return t.chooseList(question, options, cursor)
}

func (t *Terminal) chooseMenu(question string, options []Option, cursor int) (string, error) {
	model := newChoiceMenuModel(question, options, cursor)
	opts := []tea.ProgramOption{tea.WithInput(t.in), tea.WithOutput(t.out)}
	if t.ctx != nil {
		opts = append(opts, tea.WithContext(t.ctx))
	}
	p := tea.NewProgram(model, opts...)
	finalModel, err := p.Run()
	if t.ctx != nil && t.ctx.Err() != nil {
		return "", fmt.Errorf("%w: %w", ErrAborted, t.ctx.Err())
	}
	if err != nil {
		return "", fmt.Errorf("failed to show menu: %w", err)
	}

	result := finalModel.(choiceMenuModel)
	if result.selected < 0 {
		return "", ErrAborted
	}
	return options[result.selected].Value, nil
}

// chooseList is the non-interactive fallback: a numbered list read line by line.
func (t *Terminal) chooseList(question string, options []Option, cursor int) (string, error) {
	fmt.Fprintln(t.out, promptStyle.Render(question))
	for i, o := range options {
		fmt.Fprintf(t.out, "  [%d] %s\n", i+1, o.display())
	}

	for {
		fmt.Fprint(t.out, hintStyle.Render(fmt.Sprintf("Select (%s)", options[cursor].Value))+": ")

		line, readErr := t.readLine()
		if errors.Is(readErr, ErrAborted) {
			return "", readErr
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			if readErr != nil && line == "" && readErr != io.EOF {
				return "", ErrAborted
			}
			return options[cursor].Value, nil
		}

		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1].Value, nil
		}
		for _, o := range options {
			if o.Value == answer {
				return o.Value, nil
			}
		}

		if readErr != nil {
			return "", fmt.Errorf("%w: invalid choice %q", ErrAborted, answer)
		}
		fmt.Fprintln(t.out, errorStyle.Render(fmt.Sprintf("  invalid choice %q", answer)))
	}
}

// Confirm returns true for y/yes. An empty answer returns defaultYes.
func (t *Terminal) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	fmt.Fprint(t.out, promptStyle.Render(question)+" "+hintStyle.Render(hint)+": ")

	line, err := t.readLine()
	if errors.Is(err, ErrAborted) {
		return false, err
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	if answer == "" {
		if err != nil && err != io.EOF {
			return false, ErrAborted
		}
		return defaultYes, nil
	}

	return answer == "y" || answer == "yes", nil
}

// choiceMenuModel is the BubbleTea model for a single-choice menu.
type choiceMenuModel struct {
	question string
	options  []Option
	cursor   int
	selected int
}

func newChoiceMenuModel(question string, options []Option, cursor int) choiceMenuModel {
	return choiceMenuModel{
		question: question,
		options:  options,
		cursor:   cursor,
		selected: -1,
	}
}

func (m choiceMenuModel) Init() tea.Cmd {
	return nil
}

func (m choiceMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}

		case "enter":
			m.selected = m.cursor
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m choiceMenuModel) View() string {
	var b strings.Builder

	b.WriteString(promptStyle.Render(m.question) + "\n")
	b.WriteString(hintStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, o := range m.options {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+o.display()) + "\n")
		} else {
			b.WriteString("      " + o.display() + "\n")
		}
	}

	return b.String()
}
