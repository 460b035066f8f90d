package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	out         io.Writer = os.Stdout
	verboseMode bool

	highlightEnabled = true
	highlightStyle   = "monokai"
)

// SetOutput redirects all output to w. Tests use it to capture output.
func SetOutput(w io.Writer) {
	out = w
}

// Writer returns the current output writer.
func Writer() io.Writer {
	return out
}

// SetVerbose enables or disables verbose output.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetHighlight configures syntax highlighting for Code. An empty style keeps
// the current one.
func SetHighlight(enabled bool, style string) {
	highlightEnabled = enabled
	if style != "" {
		highlightStyle = style
	}
}

// Success prints a success message with ✅ emoji and green color.
//
// Example:
//
//	output.Success("Created src/Core/Content/MyEntity/MyEntityDefinition.php")
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("✅ "+msg))
}

// Error prints an error message with ❌ emoji and red color.
func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("❌ "+msg))
}

// Warning prints a warning with ⚠️ emoji and yellow color.
// Use this for things that did not happen but did not fail either.
func Warning(msg string) {
	fmt.Fprintln(out, warningStyle.Render("⚠️  "+msg))
}

// Info prints an informational message with ℹ️ emoji and cyan color.
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("ℹ️  "+msg))
}

// Step prints an indented step message in gray.
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(out, stepStyle.Render("🔍 "+msg))
	}
}

// Code prints generated content under a header naming path.
func Code(path string, content []byte) {
	fmt.Fprintln(out, stepStyle.Render("── "+path+" ──"))
	fmt.Fprint(out, Highlight(path, string(content)))
	if len(content) > 0 && content[len(content)-1] != '\n' {
		fmt.Fprintln(out)
	}
}

// Highlight returns source with terminal colors for the language implied
// by path. It returns source unchanged when highlighting is off or fails.
func Highlight(path, source string) string {
	if !highlightEnabled {
		return source
	}

	var buf strings.Builder
	if err := quick.Highlight(&buf, source, Language(path), "terminal256", highlightStyle); err != nil {
		return source
	}
	return buf.String()
}

// Language maps a file name onto a chroma lexer name.
func Language(path string) string {
	name := filepath.Base(path)
	switch {
	case strings.HasSuffix(name, ".html.twig"), strings.HasSuffix(name, ".twig"):
		return "twig"
	case strings.HasSuffix(name, ".php"):
		return "php"
	case strings.HasSuffix(name, ".xml"):
		return "xml"
	case strings.HasSuffix(name, ".js"):
		return "javascript"
	case strings.HasSuffix(name, ".scss"):
		return "scss"
	case strings.HasSuffix(name, ".json"):
		return "json"
	case strings.HasSuffix(name, ".yml"), strings.HasSuffix(name, ".yaml"):
		return "yaml"
	default:
		return "plaintext"
	}
}
