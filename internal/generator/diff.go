package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DiffContext is the number of unchanged lines shown around each change.
const DiffContext = 3

// maxDiffLines bounds the edit graph; larger files only get a summary line.
const maxDiffLines = 10000

// maxEditDistance bounds the edit search, keeping the trace within a few
// megabytes.
const maxEditDistance = 1000

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

type editOp int

const (
	opEqual editOp = iota
	opInsert
	opDelete
)

type edit struct {
	op   editOp
	text string
}

// Diff renders a unified diff between the file on disk and what would be
// written. Identical content yields an empty string.
func Diff(path string, existing, rendered []byte) string {
	if bytes.Equal(existing, rendered) {
		return ""
	}
	if isBinary(existing) || isBinary(rendered) {
		return "Binary files differ\n"
	}

	a, b := diffLines(existing), diffLines(rendered)
	if len(a) > maxDiffLines || len(b) > maxDiffLines {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	script := editScript(a, b)
	width := terminalWidth() - 10

	var buf strings.Builder
	buf.WriteString(headerStyle.Render("--- "+path) + "\n")
	buf.WriteString(headerStyle.Render("+++ "+path+" (generated)") + "\n")

	for _, h := range hunkRanges(script, DiffContext) {
		writeHunk(&buf, script, h, width)
	}
	return buf.String()
}

// editScript computes the shortest edit script from a to b
// (Myers, "An O(ND) Difference Algorithm and Its Variations"). Past
// maxEditDistance it gives up and replaces a with b wholesale.
func editScript(a, b []string) []edit {
	n, m := len(a), len(b)
	limit := min(n+m, maxEditDistance)
	offset := n + m + 1
	v := make([]int, 2*(n+m)+3)

	// trace[d] holds diagonals -(d+1)..d+1 of v as they were before step d.
	var trace [][]int
	for d := 0; d <= limit; d++ {
		trace = append(trace, append([]int(nil), v[offset-d-1:offset+d+2]...))

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k

			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				return backtrack(trace, a, b)
			}
		}
	}
	return replaceAll(a, b)
}

func backtrack(trace [][]int, a, b []string) []edit {
	var script []edit
	x, y := len(a), len(b)

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		at := func(k int) int { return v[k+d+1] }
		k := x - y

		prevK := k - 1
		if k == -d || (k != d && at(k-1) < at(k+1)) {
			prevK = k + 1
		}
		prevX := at(prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			script = append(script, edit{opEqual, a[x]})
		}

		if d > 0 {
			if x == prevX {
				y--
				script = append(script, edit{opInsert, b[y]})
			} else {
				x--
				script = append(script, edit{opDelete, a[x]})
			}
		}
	}

	for i, j := 0, len(script)-1; i < j; i, j = i+1, j-1 {
		script[i], script[j] = script[j], script[i]
	}
	return script
}

func replaceAll(a, b []string) []edit {
	script := make([]edit, 0, len(a)+len(b))
	for _, line := range a {
		script = append(script, edit{opDelete, line})
	}
	for _, line := range b {
		script = append(script, edit{opInsert, line})
	}
	return script
}

type span struct{ start, end int }

// hunkRanges groups changes with up to context unchanged lines around
// them. Changes closer than 2*context lines share a hunk.
func hunkRanges(script []edit, context int) []span {
	var spans []span
	for i, e := range script {
		if e.op == opEqual {
			continue
		}
		start := max(0, i-context)
		end := min(len(script), i+context+1)

		if n := len(spans); n > 0 && start <= spans[n-1].end {
			spans[n-1].end = max(spans[n-1].end, end)
			continue
		}
		spans = append(spans, span{start, end})
	}
	return spans
}

func writeHunk(buf *strings.Builder, script []edit, h span, width int) {
	oldPos, newPos := 0, 0
	for _, e := range script[:h.start] {
		if e.op != opInsert {
			oldPos++
		}
		if e.op != opDelete {
			newPos++
		}
	}

	oldCount, newCount := 0, 0
	for _, e := range script[h.start:h.end] {
		if e.op != opInsert {
			oldCount++
		}
		if e.op != opDelete {
			newCount++
		}
	}

	buf.WriteString(hunkStyle.Render(fmt.Sprintf("@@ -%s +%s @@",
		hunkPos(oldPos, oldCount), hunkPos(newPos, newCount))) + "\n")

	for _, e := range script[h.start:h.end] {
		text := truncateLine(strings.ReplaceAll(e.text, "\t", "    "), width)
		switch e.op {
		case opInsert:
			buf.WriteString(addedStyle.Render("+"+text) + "\n")
		case opDelete:
			buf.WriteString(removedStyle.Render("-"+text) + "\n")
		default:
			buf.WriteString(" " + text + "\n")
		}
	}
}

func hunkPos(pos, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", pos)
	}
	return fmt.Sprintf("%d,%d", pos+1, count)
}

func diffLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// isBinary reports whether the first 8KiB contain a NUL byte.
func isBinary(data []byte) bool {
	if len(data) > 8192 {
		data = data[:8192]
	}
	return bytes.IndexByte(data, 0) != -1
}

func truncateLine(s string, width int) string {
	if width <= 3 {
		width = 80
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
