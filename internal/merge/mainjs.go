package merge

import (
	"fmt"
	"strings"
)

const (
	importMarker      = "import "
	declarationMarker = "const "
	registerMarker    = ".register("
)

// Entry holds the three structurally significant lines of a module entry
// file. Empty fields are not inserted.
type Entry struct {
	Import      string // import Foo from './foo/foo';
	Declaration string // const PluginManager = window.PluginManager;
	Register    string // PluginManager.register('Foo', Foo, '[data-foo]');
}

// ParseEntry extracts an Entry from rendered main.js content. Lines that are
// none of the three kinds (comments, blank lines) are ignored.
func ParseEntry(content []byte) (Entry, error) {
	var entry Entry
	lines, _, _ := splitLines(content)

	set := func(field *string, kind, line string) error {
		if *field != "" {
			return fmt.Errorf("%w: more than one %s line", ErrMalformedDocument, kind)
		}
		*field = line
		return nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		var err error
		switch {
		case isImportLine(trimmed):
			err = set(&entry.Import, "import", trimmed)
		case isDeclarationLine(trimmed):
			err = set(&entry.Declaration, "declaration", trimmed)
		case isRegisterLine(trimmed):
			err = set(&entry.Register, "register", trimmed)
		}
		if err != nil {
			return Entry{}, err
		}
	}

	if entry == (Entry{}) {
		return Entry{}, fmt.Errorf("%w: no import, declaration or register line", ErrMalformedDocument)
	}

	return entry, nil
}

func isImportLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, importMarker)
}

func isDeclarationLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, declarationMarker) && strings.Contains(trimmed, "window.")
}

func isRegisterLine(trimmed string) bool {
	return strings.Contains(trimmed, registerMarker)
}

// MergeLines inserts the entry's lines into lines. Each insertion is a no-op
// when the line is already present. The result always has
// import < declaration < register by index; unrelated lines keep their
// relative order. The input slice is not modified.
func MergeLines(lines []string, entry Entry) []string {
	out := append([]string(nil), lines...)

	// Import: after the last import line, or at the top.
	importIdx := -1
	if strings.TrimSpace(entry.Import) != "" {
		importIdx = indexOfLine(out, entry.Import)
		if importIdx < 0 {
			importIdx = lastImportIndex(out) + 1
			out = insertLine(out, importIdx, entry.Import)
		}
	}

	// Declaration: after the import block.
	declIdx := -1
	if strings.TrimSpace(entry.Declaration) != "" {
		declIdx = indexOfLine(out, entry.Declaration)
		switch {
		case declIdx < 0:
			declIdx = lastImportIndex(out) + 1
			out = insertLine(out, declIdx, entry.Declaration)
		case declIdx < importIdx:
			out, declIdx = moveLineAfter(out, declIdx, lastImportIndex(out))
		}
	}

	// Register: after the declaration and any registrations following it,
	// or at the end when there is no declaration.
	if strings.TrimSpace(entry.Register) != "" {
		regIdx := indexOfLine(out, entry.Register)
		switch {
		case regIdx < 0:
			out = insertLine(out, registrationAnchor(out, declIdx)+1, entry.Register)
		case regIdx < declIdx:
			out, _ = moveLineAfter(out, regIdx, registrationAnchor(out, declIdx))
		}
	}

	return out
}

// ModuleEntryMerger merges a rendered main.js entry into an existing main.js.
type ModuleEntryMerger struct{}

// Merge extracts the entry lines from incoming and inserts them into existing.
func (m *ModuleEntryMerger) Merge(existing, incoming []byte) ([]byte, error) {
	entry, err := ParseEntry(incoming)
	if err != nil {
		return nil, fmt.Errorf("incoming document: %w", err)
	}

	lines, newline, trailing := splitLines(existing)
	merged := MergeLines(lines, entry)
	return joinLines(merged, newline, trailing), nil
}

func indexOfLine(lines []string, target string) int {
	want := strings.TrimSpace(target)
	for i, line := range lines {
		if strings.TrimSpace(line) == want {
			return i
		}
	}
	return -1
}

// lastImportIndex returns the index of the line ending the last import
// statement. A multi-line import ends on the line naming its source.
func lastImportIndex(lines []string) int {
	last := -1
	inImport := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inImport && isImportLine(trimmed) {
			inImport = true
		}
		if inImport && endsImport(trimmed) {
			inImport = false
			last = i
		}
	}
	return last
}

func endsImport(trimmed string) bool {
	return strings.HasSuffix(trimmed, ";") ||
		strings.Contains(trimmed, " from ") ||
		strings.HasPrefix(trimmed, "from ") ||
		strings.HasPrefix(trimmed, "import '") ||
		strings.HasPrefix(trimmed, `import "`)
}

// registrationAnchor returns the index a new register line goes after.
func registrationAnchor(lines []string, declIdx int) int {
	if declIdx < 0 {
		return len(lines) - 1
	}
	anchor := declIdx
	for i := declIdx + 1; i < len(lines); i++ {
		if isRegisterLine(strings.TrimSpace(lines[i])) {
			anchor = i
		}
	}
	return anchor
}

func insertLine(lines []string, at int, line string) []string {
	lines = append(lines, "")
	copy(lines[at+1:], lines[at:])
	lines[at] = line
	return lines
}

// moveLineAfter moves lines[from] to just after lines[anchor] (anchor > from)
// and returns the new slice and the moved line's index.
func moveLineAfter(lines []string, from, anchor int) ([]string, int) {
	if anchor <= from {
		return lines, from
	}
	line := lines[from]
	copy(lines[from:anchor], lines[from+1:anchor+1])
	lines[anchor] = line
	return lines, anchor
}

// splitLines splits content into lines, reporting the newline sequence and
// whether the content ended with one. Empty content yields no lines and a
// trailing newline so freshly built files end cleanly.
func splitLines(content []byte) ([]string, string, bool) {
	s := string(content)
	newline := "\n"
	if strings.Contains(s, "\r\n") {
		newline = "\r\n"
	}
	if s == "" {
		return nil, newline, true
	}

	trailing := strings.HasSuffix(s, newline)
	s = strings.TrimSuffix(s, newline)
	return strings.Split(s, newline), newline, trailing
}

func joinLines(lines []string, newline string, trailing bool) []byte {
	out := strings.Join(lines, newline)
	if trailing && len(lines) > 0 {
		out += newline
	}
	return []byte(out)
}
