package merge

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fooEntry = Entry{
	Import:      "import Foo from './foo';",
	Declaration: "const Mgr = window.Mgr;",
	Register:    "Mgr.register('Foo', Foo, '[data-foo]');",
}

func TestMergeLines_EmptyFile(t *testing.T) {
	got := MergeLines(nil, fooEntry)

	want := []string{
		"import Foo from './foo';",
		"const Mgr = window.Mgr;",
		"Mgr.register('Foo', Foo, '[data-foo]');",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeLines() mismatch (-want +got):\n%s", diff)
	}

	again := MergeLines(got, fooEntry)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("second merge changed output (-first +second):\n%s", diff)
	}
}

func TestMergeLines_Idempotent(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"empty", nil},
		{"comment only", []string{"// Auto-generated main.js"}},
		{"existing imports", []string{
			"import A from './a';",
			"import B from './b';",
			"",
			"console.log('x');",
		}},
		{"already registered", []string{
			"import Foo from './foo';",
			"const Mgr = window.Mgr;",
			"Mgr.register('Foo', Foo, '[data-foo]');",
		}},
		{"declaration above imports", []string{
			"const Mgr = window.Mgr;",
			"import Foo from './foo';",
			"window.init();",
		}},
		{"register above declaration", []string{
			"Mgr.register('Foo', Foo, '[data-foo]');",
			"import Foo from './foo';",
			"const Mgr = window.Mgr;",
		}},
		{"other registrations", []string{
			"import Bar from './bar';",
			"const Mgr = window.Mgr;",
			"Mgr.register('Bar', Bar, '[data-bar]');",
			"",
			"// trailing comment",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := MergeLines(tt.lines, fooEntry)
			twice := MergeLines(once, fooEntry)

			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("merge is not idempotent (-once +twice):\n%s", diff)
			}
			assertOrder(t, once, fooEntry)
			assertUnrelatedPreserved(t, tt.lines, once, fooEntry)
		})
	}
}

func TestMergeLines_ImportAfterLastImport(t *testing.T) {
	lines := []string{
		"import A from './a';",
		"import B from './b';",
		"",
		"const Mgr = window.Mgr;",
		"Mgr.register('A', A, '[data-a]');",
		"Mgr.register('B', B, '[data-b]');",
	}

	got := MergeLines(lines, fooEntry)

	want := []string{
		"import A from './a';",
		"import B from './b';",
		"import Foo from './foo';",
		"",
		"const Mgr = window.Mgr;",
		"Mgr.register('A', A, '[data-a]');",
		"Mgr.register('B', B, '[data-b]');",
		"Mgr.register('Foo', Foo, '[data-foo]');",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeLines_MultiLineImport(t *testing.T) {
	lines := []string{
		"import './styles.scss'",
		"import {",
		"    a,",
		"    b,",
		"} from './ab';",
		"",
		"window.init();",
	}

	got := MergeLines(lines, fooEntry)

	want := []string{
		"import './styles.scss'",
		"import {",
		"    a,",
		"    b,",
		"} from './ab';",
		"import Foo from './foo';",
		"const Mgr = window.Mgr;",
		"Mgr.register('Foo', Foo, '[data-foo]');",
		"",
		"window.init();",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeLines() mismatch (-want +got):\n%s", diff)
	}

	again := MergeLines(got, fooEntry)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("second merge changed output (-first +second):\n%s", diff)
	}
}

func TestMergeLines_DeclarationMovedBelowMultiLineImport(t *testing.T) {
	lines := []string{
		"const Mgr = window.Mgr;",
		"import {",
		"    a,",
		"} from './a';",
	}

	got := MergeLines(lines, fooEntry)

	want := []string{
		"import {",
		"    a,",
		"} from './a';",
		"import Foo from './foo';",
		"const Mgr = window.Mgr;",
		"Mgr.register('Foo', Foo, '[data-foo]');",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeLines_DoesNotMutateInput(t *testing.T) {
	lines := []string{"import A from './a';", "console.log('a');"}
	snapshot := append([]string(nil), lines...)

	MergeLines(lines, fooEntry)

	assert.Equal(t, snapshot, lines)
}

func TestMergeLines_ImportOnlyEntry(t *testing.T) {
	entry := Entry{Import: "import './module/my-module';"}
	lines := []string{"import './module/other';"}

	got := MergeLines(lines, entry)

	assert.Equal(t, []string{"import './module/other';", "import './module/my-module';"}, got)
	assert.Equal(t, got, MergeLines(got, entry))
}

func TestMergeLines_RegisterWithoutDeclarationGoesToEnd(t *testing.T) {
	entry := Entry{Register: "Mgr.register('Foo', Foo, '[data-foo]');"}
	lines := []string{"import Foo from './foo';", "init();"}

	got := MergeLines(lines, entry)

	assert.Equal(t, "Mgr.register('Foo', Foo, '[data-foo]');", got[len(got)-1])
}

func TestMergeLines_TrimmedMatch(t *testing.T) {
	lines := []string{
		"  import Foo from './foo';  ",
		"const Mgr = window.Mgr;",
		"\tMgr.register('Foo', Foo, '[data-foo]');",
	}

	got := MergeLines(lines, fooEntry)

	assert.Equal(t, lines, got)
}

func TestParseEntry(t *testing.T) {
	content := []byte(`// Auto-generated main.js
import Foo from './foo/foo';

const PluginManager = window.PluginManager;
PluginManager.register('Foo', Foo, '[data-foo]');
`)

	entry, err := ParseEntry(content)
	require.NoError(t, err)

	assert.Equal(t, "import Foo from './foo/foo';", entry.Import)
	assert.Equal(t, "const PluginManager = window.PluginManager;", entry.Declaration)
	assert.Equal(t, "PluginManager.register('Foo', Foo, '[data-foo]');", entry.Register)
}

func TestParseEntry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"no structural lines", "// nothing here\nconsole.log(1);\n"},
		{"duplicate import", "import A from './a';\nimport B from './b';\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntry([]byte(tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDocument))
		})
	}
}

func TestModuleEntryMerger_Merge(t *testing.T) {
	rendered := []byte("import Foo from './foo';\nconst Mgr = window.Mgr;\nMgr.register('Foo', Foo, '[data-foo]');\n")
	m := &ModuleEntryMerger{}

	first, err := m.Merge(nil, rendered)
	require.NoError(t, err)
	assert.Equal(t, string(rendered), string(first))

	second, err := m.Merge(first, rendered)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second), "second merge must be byte-identical")
}

func TestModuleEntryMerger_PreservesLineEndings(t *testing.T) {
	existing := []byte("import A from './a';\r\nconsole.log('a');")
	rendered := []byte("import Foo from './foo';\n")

	merged, err := (&ModuleEntryMerger{}).Merge(existing, rendered)
	require.NoError(t, err)

	assert.Equal(t, "import A from './a';\r\nimport Foo from './foo';\r\nconsole.log('a');", string(merged))
}

func assertOrder(t *testing.T, lines []string, entry Entry) {
	t.Helper()

	imp := indexOfLine(lines, entry.Import)
	decl := indexOfLine(lines, entry.Declaration)
	reg := indexOfLine(lines, entry.Register)

	require.GreaterOrEqual(t, imp, 0, "import missing")
	assert.Greater(t, decl, imp, "declaration must follow import")
	assert.Greater(t, reg, decl, "register must follow declaration")

	for _, want := range []string{entry.Import, entry.Declaration, entry.Register} {
		count := 0
		for _, line := range lines {
			if strings.TrimSpace(line) == want {
				count++
			}
		}
		assert.Equal(t, 1, count, "line %q should appear exactly once", want)
	}
}

func assertUnrelatedPreserved(t *testing.T, before, after []string, entry Entry) {
	t.Helper()

	structural := map[string]bool{
		entry.Import:      true,
		entry.Declaration: true,
		entry.Register:    true,
	}
	filter := func(lines []string) []string {
		var out []string
		for _, line := range lines {
			if !structural[strings.TrimSpace(line)] {
				out = append(out, line)
			}
		}
		return out
	}

	if diff := cmp.Diff(filter(before), filter(after)); diff != "" {
		t.Errorf("unrelated lines changed (-before +after):\n%s", diff)
	}
}
