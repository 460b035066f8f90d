package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects output to a buffer for the duration of f.
func capture(t *testing.T, f func()) string {
	t.Helper()

	var buf bytes.Buffer
	prev := Writer()
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })

	f()
	return buf.String()
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name  string
		call  func(string)
		emoji string
	}{
		{"success", Success, "✅"},
		{"error", Error, "❌"},
		{"warning", Warning, "⚠️"},
		{"info", Info, "ℹ️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capture(t, func() { tt.call("message for " + tt.name) })

			assert.Contains(t, got, tt.emoji)
			assert.Contains(t, got, "message for "+tt.name)
		})
	}
}

func TestStep(t *testing.T) {
	got := capture(t, func() { Step("bin/console plugin:refresh") })
	assert.Contains(t, got, "   bin/console plugin:refresh")
}

func TestVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	assert.Empty(t, capture(t, func() { Verbose("hidden") }))

	SetVerbose(true)
	assert.Contains(t, capture(t, func() { Verbose("shown") }), "shown")
}

func TestHighlight_Disabled(t *testing.T) {
	t.Cleanup(func() { SetHighlight(true, "monokai") })
	SetHighlight(false, "")

	source := "<?php\nclass MyEntity {}\n"
	assert.Equal(t, source, Highlight("MyEntity.php", source))
}

func TestHighlight_Enabled(t *testing.T) {
	SetHighlight(true, "monokai")

	got := Highlight("MyEntity.php", "<?php\nclass MyEntity {}\n")
	assert.Contains(t, got, "MyEntity")
	assert.Contains(t, got, "\x1b[", "expected terminal escape sequences")
}

func TestCode(t *testing.T) {
	t.Cleanup(func() { SetHighlight(true, "monokai") })
	SetHighlight(false, "")

	got := capture(t, func() { Code("main.js", []byte("import A from './a';")) })
	assert.Contains(t, got, "── main.js ──")
	assert.Contains(t, got, "import A from './a';\n")
}

func TestLanguage(t *testing.T) {
	tests := map[string]string{
		"src/Foo.php":                                         "php",
		"src/Resources/config/services.xml":                   "xml",
		"src/Resources/app/storefront/src/main.js":            "javascript",
		"src/Resources/views/storefront/page/index.html.twig": "twig",
		"composer.json":                                       "json",
		".wren.yml":                                           "yaml",
		"README":                                              "plaintext",
	}

	for path, want := range tests {
		assert.Equal(t, want, Language(path), path)
	}
}
