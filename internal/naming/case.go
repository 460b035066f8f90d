// Package naming converts and validates the identifiers that end up in
// generated PHP, JavaScript and Twig files.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PascalCase converts snake_case, kebab-case or camelCase to PascalCase.
// Examples: user_name → UserName, my-plugin → MyPlugin, userName → UserName
func PascalCase(s string) string {
	parts := words(s)
	for i, p := range parts {
		parts[i] = upperFirst(p)
	}
	return strings.Join(parts, "")
}

// CamelCase converts to camelCase.
// Examples: user_name → userName, HTTPServer → httpServer
func CamelCase(s string) string {
	parts := words(s)
	for i, p := range parts {
		if i == 0 {
			parts[i] = strings.ToLower(p)
		} else {
			parts[i] = upperFirst(p)
		}
	}
	return strings.Join(parts, "")
}

// SnakeCase converts PascalCase or camelCase to snake_case.
// Examples: UserName → user_name, HTTPServer → http_server
func SnakeCase(s string) string {
	return strings.ToLower(strings.Join(words(s), "_"))
}

// KebabCase converts PascalCase or camelCase to kebab-case.
// Examples: MyPlugin → my-plugin, SuperCoolSlider → super-cool-slider
func KebabCase(s string) string {
	return strings.ToLower(strings.Join(words(s), "-"))
}

// Title capitalizes every word; hyphens and underscores separate words.
// Example: my-custom-component → My Custom Component
func Title(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

var (
	moduleStrip  = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	moduleSpaces = regexp.MustCompile(`\s+`)
	moduleHumps  = regexp.MustCompile(`([a-z])([A-Z])`)
)

// ModuleID turns a human module name into an admin module id.
// Examples: MyCustomModule → my-custom-module, "Shop Stats!" → shop-stats
func ModuleID(name string) string {
	s := strings.TrimSpace(name)
	s = moduleStrip.ReplaceAllString(s, "")
	s = moduleSpaces.ReplaceAllString(s, "-")
	s = moduleHumps.ReplaceAllString(s, "$1-$2")
	return strings.ToLower(s)
}

// FunctionName derives a controller method name from a dotted route name.
// Example: example.plugin.controller → examplePluginController
func FunctionName(routeName string) string {
	segments := strings.Split(routeName, ".")
	for i, seg := range segments {
		if i > 0 {
			segments[i] = upperFirst(seg)
		}
	}
	return strings.Join(segments, "")
}

// EntityBaseName strips a trailing "Entity" from an entity class name.
// Example: ProductReviewEntity → ProductReview
func EntityBaseName(name string) string {
	name = strings.TrimSpace(name)
	if base := strings.TrimSuffix(name, "Entity"); base != "" {
		return base
	}
	return name
}

func upperFirst(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// words splits s at '_', '-', '.', spaces and case humps. Acronyms stay
// together: HTTPServer → [HTTP Server].
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = nil
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}
