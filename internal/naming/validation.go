package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ValidationError describes why an answer was rejected.
type ValidationError struct {
	Field      string // what was asked, e.g. "class name"
	Value      string
	Message    string
	Suggestion string // optional
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Suggestion: %s", e.Suggestion)
	}
	return msg
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	result := fmt.Sprintf("found %d validation errors:\n", len(e))
	for i, err := range e {
		result += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return result
}

func invalid(field, value, message string) error {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// MaxNameLength bounds entity and admin component names.
const MaxNameLength = 50

// reservedWords are PHP keywords that cannot name a class, compared
// case-insensitively.
var reservedWords = map[string]struct{}{
	"abstract": {}, "and": {}, "array": {}, "as": {}, "break": {}, "callable": {},
	"case": {}, "catch": {}, "class": {}, "clone": {}, "const": {}, "continue": {},
	"declare": {}, "default": {}, "die": {}, "do": {}, "echo": {}, "else": {},
	"elseif": {}, "empty": {}, "enddeclare": {}, "endfor": {}, "endforeach": {},
	"endif": {}, "endswitch": {}, "endwhile": {}, "eval": {}, "exit": {},
	"extends": {}, "final": {}, "finally": {}, "fn": {}, "for": {}, "foreach": {},
	"function": {}, "global": {}, "goto": {}, "if": {}, "implements": {},
	"include": {}, "include_once": {}, "instanceof": {}, "insteadof": {},
	"interface": {}, "isset": {}, "list": {}, "match": {}, "namespace": {},
	"new": {}, "or": {}, "print": {}, "private": {}, "protected": {}, "public": {},
	"readonly": {}, "require": {}, "require_once": {}, "return": {}, "static": {},
	"switch": {}, "throw": {}, "trait": {}, "try": {}, "unset": {}, "use": {},
	"var": {}, "while": {}, "xor": {}, "yield": {}, "__halt_compiler": {},
}

// IsReserved reports whether word is a PHP keyword.
func IsReserved(word string) bool {
	_, ok := reservedWords[strings.ToLower(word)]
	return ok
}

var (
	classNamePattern     = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	entityNamePattern    = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	dottedPattern        = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)+$`)
	paramSegmentPattern  = regexp.MustCompile(`^\{[a-zA-Z][a-zA-Z0-9]*\??\}$`)
	prefixedParamPattern = regexp.MustCompile(`^[a-z0-9\-]+\{[a-zA-Z][a-zA-Z0-9]*\??\}$`)
	pathSegmentPattern   = regexp.MustCompile(`^[a-z][a-z0-9\-]*$`)
	twigTemplatePattern  = regexp.MustCompile(`^/storefront/[a-z0-9_/]+\.html\.twig$`)
	componentPattern     = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	hexColorPattern      = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)
)

// NotEmpty returns a validator rejecting blank answers for field.
func NotEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return invalid(field, s, "cannot be empty")
		}
		return nil
	}
}

// ValidateClassName checks a PHP class name.
func ValidateClassName(name string) error {
	const field = "class name"
	switch {
	case name == "":
		return invalid(field, name, "cannot be empty")
	case !classNamePattern.MatchString(name):
		return invalid(field, name, "must start with a letter or underscore and contain only letters, numbers and underscores")
	case IsReserved(name):
		return &ValidationError{
			Field:      field,
			Value:      name,
			Message:    "is a PHP reserved keyword",
			Suggestion: "add a suffix, e.g. " + upperFirst(name) + "Service",
		}
	}
	return nil
}

// ValidateEntityName checks a DAL entity name.
func ValidateEntityName(name string) error {
	const field = "entity name"
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return invalid(field, name, "cannot be empty")
	case !entityNamePattern.MatchString(trimmed):
		return invalid(field, name, "must start with an uppercase letter and contain only alphanumeric characters")
	case len(trimmed) > MaxNameLength:
		return invalid(field, name, fmt.Sprintf("cannot be longer than %d characters", MaxNameLength))
	case IsReserved(trimmed):
		return invalid(field, name, "is a PHP reserved keyword")
	}
	return nil
}

// ValidateRouteName checks a dotted route name like example.plugin.controller.
func ValidateRouteName(name string) error {
	return validateDotted("route name", name, "example.plugin.controller")
}

// ValidateTaskIdentifier checks a scheduled task name like vendor.task_name.
func ValidateTaskIdentifier(name string) error {
	return validateDotted("task identifier", name, "vendor.task_name")
}

func validateDotted(field, value, example string) error {
	if value == "" {
		return invalid(field, value, "cannot be empty")
	}
	if !dottedPattern.MatchString(value) {
		return &ValidationError{
			Field:      field,
			Value:      value,
			Message:    "must be lowercase segments of letters, numbers and underscores separated by dots",
			Suggestion: example,
		}
	}
	return nil
}

// ValidateRoutePath checks a route path such as /example/{id} or /item-{id?}.
func ValidateRoutePath(p string) error {
	const field = "route path"
	switch {
	case p == "":
		return invalid(field, p, "cannot be empty")
	case !strings.HasPrefix(p, "/"):
		return invalid(field, p, "must start with a slash")
	case len(p) > 1 && strings.HasSuffix(p, "/"):
		return invalid(field, p, "should not end with a slash")
	case strings.Contains(p, "//"):
		return invalid(field, p, "cannot contain consecutive slashes")
	}

	segments := strings.Split(strings.Trim(p, "/"), "/")
	if len(segments) == 1 && segments[0] == "" {
		return invalid(field, p, "must contain at least one segment after the leading slash")
	}

	for _, seg := range segments {
		if paramSegmentPattern.MatchString(seg) || prefixedParamPattern.MatchString(seg) {
			continue
		}
		if !pathSegmentPattern.MatchString(seg) {
			return &ValidationError{
				Field:      field,
				Value:      p,
				Message:    fmt.Sprintf("segment %q must start with a lowercase letter and contain only lowercase letters, numbers and hyphens", seg),
				Suggestion: "use a parameter like {id} or prefix-{id}",
			}
		}
	}
	return nil
}

// ValidateTwigTemplate checks a storefront template path.
func ValidateTwigTemplate(name string) error {
	const field = "twig template"
	if name == "" {
		return invalid(field, name, "cannot be empty")
	}
	if !twigTemplatePattern.MatchString(name) {
		return &ValidationError{
			Field:      field,
			Value:      name,
			Message:    `must start with "/storefront/" and end with ".html.twig"`,
			Suggestion: "/storefront/page/example/index.html.twig",
		}
	}
	return nil
}

// ValidateComponentName checks an admin component name like my-component.
func ValidateComponentName(name string) error {
	const field = "component name"
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return invalid(field, name, "cannot be empty")
	case !componentPattern.MatchString(trimmed):
		return invalid(field, name, "must start with a lowercase letter and contain only lowercase letters, numbers and hyphens")
	case !strings.Contains(trimmed, "-"):
		return invalid(field, name, "must contain at least one hyphen")
	case len(trimmed) > MaxNameLength:
		return invalid(field, name, fmt.Sprintf("cannot be longer than %d characters", MaxNameLength))
	}
	return nil
}

// NormalizeHexColor accepts "189eff" or "#189EFF" and returns "#189EFF".
func NormalizeHexColor(s string) (string, error) {
	color := strings.TrimSpace(s)
	if color == "" {
		return "", invalid("color", s, "cannot be empty")
	}
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	if !hexColorPattern.MatchString(color) {
		return "", &ValidationError{Field: "color", Value: s, Message: "must use the format #RRGGBB", Suggestion: "#189EFF"}
	}
	return strings.ToUpper(color), nil
}

// ValidateHexColor is NormalizeHexColor as a validator.
func ValidateHexColor(s string) error {
	_, err := NormalizeHexColor(s)
	return err
}

// ValidatePositiveInt checks a whole number greater than zero.
func ValidatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return invalid("number", s, "must be a positive whole number")
	}
	return nil
}

// ValidateNamespacePath checks a relative path below a bundle's source dir,
// e.g. Core/Content/Example.
func ValidateNamespacePath(p string) error {
	const field = "namespace path"
	trimmed := strings.Trim(strings.TrimSpace(p), "/")
	if trimmed == "" {
		return invalid(field, p, "cannot be empty")
	}
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return invalid(field, p, "must be a relative path without empty, '.' or '..' segments")
		}
	}
	return nil
}

var storeAPIRestPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*$`)

// StoreAPIPrefix starts every store API route name and path.
const StoreAPIPrefix = "store-api"

// ValidateStoreAPIRouteName checks a route name like store-api.example.load.
func ValidateStoreAPIRouteName(name string) error {
	const field = "route name"
	rest, ok := strings.CutPrefix(name, StoreAPIPrefix+".")
	if !ok || !storeAPIRestPattern.MatchString(rest) {
		return &ValidationError{
			Field:      field,
			Value:      name,
			Message:    `must start with "store-api." followed by lowercase segments separated by dots`,
			Suggestion: "store-api.example.load",
		}
	}
	return nil
}

// ValidateStoreAPIRoutePath checks a route path below /store-api/.
func ValidateStoreAPIRoutePath(p string) error {
	if err := ValidateRoutePath(p); err != nil {
		return err
	}
	if !strings.HasPrefix(p, "/"+StoreAPIPrefix+"/") {
		return &ValidationError{
			Field:      "route path",
			Value:      p,
			Message:    `must start with "/store-api/"`,
			Suggestion: "/store-api/example",
		}
	}
	return nil
}

var jsClassPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// ValidateJSClassName checks a storefront JavaScript plugin class name.
func ValidateJSClassName(name string) error {
	if !jsClassPattern.MatchString(name) {
		return &ValidationError{
			Field:      "plugin class name",
			Value:      name,
			Message:    "must start with an uppercase letter and contain only letters and numbers",
			Suggestion: "MyPlugin",
		}
	}
	return nil
}

// HTTPMethods are the methods a generated route may accept.
var HTTPMethods = []string{"GET", "POST", "PUT", "DELETE"}

// ParseHTTPMethods splits a comma or space separated list such as
// "get, post" into unique upper-case methods, keeping their order.
func ParseHTTPMethods(s string) ([]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, invalid("methods", s, "select at least one method")
	}

	var methods []string
	seen := make(map[string]bool)
	for _, f := range fields {
		m := strings.ToUpper(f)
		if !isHTTPMethod(m) {
			return nil, &ValidationError{
				Field:      "methods",
				Value:      s,
				Message:    fmt.Sprintf("unknown method %q", f),
				Suggestion: strings.Join(HTTPMethods, ", "),
			}
		}
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	return methods, nil
}

// ValidateHTTPMethods is ParseHTTPMethods as a validator.
func ValidateHTTPMethods(s string) error {
	_, err := ParseHTTPMethods(s)
	return err
}

func isHTTPMethod(m string) bool {
	for _, known := range HTTPMethods {
		if m == known {
			return true
		}
	}
	return false
}
