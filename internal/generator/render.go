package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// TemplateExt is the suffix every template id carries.
const TemplateExt = ".template"

// placeholderPattern matches {{NAME}} tokens. Twig and Vue expressions use
// spaces inside the braces and never match.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// Store resolves template ids to raw template text.
type Store interface {
	Load(id string) ([]byte, error)
	List() ([]string, error)
}

// FSStore reads templates from an embedded tree. When Overrides is set,
// a template present there shadows the embedded one with the same id.
type FSStore struct {
	Embedded  fs.FS
	Overrides afero.Fs
}

// NewFSStore creates a store over embedded. overrideDir may be empty.
func NewFSStore(embedded fs.FS, overrideDir string) *FSStore {
	s := &FSStore{Embedded: embedded}
	if overrideDir != "" {
		s.Overrides = afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), overrideDir))
	}
	return s
}

func (s *FSStore) Load(id string) ([]byte, error) {
	if !fs.ValidPath(id) || id == "." {
		return nil, fmt.Errorf("%w: invalid id %q", ErrTemplateNotFound, id)
	}

	if s.Overrides != nil {
		data, err := afero.ReadFile(s.Overrides, filepath.FromSlash(id))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read override template '%s': %w", id, err)
		}
	}

	if s.Embedded == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}

	data, err := fs.ReadFile(s.Embedded, id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
		}
		return nil, fmt.Errorf("failed to read template '%s': %w", id, err)
	}
	return data, nil
}

// List returns every template id in the store, sorted.
func (s *FSStore) List() ([]string, error) {
	seen := make(map[string]bool)

	if s.Embedded != nil {
		err := fs.WalkDir(s.Embedded, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, TemplateExt) {
				seen[p] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list embedded templates: %w", err)
		}
	}

	if s.Overrides != nil {
		err := afero.Walk(s.Overrides, ".", func(p string, info fs.FileInfo, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if !info.IsDir() && strings.HasSuffix(p, TemplateExt) {
				seen[path.Clean(filepath.ToSlash(p))] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list override templates: %w", err)
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Renderer substitutes variables into templates from a Store, caching the
// raw text of every template it loads.
type Renderer struct {
	store Store

	// AllowUnresolved leaves unknown {{NAME}} tokens in the output instead
	// of failing with ErrUnresolvedPlaceholder.
	AllowUnresolved bool

	cache map[string]string
	mu    sync.RWMutex
}

// NewRenderer creates a renderer reading from store.
func NewRenderer(store Store) *Renderer {
	return &Renderer{
		store: store,
		cache: make(map[string]string),
	}
}

// Render loads templateID and replaces every {{KEY}} with variables[KEY].
func (r *Renderer) Render(templateID string, variables map[string]string) (string, error) {
	raw, err := r.load(templateID)
	if err != nil {
		return "", err
	}

	if !r.AllowUnresolved {
		if missing := Unresolved(raw, variables); len(missing) > 0 {
			return "", fmt.Errorf("%w in '%s': %s", ErrUnresolvedPlaceholder, templateID, strings.Join(missing, ", "))
		}
	}

	return Substitute(raw, variables), nil
}

// ClearCache drops all cached templates.
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]string)
}

func (r *Renderer) load(id string) (string, error) {
	r.mu.RLock()
	if raw, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return raw, nil
	}
	r.mu.RUnlock()

	data, err := r.store.Load(id)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.cache[id] = string(data)
	r.mu.Unlock()

	return string(data), nil
}

// Substitute replaces {{KEY}} for every key in variables in a single pass.
// Replacement values are never scanned again, so a value containing
// "{{OTHER}}" stays literal. Values are inserted as-is.
func Substitute(raw string, variables map[string]string) string {
	if len(variables) == 0 {
		return raw
	}

	keys := make([]string, 0, len(variables))
	for k := range variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", variables[k])
	}
	return strings.NewReplacer(pairs...).Replace(raw)
}

// Unresolved lists the placeholder names in raw that variables does not
// cover, in order of first appearance.
func Unresolved(raw string, variables map[string]string) []string {
	var missing []string
	seen := make(map[string]bool)

	for _, m := range placeholderPattern.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		if _, ok := variables[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	return missing
}
