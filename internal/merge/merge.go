// Package merge combines freshly rendered content into files that already
// exist, without duplicating what the existing file already declares.
//
// Each supported file kind has a Strategy. The Registry maps a target path
// to its Strategy once, by filename suffix:
//
//	reg := merge.DefaultRegistry()
//	strategy, err := reg.ForPath("Resources/config/services.xml")
//	if err != nil {
//	    // errors.Is(err, merge.ErrUnsupportedMergeTarget)
//	}
//	merged, err := strategy.Merge(existing, rendered)
//
// Strategies never write anything; a failed merge leaves the caller with
// the untouched existing content.
package merge

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrUnsupportedMergeTarget is returned when no strategy is registered
	// for the target's file kind.
	ErrUnsupportedMergeTarget = errors.New("unsupported merge target")

	// ErrMalformedDocument is returned when either side of a structured
	// merge cannot be parsed.
	ErrMalformedDocument = errors.New("malformed document")
)

// Kind tags a mergeable file format.
type Kind string

const (
	KindServiceRegistry Kind = "services.xml"
	KindModuleEntry     Kind = "main.js"
)

// Strategy merges incoming content into existing content.
type Strategy interface {
	Merge(existing, incoming []byte) ([]byte, error)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(existing, incoming []byte) ([]byte, error)

// Merge calls f.
func (f StrategyFunc) Merge(existing, incoming []byte) ([]byte, error) {
	return f(existing, incoming)
}

type registration struct {
	kind     Kind
	suffix   string
	strategy Strategy
}

// Registry maps file kinds to merge strategies.
type Registry struct {
	entries []registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns a registry with the services.xml and main.js
// strategies registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Errors are impossible here: both kinds are fresh.
	_ = r.Register(KindServiceRegistry, "services.xml", &ServiceRegistryMerger{})
	_ = r.Register(KindModuleEntry, "main.js", &ModuleEntryMerger{})
	return r
}

// Register adds a strategy for kind, selected for paths ending in suffix.
func (r *Registry) Register(kind Kind, suffix string, strategy Strategy) error {
	if kind == "" {
		return fmt.Errorf("cannot register strategy with empty kind")
	}
	if suffix == "" {
		return fmt.Errorf("cannot register kind '%s' with empty suffix", kind)
	}
	if strategy == nil {
		return fmt.Errorf("cannot register nil strategy for kind '%s'", kind)
	}

	for _, e := range r.entries {
		if e.kind == kind {
			return fmt.Errorf("kind '%s' is already registered", kind)
		}
	}

	r.entries = append(r.entries, registration{kind: kind, suffix: suffix, strategy: strategy})

	// Longest suffix first so "admin/main.js" style registrations win over "main.js".
	sort.SliceStable(r.entries, func(i, j int) bool {
		return len(r.entries[i].suffix) > len(r.entries[j].suffix)
	})
	return nil
}

// KindFor returns the kind whose suffix matches path.
func (r *Registry) KindFor(path string) (Kind, bool) {
	normalized := filepath.ToSlash(path)
	for _, e := range r.entries {
		if strings.HasSuffix(normalized, e.suffix) {
			return e.kind, true
		}
	}
	return "", false
}

// ForPath selects the strategy for path.
func (r *Registry) ForPath(path string) (Strategy, error) {
	kind, ok := r.KindFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMergeTarget, filepath.Base(path))
	}
	return r.Get(kind)
}

// Get returns the strategy registered for kind.
func (r *Registry) Get(kind Kind) (Strategy, error) {
	for _, e := range r.entries {
		if e.kind == kind {
			return e.strategy, nil
		}
	}
	return nil, fmt.Errorf("%w: no strategy for kind '%s'", ErrUnsupportedMergeTarget, kind)
}

// Kinds lists registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.entries))
	for _, e := range r.entries {
		kinds = append(kinds, e.kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
