package render

import (
	"fmt"
	"maps"
	"reflect"
	"sort"
	"sync"
	"text/template"
	"unicode"
)

var errorType = reflect.TypeFor[error]()

// HelperProvider is a named mapping of callables resolvable at render time.
type HelperProvider interface {
	Helpers() map[string]any
}

// HelperMap is the plain map form of HelperProvider.
type HelperMap map[string]any

// Helpers implements HelperProvider.
func (h HelperMap) Helpers() map[string]any {
	return h
}

// Registry holds the helpers and partials of a single run. Each run owns its
// registry, so runs never observe each other's registrations.
type Registry struct {
	mu       sync.RWMutex
	helpers  map[string]any
	partials map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		helpers:  make(map[string]any),
		partials: make(map[string]string),
	}
}

// RegisterHelper registers fn under name. A later registration with the same
// name replaces the earlier one. Names must be identifiers and fn must return
// one value, or a value and an error.
func (r *Registry) RegisterHelper(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("helper name cannot be empty")
	}
	if !ValidName(name) {
		return fmt.Errorf("helper %q: name is not a valid identifier", name)
	}
	if fn == nil {
		return fmt.Errorf("helper %q: function cannot be nil", name)
	}
	ft := reflect.TypeOf(fn)
	if ft.Kind() != reflect.Func {
		return fmt.Errorf("helper %q: expected function, got %T", name, fn)
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return fmt.Errorf("helper %q: must return one value or a value and an error, got %d results", name, ft.NumOut())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.helpers[name] = fn
	return nil
}

// RegisterHelpers registers every helper of the provider. Names are visited
// in sorted order so error reporting is stable.
func (r *Registry) RegisterHelpers(provider HelperProvider) error {
	if provider == nil {
		return nil
	}
	helpers := provider.Helpers()
	for _, name := range sortedKeys(helpers) {
		if err := r.RegisterHelper(name, helpers[name]); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPartial registers partial source text under a logical name.
func (r *Registry) RegisterPartial(name, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partials[name] = source
}

// RegisterPartials reads each partial from src and registers it under its
// logical name. The first unreadable partial aborts registration.
func (r *Registry) RegisterPartials(src *Source, runName string, partials map[string]string) error {
	for _, name := range sortedKeys(partials) {
		content, err := src.Read(runName, partials[name])
		if err != nil {
			return fmt.Errorf("partial %q: %w", name, err)
		}
		r.RegisterPartial(name, content)
	}
	return nil
}

func (r *Registry) Helper(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.helpers[name]
	return fn, ok
}

func (r *Registry) Partial(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.partials[name]
	return src, ok
}

// HelperNames lists registered helpers, sorted.
func (r *Registry) HelperNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.helpers)
}

// PartialNames lists registered partials, sorted.
func (r *Registry) PartialNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.partials)
}

// FuncMap returns a copy of the helpers as a text/template FuncMap.
func (r *Registry) FuncMap() template.FuncMap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	funcMap := make(template.FuncMap, len(r.helpers))
	maps.Copy(funcMap, r.helpers)
	return funcMap
}

// ValidName reports whether name can be used as a helper or context key in
// both template syntaxes: a letter or underscore followed by letters, digits
// and underscores.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
