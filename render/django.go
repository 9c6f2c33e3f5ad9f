package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// DjangoRenderer renders Django-syntax sources with pongo2. Registry helpers
// are set as globals of a template set owned by the renderer, so they are
// called as functions ({{ kebab(name) }}); partials resolve through
// {% include "name" %}.
//
// Context keys must be identifiers; pongo2 rejects any other key.
type DjangoRenderer struct {
	reg *Registry

	once sync.Once
	set  *pongo2.TemplateSet

	// pongo2 template sets are not safe for concurrent parsing. Parsed
	// templates are keyed by source and executed without the lock.
	mu     sync.Mutex
	parsed map[string]*pongo2.Template
}

func NewDjangoRenderer(reg *Registry) *DjangoRenderer {
	if reg == nil {
		reg = NewRegistry()
	}
	return &DjangoRenderer{reg: reg, parsed: make(map[string]*pongo2.Template)}
}

func (r *DjangoRenderer) Render(name, source string, data any) (string, error) {
	tmpl, err := r.parse(source)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	out, err := tmpl.Execute(toPongoContext(data))
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return out, nil
}

func (r *DjangoRenderer) parse(source string) (*pongo2.Template, error) {
	set := r.prepare()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.parsed[source]; ok {
		return tmpl, nil
	}
	tmpl, err := set.FromString(source)
	if err != nil {
		return nil, err
	}
	r.parsed[source] = tmpl
	return tmpl, nil
}

func (r *DjangoRenderer) prepare() *pongo2.TemplateSet {
	r.once.Do(func() {
		set := pongo2.NewSet("shuttle", &partialLoader{reg: r.reg})
		set.Globals = make(pongo2.Context)
		for _, name := range r.reg.HelperNames() {
			fn, _ := r.reg.Helper(name)
			set.Globals[name] = fn
		}
		r.set = set
	})
	return r.set
}

func toPongoContext(data any) pongo2.Context {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}
	case pongo2.Context:
		return v
	case map[string]any:
		return pongo2.Context(v)
	default:
		return pongo2.Context{"value": v}
	}
}

// partialLoader serves registry partials to pongo2 include tags.
type partialLoader struct {
	reg *Registry
}

func (l *partialLoader) Abs(base, name string) string {
	return name
}

func (l *partialLoader) Get(name string) (io.Reader, error) {
	src, ok := l.reg.Partial(name)
	if !ok {
		return nil, fmt.Errorf("partial %q not registered", name)
	}
	return strings.NewReader(src), nil
}
