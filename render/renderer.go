// Package render provides the per-run template registry, template source
// resolution and the pluggable renderers the engine drives.
package render

import "fmt"

// Renderer renders template source text against a context.
// Implementations must be safe for concurrent use once registration for the
// run has finished.
type Renderer interface {
	Render(name, source string, data any) (string, error)
}

// Factory builds a Renderer bound to a run's registry.
type Factory func(reg *Registry) Renderer

// NewFactory returns the factory for a template syntax name ("text" or
// "django"; empty means "text").
func NewFactory(syntax string) (Factory, error) {
	switch syntax {
	case "", "text":
		return func(reg *Registry) Renderer { return NewTextRenderer(reg) }, nil
	case "django":
		return func(reg *Registry) Renderer { return NewDjangoRenderer(reg) }, nil
	default:
		return nil, fmt.Errorf("unknown template syntax %q", syntax)
	}
}
