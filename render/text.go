package render

import (
	"fmt"
	"strings"
	"sync"
	"text/template"
)

const textBaseName = "shuttle"

// TextRenderer renders text/template sources. Registry helpers are available
// as template functions and registry partials as named templates:
//
//	{{ template "header" . }}{{ kebab .name }}
type TextRenderer struct {
	reg *Registry

	once    sync.Once
	base    *template.Template
	baseErr error
}

func NewTextRenderer(reg *Registry) *TextRenderer {
	if reg == nil {
		reg = NewRegistry()
	}
	return &TextRenderer{reg: reg}
}

// Render parses source as a template associated with every partial and
// executes it against data. The partial set is fixed on the first call.
func (r *TextRenderer) Render(name, source string, data any) (string, error) {
	base, err := r.prepare()
	if err != nil {
		return "", err
	}

	set, err := base.Clone()
	if err != nil {
		return "", fmt.Errorf("failed to clone template set: %w", err)
	}

	tmpl, err := set.New(name).Parse(source)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *TextRenderer) prepare() (*template.Template, error) {
	r.once.Do(func() {
		base := template.New(textBaseName).Funcs(r.reg.FuncMap())
		for _, name := range r.reg.PartialNames() {
			src, _ := r.reg.Partial(name)
			if _, err := base.New(name).Parse(src); err != nil {
				r.baseErr = fmt.Errorf("failed to parse partial %s: %w", name, err)
				return
			}
		}
		r.base = base
	})
	return r.base, r.baseErr
}
