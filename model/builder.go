package model

import (
	"context"
	"fmt"
	"slices"

	"github.com/cpcf/shuttle/config"
	"github.com/cpcf/shuttle/render"
)

// Transform turns a raw input document into the generator's model.
type Transform func(ctx context.Context, gen *config.Generator, raw any, defaults map[string]any) (map[string]any, error)

// TransformError reports that the transform rejected its input.
type TransformError struct {
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("model transform failed: %v", e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// Builder runs the transform and decorates its result.
type Builder struct {
	transform Transform
	registry  *render.Registry
	providers []render.HelperProvider
}

// NewBuilder returns a Builder. Helpers of providers are attached to every
// model it builds; generator helpers are also registered on reg.
func NewBuilder(transform Transform, reg *render.Registry, providers ...render.HelperProvider) *Builder {
	if reg == nil {
		reg = render.NewRegistry()
	}
	return &Builder{transform: transform, registry: reg, providers: providers}
}

// Build calls the transform and attaches the generator descriptor and all
// helpers onto the resulting model. The generator is attached even when nil
// so templates can test for it.
func (b *Builder) Build(ctx context.Context, gen *config.Generator, raw any, defaults map[string]any) (Model, error) {
	if b.transform == nil {
		return nil, &TransformError{Err: fmt.Errorf("no transform configured")}
	}

	genHelpers, err := GeneratorHelpers(gen)
	if err != nil {
		return nil, err
	}

	built, err := b.transform(ctx, gen, raw, defaults)
	if err != nil {
		return nil, &TransformError{Err: err}
	}

	m := Model(built)
	if m == nil {
		m = Model{}
	}
	m[KeyGenerator] = gen

	providers := append(slices.Clone(b.providers), genHelpers)
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		for name, fn := range provider.Helpers() {
			m[name] = fn
		}
	}

	if err := b.registry.RegisterHelpers(genHelpers); err != nil {
		return nil, fmt.Errorf("failed to register generator helpers: %w", err)
	}

	return m, nil
}

// GeneratorHelpers returns the helpers a generator contributes: the library
// entries named in its lambdas, then its Go-supplied functions.
func GeneratorHelpers(gen *config.Generator) (render.HelperMap, error) {
	if gen == nil {
		return render.HelperMap{}, nil
	}

	helpers, err := render.Select(render.Library(), gen.Lambdas)
	if err != nil {
		return nil, fmt.Errorf("generator %s: %w", gen.Name, err)
	}
	for name, fn := range gen.Helpers() {
		helpers[name] = fn
	}
	return helpers, nil
}
