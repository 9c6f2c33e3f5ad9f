package engine

import (
	"io/fs"
	"log/slog"

	"github.com/go-git/go-billy/v5"

	"github.com/cpcf/shuttle/model"
	"github.com/cpcf/shuttle/postprocess"
	"github.com/cpcf/shuttle/render"
)

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithFilesystem sets the output root. By default the root is the
// configuration's outputDir on the local disk.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(e *Engine) {
		e.fs = fsys
	}
}

// WithTemplates replaces the built-in template tree.
func WithTemplates(builtin fs.FS) Option {
	return func(e *Engine) {
		e.templates = builtin
	}
}

// WithTemplateOverride sets the template source override. It takes
// precedence over the configuration's templateDir.
func WithTemplateOverride(override fs.FS) Option {
	return func(e *Engine) {
		e.override = override
	}
}

func WithTransform(transform model.Transform) Option {
	return func(e *Engine) {
		e.transform = transform
	}
}

// WithHelpers adds helper providers. Their helpers are attached to the model
// and registered as template functions.
func WithHelpers(providers ...render.HelperProvider) Option {
	return func(e *Engine) {
		e.providers = append(e.providers, providers...)
	}
}

// WithPostProcessor appends a processor applied to every rendered file after
// the configuration's formatters.
func WithPostProcessor(processor postprocess.Processor) Option {
	return func(e *Engine) {
		e.postprocessors.Add(processor)
	}
}

// WithConcurrency bounds how many items of a pass render at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithRendererFactory overrides the renderer chosen by the configuration's
// syntax.
func WithRendererFactory(factory render.Factory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}
