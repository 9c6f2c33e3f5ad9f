// Package engine expands a configuration into a tree of generated files:
// it builds the model, prepares the output directory and runs the
// whole-output, perApi, perPath, perModel and perOperation passes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/cpcf/shuttle/config"
	"github.com/cpcf/shuttle/debug"
	"github.com/cpcf/shuttle/model"
	"github.com/cpcf/shuttle/openapi"
	"github.com/cpcf/shuttle/output"
	"github.com/cpcf/shuttle/postprocess"
	"github.com/cpcf/shuttle/processors"
	"github.com/cpcf/shuttle/render"
	"github.com/cpcf/shuttle/templates"
	"github.com/cpcf/shuttle/write"
)

type Engine struct {
	logger         *slog.Logger
	fs             billy.Filesystem
	templates      fs.FS
	override       fs.FS
	transform      model.Transform
	providers      []render.HelperProvider
	postprocessors *postprocess.Chain
	concurrency    int
	factory        render.Factory
}

func New(opts ...Option) *Engine {
	e := &Engine{
		templates:      templates.FS,
		transform:      openapi.Transform,
		postprocessors: postprocess.NewChain(),
		concurrency:    runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Generate runs cfg against raw under runName. The output subdirectory is
// cleaned before any pass writes, and the first failure aborts the run;
// files written before it are left in place.
func (e *Engine) Generate(ctx context.Context, raw any, cfg *config.Configuration, runName string) (err error) {
	if cfg == nil {
		return errors.New("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := e.logger
	if logger == nil {
		logger = debug.ForVerbose(cfg.Verbose(), os.Stderr).Logger()
	}
	logger = logger.With("run", runName)

	op := debug.Start(logger, "generate")
	defer func() {
		if err != nil {
			op.Fail(err)
			return
		}
		op.Complete()
	}()

	r, err := e.newRun(ctx, raw, cfg, runName, logger)
	if err != nil {
		return err
	}
	return r.execute(ctx)
}

// GenerateCallback runs Generate and reports the outcome through cb: err is
// non-nil only on failure and ok is true on success.
func (e *Engine) GenerateCallback(raw any, cfg *config.Configuration, runName string, cb func(err error, ok bool)) {
	err := e.Generate(context.Background(), raw, cfg, runName)
	if cb != nil {
		cb(err, err == nil)
	}
}

// newRun builds the model and the per-run registry, renderer and
// post-processing chain. Nothing is written yet.
func (e *Engine) newRun(ctx context.Context, raw any, cfg *config.Configuration, runName string, logger *slog.Logger) (*run, error) {
	reg := render.NewRegistry()
	for _, provider := range e.providers {
		if err := reg.RegisterHelpers(provider); err != nil {
			return nil, newError(KindRender, "", "failed to register helpers", err)
		}
	}

	defaults := cfg.EffectiveDefaults()
	m, err := model.NewBuilder(e.transform, reg, e.providers...).Build(ctx, cfg.Generator, raw, defaults)
	if err != nil {
		var txErr *model.TransformError
		if errors.As(err, &txErr) {
			return nil, newError(KindTransform, "", "failed to build model", err)
		}
		return nil, newError(KindRender, "", "failed to build model", err)
	}

	override := e.override
	if override == nil && cfg.TemplateDir != "" {
		override = os.DirFS(cfg.TemplateDir)
	}
	src := render.NewSource(e.templates, override)

	if err := reg.RegisterPartials(src, runName, cfg.Partials); err != nil {
		return nil, newError(KindTemplateSource, "", "failed to register partials", err)
	}

	factory := e.factory
	if factory == nil {
		factory, err = render.NewFactory(cfg.TemplateSyntax())
		if err != nil {
			return nil, newError(KindRender, "", "failed to select renderer", err)
		}
	}

	formatters, err := processors.Chain(cfg.Formatters)
	if err != nil {
		return nil, newError(KindRender, "", "failed to build formatters", err)
	}

	logger.Debug("model built",
		"keys", len(m),
		"helpers", len(reg.HelperNames()),
		"partials", len(reg.PartialNames()),
		"processors", formatters.Len()+e.postprocessors.Len())

	return &run{
		cfg:         cfg,
		name:        runName,
		logger:      logger,
		model:       m,
		defaults:    defaults,
		source:      src,
		renderer:    factory(reg),
		chains:      []*postprocess.Chain{formatters, e.postprocessors},
		concurrency: e.concurrency,
		fs:          e.fs,
	}, nil
}

func (r *run) execute(ctx context.Context) error {
	fsys := r.fs
	if fsys == nil {
		fsys = osfs.New(r.cfg.OutputRoot())
	}

	manager := output.NewManager(fsys, output.WithLogger(r.logger))
	runFS, err := manager.Prepare(r.cfg.Subdirectory(r.name), r.cfg.Directories, r.cfg.Apache)
	if err != nil {
		return newError(KindDirectory, r.cfg.Subdirectory(r.name), "failed to prepare output directory", err)
	}
	r.emitter = write.NewEmitter(runFS)

	passes := []struct {
		name string
		jobs func() ([]job, error)
	}{
		{"transformations", r.wholeOutputJobs},
		{"perApi", func() ([]job, error) { return r.itemJobs("perApi", r.cfg.PerAPI, model.PathAPIs) }},
		{"perPath", func() ([]job, error) { return r.itemJobs("perPath", r.cfg.PerPath, model.PathPaths) }},
		{"perModel", r.modelJobs},
		{"perOperation", r.operationJobs},
	}

	for _, pass := range passes {
		jobs, err := pass.jobs()
		if err != nil {
			return err
		}
		if err := r.emitAll(ctx, pass.name, jobs); err != nil {
			return err
		}
	}

	return r.touch()
}
