package engine

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"

	"github.com/cpcf/shuttle/config"
	"github.com/cpcf/shuttle/debug"
	"github.com/cpcf/shuttle/model"
	"github.com/cpcf/shuttle/postprocess"
	"github.com/cpcf/shuttle/render"
	"github.com/cpcf/shuttle/write"
)

// RenderAction is an output-path template and a body template ready to
// render against one context.
type RenderAction struct {
	OutputPath string
	Body       string
}

type job struct {
	template string
	action   RenderAction
	data     map[string]any
}

// run holds the state of one Generate call. It is never shared between
// calls.
type run struct {
	cfg         *config.Configuration
	name        string
	logger      *slog.Logger
	model       model.Model
	defaults    map[string]any
	source      *render.Source
	renderer    render.Renderer
	chains      []*postprocess.Chain
	concurrency int
	fs          billy.Filesystem
	emitter     *write.Emitter
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// fullContext is the model with the defaults beneath it.
func (r *run) fullContext() map[string]any {
	return model.Merge(r.defaults, r.model)
}

func (r *run) action(spec config.FanOutSpec) (RenderAction, error) {
	body, err := r.source.Read(r.name, spec.Input)
	if err != nil {
		return RenderAction{}, newError(KindTemplateSource, spec.Input, "failed to read template", err)
	}
	return RenderAction{OutputPath: spec.Output, Body: body}, nil
}

func (r *run) collection(path string) ([]any, error) {
	items, err := model.Collection(r.model, path)
	if err != nil {
		return nil, newError(KindRender, path, "failed to resolve collection", err)
	}
	return items, nil
}

func (r *run) wholeOutputJobs() ([]job, error) {
	full := r.fullContext()

	var jobs []job
	for _, tx := range r.cfg.Transformations {
		if tx.Input == "" {
			continue
		}
		action, err := r.action(config.FanOutSpec{Input: tx.Input, Output: tx.Output})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job{template: tx.Input, action: action, data: full})
	}
	return jobs, nil
}

// itemJobs builds the perApi and perPath jobs. Each item context is
// defaults < spec defaults < model without apiInfo < item.
func (r *run) itemJobs(pass string, specs []config.FanOutSpec, path string) ([]job, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	items, err := r.collection(path)
	if err != nil {
		return nil, err
	}
	toplevel := model.Snapshot(r.model, model.KeyAPIInfo)

	var jobs []job
	for _, spec := range specs {
		action, err := r.action(spec)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			jobs = append(jobs, job{
				template: spec.Input,
				action:   action,
				data:     model.ItemContext(r.defaults, spec.Defaults, toplevel, model.AsMap(item)),
			})
		}
	}

	r.logger.Debug("pass planned", "pass", pass, "items", len(items), "files", len(jobs))
	return jobs, nil
}

// modelJobs renders each model against the whole model with models
// replaced by that single item. Spec defaults override the item's fields.
func (r *run) modelJobs() ([]job, error) {
	if len(r.cfg.PerModel) == 0 {
		return nil, nil
	}

	models, err := r.collection(model.PathModels)
	if err != nil {
		return nil, err
	}

	var jobs []job
	for _, spec := range r.cfg.PerModel {
		action, err := r.action(spec)
		if err != nil {
			return nil, err
		}
		for _, item := range model.CloneItems(models) {
			effective := model.Merge(item, spec.Defaults)
			jobs = append(jobs, job{
				template: spec.Input,
				action:   action,
				data:     model.With(r.model, r.defaults, model.KeyModels, effective),
			})
		}
	}
	return jobs, nil
}

// operationJobs renders each operation of each API against the whole model
// with operations replaced by that single operation.
func (r *run) operationJobs() ([]job, error) {
	if len(r.cfg.PerOperation) == 0 {
		return nil, nil
	}

	apis, err := r.collection(model.PathAPIs)
	if err != nil {
		return nil, err
	}

	var jobs []job
	for _, spec := range r.cfg.PerOperation {
		action, err := r.action(spec)
		if err != nil {
			return nil, err
		}
		for _, api := range apis {
			ops, err := model.Collection(model.AsMap(api), model.KeyOperations)
			if err != nil {
				return nil, newError(KindRender, model.KeyOperations, "failed to resolve collection", err)
			}
			for _, op := range model.CloneItems(ops) {
				jobs = append(jobs, job{
					template: spec.Input,
					action:   action,
					data:     model.With(r.model, r.defaults, model.KeyOperations, op),
				})
			}
		}
	}
	return jobs, nil
}

// emitAll renders the jobs of a pass concurrently and writes the results in
// job order, so a later job wins when two render to the same path.
func (r *run) emitAll(ctx context.Context, pass string, jobs []job) error {
	if len(jobs) == 0 {
		return nil
	}
	op := debug.Start(r.logger, pass, "files", len(jobs))

	files := make([]write.OutputFile, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := r.render(j)
			if err != nil {
				return err
			}
			files[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		op.Fail(err)
		return err
	}

	for _, file := range files {
		if err := r.emitter.Emit(file); err != nil {
			op.Fail(err)
			return newError(KindDirectory, file.Path, "failed to write file", err)
		}
		r.logger.Debug("file written", "pass", pass, "path", file.Path, "size", len(file.Content))
	}

	op.Complete()
	return nil
}

func (r *run) render(j job) (write.OutputFile, error) {
	outPath, err := r.renderer.Render(j.template+":output", j.action.OutputPath, j.data)
	if err != nil {
		return write.OutputFile{}, newError(KindRender, j.template, "failed to render output path", err)
	}
	outPath = strings.TrimSpace(outPath)

	body, err := r.renderer.Render(j.template, j.action.Body, j.data)
	if err != nil {
		return write.OutputFile{}, newError(KindRender, j.template, "failed to render template", err)
	}

	content := []byte(body)
	for _, chain := range r.chains {
		if chain == nil || !chain.HasProcessors() {
			continue
		}
		content, err = chain.Process(outPath, content)
		if err != nil {
			return write.OutputFile{}, newError(KindRender, outPath, "post-processing failed", err)
		}
	}

	return write.OutputFile{Path: outPath, Content: content}, nil
}

// touch renders the touch template and creates every listed file that does
// not exist yet. Existing files keep their content.
func (r *run) touch() error {
	if strings.TrimSpace(r.cfg.Touch) == "" {
		return nil
	}

	list, err := r.renderer.Render("touch", r.cfg.Touch, r.fullContext())
	if err != nil {
		return newError(KindRender, "touch", "failed to render touch list", err)
	}

	for _, line := range lineBreak.Split(list, -1) {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		created, err := r.emitter.Touch(name)
		if err != nil {
			return newError(KindDirectory, name, "failed to touch file", err)
		}
		r.logger.Debug("touch", "path", name, "created", created)
	}
	return nil
}
