// Package openapi is the default model transform: it turns an OpenAPI 3
// document into the model the built-in configurations render.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/cpcf/shuttle/config"
	"github.com/cpcf/shuttle/render"
)

// DefaultTag groups operations that carry no tag.
const DefaultTag = "default"

var methods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodHead,
	http.MethodOptions,
	http.MethodTrace,
}

// Transform loads raw ([]byte, string or *openapi3.T) and builds the model:
//
//	info            title, version, description
//	apiInfo.apis    one entry per tag, in order of first appearance
//	apiInfo.paths   one entry per path, sorted
//	models          components.schemas, sorted by name
//
// Every collection is built from fresh maps, so no two entries share state.
func Transform(ctx context.Context, gen *config.Generator, raw any, defaults map[string]any) (map[string]any, error) {
	doc, err := load(ctx, raw)
	if err != nil {
		return nil, err
	}

	paths := sortedPaths(doc)

	apis, err := buildAPIs(ctx, doc, paths)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"info":    buildInfo(doc),
		"apiInfo": map[string]any{
			"apis":  apis,
			"paths": buildPaths(doc, paths),
		},
		"models": buildModels(doc),
	}, nil
}

func load(ctx context.Context, raw any) (*openapi3.T, error) {
	var data []byte
	switch v := raw.(type) {
	case *openapi3.T:
		if v == nil {
			return nil, errors.New("openapi: document is nil")
		}
		return v, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, fmt.Errorf("openapi: unsupported input %T", raw)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return doc, nil
}

func buildInfo(doc *openapi3.T) map[string]any {
	info := map[string]any{"title": "", "version": "", "description": ""}
	if doc.Info != nil {
		info["title"] = doc.Info.Title
		info["version"] = doc.Info.Version
		info["description"] = doc.Info.Description
	}
	return info
}

func sortedPaths(doc *openapi3.T) []string {
	if doc.Paths == nil {
		return nil
	}
	keys := make([]string, 0, doc.Paths.Len())
	for p := range doc.Paths.Map() {
		keys = append(keys, p)
	}
	sort.Strings(keys)
	return keys
}

func buildAPIs(ctx context.Context, doc *openapi3.T, paths []string) ([]any, error) {
	var order []string
	grouped := make(map[string][]any)

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := doc.Paths.Value(p)
		for _, method := range methods {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			tag := DefaultTag
			if len(op.Tags) > 0 {
				tag = op.Tags[0]
			}
			if _, seen := grouped[tag]; !seen {
				order = append(order, tag)
			}
			grouped[tag] = append(grouped[tag], buildOperation(method, p, item, op))
		}
	}

	apis := make([]any, 0, len(order))
	for _, tag := range order {
		api := map[string]any{
			"name":        tag,
			"description": "",
			"operations":  grouped[tag],
		}
		if t := doc.Tags.Get(tag); t != nil {
			api["description"] = t.Description
		}
		apis = append(apis, api)
	}
	return apis, nil
}

func buildPaths(doc *openapi3.T, paths []string) []any {
	out := make([]any, 0, len(paths))
	for _, p := range paths {
		item := doc.Paths.Value(p)

		operations := make([]any, 0)
		for _, method := range methods {
			if op := item.GetOperation(method); op != nil {
				operations = append(operations, buildOperation(method, p, item, op))
			}
		}

		segments := make([]any, 0)
		for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
			if seg != "" {
				segments = append(segments, seg)
			}
		}

		out = append(out, map[string]any{
			"path":       p,
			"name":       pathName(p),
			"segments":   segments,
			"operations": operations,
		})
	}
	return out
}

func pathName(p string) string {
	if name := render.Kebab(p); name != "" {
		return name
	}
	return "root"
}

func buildOperation(method, p string, item *openapi3.PathItem, op *openapi3.Operation) map[string]any {
	id := op.OperationID
	if id == "" {
		id = render.Camel(strings.ToLower(method) + " " + p)
	}

	tags := make([]any, len(op.Tags))
	for i, tag := range op.Tags {
		tags[i] = tag
	}

	params := make([]any, 0)
	for _, ref := range append(slices.Clone(item.Parameters), op.Parameters...) {
		if ref == nil || ref.Value == nil {
			continue
		}
		param := ref.Value
		params = append(params, map[string]any{
			"name":        param.Name,
			"in":          param.In,
			"required":    param.Required,
			"description": param.Description,
			"type":        schemaType(param.Schema),
		})
	}

	return map[string]any{
		"operationId": id,
		"method":      strings.ToLower(method),
		"path":        p,
		"summary":     op.Summary,
		"description": op.Description,
		"tags":        tags,
		"parameters":  params,
	}
}

func buildModels(doc *openapi3.T) []any {
	if doc.Components == nil {
		return []any{}
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	models := make([]any, 0, len(names))
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		schema := ref.Value

		required := make([]any, len(schema.Required))
		for i, r := range schema.Required {
			required[i] = r
		}

		propNames := make([]string, 0, len(schema.Properties))
		for prop := range schema.Properties {
			propNames = append(propNames, prop)
		}
		sort.Strings(propNames)

		properties := make([]any, 0, len(propNames))
		for _, prop := range propNames {
			propRef := schema.Properties[prop]
			description := ""
			if propRef != nil && propRef.Value != nil {
				description = propRef.Value.Description
			}
			properties = append(properties, map[string]any{
				"name":        prop,
				"type":        schemaType(propRef),
				"description": description,
				"required":    slices.Contains(schema.Required, prop),
			})
		}

		models = append(models, map[string]any{
			"name":        name,
			"description": schema.Description,
			"type":        schemaType(ref),
			"properties":  properties,
			"required":    required,
		})
	}
	return models
}

// schemaType names a schema: the referenced component for $refs, else its
// first declared type.
func schemaType(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return ""
	}
	if ref.Ref != "" {
		return path.Base(ref.Ref)
	}
	if ref.Value == nil || ref.Value.Type == nil {
		return ""
	}
	if types := ref.Value.Type.Slice(); len(types) > 0 {
		return types[0]
	}
	return ""
}
