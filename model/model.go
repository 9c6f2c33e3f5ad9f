// Package model builds the root rendering context of a run and derives the
// per-item contexts the fan-out passes render against.
package model

import "maps"

// Well-known model keys.
const (
	KeyGenerator  = "generator"
	KeyAPIInfo    = "apiInfo"
	KeyModels     = "models"
	KeyOperations = "operations"
	KeyValue      = "value"
)

// Collection paths walked by the fan-out passes.
const (
	PathAPIs   = "apiInfo.apis"
	PathPaths  = "apiInfo.paths"
	PathModels = "models"
)

// Model is the root rendering context of a run. Helpers and the generator
// descriptor are attached directly onto it.
type Model map[string]any

// Snapshot returns a shallow copy of m without the omitted keys. Nested
// values are shared, function values keep their identity, and nothing is
// walked, so the copy is bounded even when the model is cyclic.
func Snapshot(m Model, omit ...string) Model {
	out := make(Model, len(m))
	maps.Copy(out, m)
	for _, key := range omit {
		delete(out, key)
	}
	return out
}

// Merge layers maps from lowest to highest priority. Later layers win
// field by field; values are not merged recursively.
func Merge(layers ...map[string]any) map[string]any {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	out := make(map[string]any, size)
	for _, layer := range layers {
		maps.Copy(out, layer)
	}
	return out
}

// ItemContext builds the context of a perApi or perPath item:
// defaults < specDefaults < toplevel < item.
func ItemContext(defaults, specDefaults map[string]any, toplevel Model, item map[string]any) map[string]any {
	return Merge(defaults, specDefaults, toplevel, item)
}

// With returns a fresh context holding defaults, then m, then key set to a
// one-element list containing item. m itself is never modified.
func With(m Model, defaults map[string]any, key string, item map[string]any) map[string]any {
	ctx := Merge(defaults, m)
	ctx[key] = []any{item}
	return ctx
}

// AsMap returns v as a map. Values that are not maps are wrapped as
// {"value": v}.
func AsMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case Model:
		return t
	default:
		return map[string]any{KeyValue: v}
	}
}
