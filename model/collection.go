package model

import (
	"fmt"
	"maps"

	"github.com/ohler55/ojg/jp"
)

// Collection returns the list found at the dotted path inside m, in its
// existing order. A missing path yields an empty list.
func Collection(m Model, path string) ([]any, error) {
	x, err := jp.ParseString("$." + path)
	if err != nil {
		return nil, fmt.Errorf("invalid collection path %q: %w", path, err)
	}

	results := x.Get(map[string]any(m))
	if len(results) == 0 || results[0] == nil {
		return nil, nil
	}

	switch v := results[0].(type) {
	case []any:
		return v, nil
	case []map[string]any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = item
		}
		return items, nil
	default:
		return nil, fmt.Errorf("collection %q is %T, not a list", path, results[0])
	}
}

// CloneItems returns a new list whose map items are shallow copies, so
// the caller can change an item without reaching into the shared model.
func CloneItems(items []any) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, item := range items {
		out[i] = maps.Clone(AsMap(item))
		if out[i] == nil {
			out[i] = map[string]any{}
		}
	}
	return out
}
