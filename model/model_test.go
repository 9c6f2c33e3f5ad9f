package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestItemContext_Precedence(t *testing.T) {
	defaults := map[string]any{"x": "global", "g": 1}
	specDefaults := map[string]any{"x": "spec", "s": 2}
	toplevel := Model{"x": "toplevel", "t": 3}

	tests := []struct {
		name string
		item map[string]any
		drop []string
		want any
	}{
		{name: "item wins", item: map[string]any{"x": "item"}, want: "item"},
		{name: "toplevel fallback", item: map[string]any{}, want: "toplevel"},
		{name: "spec fallback", item: map[string]any{}, drop: []string{"toplevel"}, want: "spec"},
		{name: "global fallback", item: map[string]any{}, drop: []string{"toplevel", "spec"}, want: "global"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, spec := toplevel, specDefaults
			for _, d := range tt.drop {
				switch d {
				case "toplevel":
					top = Snapshot(toplevel, "x")
				case "spec":
					spec = Merge(specDefaults)
					delete(spec, "x")
				}
			}

			got := ItemContext(defaults, spec, top, tt.item)
			if got["x"] != tt.want {
				t.Errorf("x = %v, want %v", got["x"], tt.want)
			}
			if got["g"] != 1 || got["s"] != 2 || got["t"] != 3 {
				t.Errorf("lower layers lost: %v", got)
			}
		})
	}
}

func TestSnapshot_OmitsCollectionAndKeepsFunctions(t *testing.T) {
	upper := strings.ToUpper
	m := Model{
		"apiInfo": map[string]any{"apis": []any{}},
		"title":   "Pets",
		"upper":   upper,
	}

	snap := Snapshot(m, KeyAPIInfo)

	if _, ok := snap[KeyAPIInfo]; ok {
		t.Fatal("snapshot still references apiInfo")
	}
	if _, ok := m[KeyAPIInfo]; !ok {
		t.Fatal("snapshot modified the source model")
	}
	fn, ok := snap["upper"].(func(string) string)
	if !ok || fn("a") != "A" {
		t.Fatalf("helper not re-attached: %#v", snap["upper"])
	}
}

func TestSnapshot_CyclicModel(t *testing.T) {
	m := Model{"name": "root"}
	m["self"] = m

	snap := Snapshot(m, "self")
	if diff := cmp.Diff(Model{"name": "root"}, snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestWith_FreshContextPerItem(t *testing.T) {
	m := Model{"models": []any{"a", "b"}, "title": "T"}
	defaults := map[string]any{"title": "default", "flat": true}

	first := With(m, defaults, KeyModels, map[string]any{"name": "A"})
	second := With(m, defaults, KeyModels, map[string]any{"name": "B"})

	want := map[string]any{
		"models": []any{map[string]any{"name": "A"}},
		"title":  "T",
		"flat":   true,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("first context mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{map[string]any{"name": "B"}}, second["models"]); diff != "" {
		t.Errorf("second context mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"a", "b"}, m["models"]); diff != "" {
		t.Errorf("model was mutated (-want +got):\n%s", diff)
	}
}

func TestAsMap(t *testing.T) {
	if diff := cmp.Diff(map[string]any{"value": 3}, AsMap(3)); diff != "" {
		t.Errorf("scalar wrap mismatch:\n%s", diff)
	}
	in := map[string]any{"a": 1}
	if diff := cmp.Diff(in, AsMap(in)); diff != "" {
		t.Errorf("map passthrough mismatch:\n%s", diff)
	}
}
