package openapi

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPetstore(t *testing.T) map[string]any {
	t.Helper()
	raw, err := os.ReadFile("testdata/petstore.yaml")
	require.NoError(t, err)

	m, err := Transform(context.Background(), nil, raw, nil)
	require.NoError(t, err)
	return m
}

func names(items []any, key string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i], _ = item.(map[string]any)[key].(string)
	}
	return out
}

func TestTransform_Info(t *testing.T) {
	m := loadPetstore(t)

	want := map[string]any{"title": "Petstore", "version": "1.0.0", "description": "A sample pet store."}
	if diff := cmp.Diff(want, m["info"]); diff != "" {
		t.Errorf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_APIsGroupedByTag(t *testing.T) {
	m := loadPetstore(t)
	apis := m["apiInfo"].(map[string]any)["apis"].([]any)

	// sorted paths: /health, /pets, /pets/{petId}, /store/orders
	assert.Equal(t, []string{"default", "pets", "store"}, names(apis, "name"))

	pets := apis[1].(map[string]any)
	assert.Equal(t, "Everything about pets", pets["description"])
	assert.Equal(t, []string{"listPets", "createPet", "showPetById"}, names(pets["operations"].([]any), "operationId"))

	health := apis[0].(map[string]any)["operations"].([]any)[0].(map[string]any)
	assert.Equal(t, "getHealth", health["operationId"])
	assert.Equal(t, "get", health["method"])
}

func TestTransform_OperationParameters(t *testing.T) {
	m := loadPetstore(t)
	apis := m["apiInfo"].(map[string]any)["apis"].([]any)
	ops := apis[1].(map[string]any)["operations"].([]any)

	show := ops[2].(map[string]any)
	want := []any{map[string]any{
		"name":        "petId",
		"in":          "path",
		"required":    true,
		"description": "",
		"type":        "string",
	}}
	if diff := cmp.Diff(want, show["parameters"]); diff != "" {
		t.Errorf("path-level parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_Paths(t *testing.T) {
	m := loadPetstore(t)
	paths := m["apiInfo"].(map[string]any)["paths"].([]any)

	assert.Equal(t, []string{"/health", "/pets", "/pets/{petId}", "/store/orders"}, names(paths, "path"))
	assert.Equal(t, []string{"health", "pets", "pets-pet-id", "store-orders"}, names(paths, "name"))

	petByID := paths[2].(map[string]any)
	assert.Equal(t, []any{"pets", "{petId}"}, petByID["segments"])
	assert.Len(t, paths[1].(map[string]any)["operations"], 2)
}

func TestTransform_Models(t *testing.T) {
	m := loadPetstore(t)
	models := m["models"].([]any)

	assert.Equal(t, []string{"Owner", "Pet"}, names(models, "name"))

	pet := models[1].(map[string]any)
	assert.Equal(t, "A pet for sale.", pet["description"])
	assert.Equal(t, []any{"id", "name"}, pet["required"])

	want := []any{
		map[string]any{"name": "id", "type": "integer", "description": "", "required": true},
		map[string]any{"name": "name", "type": "string", "description": "", "required": true},
		map[string]any{"name": "owner", "type": "Owner", "description": "", "required": false},
		map[string]any{"name": "tag", "type": "string", "description": "", "required": false},
	}
	if diff := cmp.Diff(want, pet["properties"]); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_CollectionsDoNotShareItems(t *testing.T) {
	m := loadPetstore(t)
	info := m["apiInfo"].(map[string]any)

	apiOp := info["apis"].([]any)[1].(map[string]any)["operations"].([]any)[0].(map[string]any)
	pathOp := info["paths"].([]any)[1].(map[string]any)["operations"].([]any)[0].(map[string]any)

	apiOp["summary"] = "changed"
	assert.Equal(t, "List all pets", pathOp["summary"])
}

func TestTransform_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  any
	}{
		{"empty", []byte("  ")},
		{"not yaml", "{{{"},
		{"unsupported type", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform(ctx, nil, tt.raw, nil)
			assert.Error(t, err)
		})
	}
}
