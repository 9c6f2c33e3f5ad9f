package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestGenerateBuiltin(t *testing.T) {
	out := t.TempDir()

	stdout, err := execute(t, "generate", "testdata/petstore.yaml", "--config", "markdown", "--output", out)
	require.NoError(t, err)

	for _, rel := range []string{"README.md", "LICENSE", "apis/pets.md", "operations/listPets.md", "CHANGELOG.md"} {
		_, err := os.Stat(filepath.Join(out, "markdown", rel))
		assert.NoError(t, err, rel)
	}
	assert.Contains(t, stdout, "README.md")
	assert.Contains(t, stdout, "apis")
}

func TestGenerateFlatFromFile(t *testing.T) {
	dir := t.TempDir()
	templates := filepath.Join(dir, "templates")
	require.NoError(t, os.MkdirAll(templates, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(templates, "list.txt"),
		[]byte("{{ range .apiInfo.apis }}{{ .name }}\n{{ end }}"), 0o644))

	cfgPath := filepath.Join(dir, "tags.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
transformations:
  - input: list.txt
    output: tags.txt
`), 0o644))

	out := filepath.Join(dir, "out")
	_, err := execute(t, "generate", "testdata/petstore.yaml", "-c", cfgPath, "-o", out, "-t", templates, "--flat")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(out, "tags.txt"))
	require.NoError(t, err)
	assert.Equal(t, "default\npets\nstore\n", string(content))
}

func TestGenerateErrors(t *testing.T) {
	_, err := execute(t, "generate", "testdata/petstore.yaml")
	assert.Error(t, err, "config flag is required")

	_, err = execute(t, "generate", "testdata/missing.yaml", "-c", "markdown", "-o", t.TempDir())
	assert.Error(t, err)

	_, err = execute(t, "generate", "testdata/petstore.yaml", "-c", "no-such-config.yaml")
	assert.Error(t, err)
}

func TestConfigs(t *testing.T) {
	stdout, err := execute(t, "configs")
	require.NoError(t, err)

	assert.Contains(t, stdout, "markdown")
	assert.Contains(t, stdout, "gomodels")
	assert.Contains(t, stdout, "shuttle-markdown")
}
