package write

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter_CreatesParentsAndOverwrites(t *testing.T) {
	fs := memfs.New()
	e := NewEmitter(fs)

	require.NoError(t, e.Emit(OutputFile{Path: "paths/pets/list.md", Content: []byte("first")}))
	require.NoError(t, e.Emit(OutputFile{Path: "/paths/pets/list.md", Content: []byte("second")}))

	content, err := util.ReadFile(fs, "paths/pets/list.md")
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestEmitter_RejectsBadPaths(t *testing.T) {
	e := NewEmitter(memfs.New())

	for _, p := range []string{"", "  ", ".", "../outside.txt", "a/../../b"} {
		assert.Error(t, e.Emit(OutputFile{Path: p}), p)
	}
}

func TestEmitter_DirectoryInTheWay(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("apis", 0o755))

	err := NewEmitter(fs).Emit(OutputFile{Path: "apis", Content: []byte("x")})
	assert.Error(t, err)
}

func TestEmitter_TouchNeverOverwrites(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "b.txt", []byte("keep"), 0o644))
	e := NewEmitter(fs)

	created, err := e.Touch("a.txt")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = e.Touch("b.txt")
	require.NoError(t, err)
	assert.False(t, created)

	a, err := util.ReadFile(fs, "a.txt")
	require.NoError(t, err)
	assert.Empty(t, a)

	b, err := util.ReadFile(fs, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "keep", string(b))
}

func TestBaseWriter_NoOverwrite(t *testing.T) {
	fs := memfs.New()
	w := NewBaseWriter(fs)

	require.NoError(t, w.Write("x.txt", []byte("1"), WriteOptions{}))
	assert.Error(t, w.Write("x.txt", []byte("2"), WriteOptions{}))
	assert.NoError(t, w.Write("x.txt", []byte("2"), WriteOptions{Overwrite: true}))
}
