package style

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultTheme(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	css, err := b.Build("")
	require.NoError(t, err)
	assert.Contains(t, css, "body", "bundled theme styles the page body")
	assert.Contains(t, css, "chroma", "highlight sheet is appended")
}

func TestBuildCompilesSource(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "theme.css")
	require.NoError(t, os.WriteFile(path, []byte("body { color: red; }\n"), 0644))

	css, err := b.Build(path)
	require.NoError(t, err)
	assert.Contains(t, css, "body{color:red}")
}

func TestBuildMissingFile(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	_, err = b.Build(filepath.Join(t.TempDir(), "missing.css"))
	require.Error(t, err)

	var se *StyleError
	assert.ErrorAs(t, err, &se)
}

func TestBuildMemoizedUntilFileChanges(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "theme.css")
	require.NoError(t, os.WriteFile(path, []byte("body { color: red; }"), 0644))

	first, err := b.Build(path)
	require.NoError(t, err)

	again, err := b.Build(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// Change the source and push mtime forward so the memo is invalidated
	// even on coarse-grained filesystems.
	require.NoError(t, os.WriteFile(path, []byte("body { color: blue; }"), 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	updated, err := b.Build(path)
	require.NoError(t, err)
	assert.Contains(t, updated, "body{color:blue}")
}

func TestBuildDefaultIsStable(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	first, err := b.Build("")
	require.NoError(t, err)
	second, err := b.Build("")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
