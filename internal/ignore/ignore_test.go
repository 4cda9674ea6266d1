package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndMatch(t *testing.T) {
	dir := t.TempDir()
	content := `# generated artifacts
vendor/
*.lock
docs/**/*.md
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	m, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, m.Match("vendor/lib/util.go"))
	assert.True(t, m.Match("Gemfile.lock"))
	assert.True(t, m.Match("docs/guide/intro.md"))
	assert.False(t, m.Match("src/main.go"))
	assert.False(t, m.Match("docs/guide/intro.txt"))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	m, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, m.Match("anything.go"))
}

func TestMatch_NilMatcher(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Match("a.go"))
}

func TestMatch_DirectoryPatternCoversContents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("build\n"), 0o644))

	m, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, m.Match("build"))
	assert.True(t, m.Match("build/out.js"))
}
