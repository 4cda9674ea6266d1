package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
include:
  - "**/*.py"
max_bytes: 1048576
workers: 4
no_entropy: true
s3:
  region: eu-west-1
  simulate: true
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.py"}, cfg.Include)
	require.NotNil(t, cfg.MaxBytes)
	assert.Equal(t, int64(1048576), *cfg.MaxBytes)
	require.NotNil(t, cfg.Workers)
	assert.Equal(t, 4, *cfg.Workers)
	require.NotNil(t, cfg.NoEntropy)
	assert.True(t, *cfg.NoEntropy)
	require.NotNil(t, cfg.S3)
	assert.Equal(t, "eu-west-1", *cfg.S3.Region)
}

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".secretscope.yml"),
		[]byte("workers: 2\n"), 0o644))

	cfg, err := LoadLocal(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, *cfg.Workers)

	_, err = LoadLocal(t.TempDir())
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	two, eight := 2, 8
	yes := true
	lo := FileConfig{Workers: &two, NoColor: &yes, Include: []string{"**/*.go"}}
	hi := FileConfig{Workers: &eight}

	out := Merge(lo, hi)
	assert.Equal(t, 8, *out.Workers)
	assert.True(t, *out.NoColor)
	assert.Equal(t, []string{"**/*.go"}, out.Include)
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [not an int\n"), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}
