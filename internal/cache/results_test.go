package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretscope/secretscope/internal/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	result := &types.ScanResult{
		ScanID:        "scan-42",
		Target:        dir,
		Status:        types.StatusCompleted,
		TotalFindings: 1,
		Findings: []types.Finding{
			{FindingID: "f1", SecretValue: "raw-secret-value", SecretMasked: "raw-****alue", SecretHash: "h"},
		},
	}
	require.NoError(t, SaveResult(dir, result))

	loaded, err := LoadResult(dir)
	require.NoError(t, err)
	assert.Equal(t, "scan-42", loaded.ScanID)
	assert.Equal(t, 1, loaded.TotalFindings)

	// raw value must not survive serialization
	assert.Empty(t, loaded.Findings[0].SecretValue)
	assert.Equal(t, "raw-****alue", loaded.Findings[0].SecretMasked)
}

func TestResultsPath_PrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	require.NoError(t, SaveResult(dir, &types.ScanResult{ScanID: "s"}))
	_, err := os.Stat(filepath.Join(dir, ".git", "secretscope_last_scan.json"))
	assert.NoError(t, err)
}

func TestLoadResult_Missing(t *testing.T) {
	_, err := LoadResult(t.TempDir())
	assert.Error(t, err)
}
