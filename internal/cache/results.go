// Package cache persists the last scan result per target so it can be
// reviewed again without rescanning.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/secretscope/secretscope/internal/types"
)

// FileName is the cache file written at the scan root when the target has
// no .git directory. The engine skips it when scanning.
const FileName = ".secretscope_last_scan.json"

func resultsPath(root string) string {
	// Prefer the .git directory so the cache file never shows up in a
	// subsequent scan of the tree.
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "secretscope_last_scan.json")
	}
	return filepath.Join(root, FileName)
}

// SaveResult writes the scan result for later retrieval. Raw secret
// values are excluded by the finding's serialization rules.
func SaveResult(root string, result *types.ScanResult) error {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(resultsPath(root), b, 0o600)
}

// LoadResult reads the last saved scan result for root.
func LoadResult(root string) (*types.ScanResult, error) {
	b, err := os.ReadFile(resultsPath(root))
	if err != nil {
		return nil, err
	}
	var result types.ScanResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
