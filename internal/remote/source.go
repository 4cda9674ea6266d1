// Package remote scans object-store buckets by materializing objects into
// a temp directory and running the local detectors over them. An
// ObjectSource abstracts the store so the scanner works identically
// against live S3 and the built-in simulated fixtures.
package remote

import (
	"context"
	"path"
	"strings"
	"time"
)

// Object is one listed entry of a bucket.
type Object struct {
	Bucket       string
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
	StorageClass string
}

// ScanConfig narrows a bucket scan.
type ScanConfig struct {
	Bucket          string
	Prefix          string
	MaxFileSize     int64
	FileExtensions  []string
	ExcludePatterns []string
	MaxFiles        int
}

// DefaultMaxFiles caps how many objects one scan will touch.
const DefaultMaxFiles = 1000

var defaultExtensions = []string{
	".py", ".js", ".ts", ".jsx", ".tsx", ".json", ".yaml", ".yml",
	".env", ".ini", ".cfg", ".conf", ".config", ".properties",
	".xml", ".sh", ".bash", ".zsh", ".ps1", ".tf", ".tfvars",
	".sql", ".php", ".rb", ".java", ".go", ".rs", ".cs",
	".dockerfile", ".vue", ".svelte", ".md", ".txt",
}

var defaultExcludes = []string{
	"node_modules/", ".git/", "__pycache__/", "venv/",
	".terraform/", "dist/", "build/", "coverage/",
}

// ObjectSource lists and fetches bucket objects.
type ObjectSource interface {
	List(ctx context.Context, cfg ScanConfig) ([]Object, error)
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

func (c *ScanConfig) applyDefaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 10 * 1024 * 1024
	}
	if c.MaxFiles <= 0 {
		c.MaxFiles = DefaultMaxFiles
	}
	if c.FileExtensions == nil {
		c.FileExtensions = defaultExtensions
	}
	if c.ExcludePatterns == nil {
		c.ExcludePatterns = defaultExcludes
	}
}

// eligible applies the live listing-side filters. The simulated source
// does its own, looser filtering so the fixtures stay reachable.
func (c ScanConfig) eligible(key string, size int64) bool {
	if strings.HasSuffix(key, "/") {
		return false
	}
	if size > c.MaxFileSize {
		return false
	}
	ext := strings.ToLower(path.Ext(key))
	found := false
	for _, e := range c.FileExtensions {
		if ext == e {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for _, pat := range c.ExcludePatterns {
		if strings.Contains(key, pat) {
			return false
		}
	}
	return true
}
