package engine

import (
	"path/filepath"
	"strings"

	"github.com/secretscope/secretscope/internal/cache"
)

var defaultExcludedDirs = []string{
	"node_modules", ".git", "__pycache__", "venv",
	".venv", "dist", "build", ".next", "coverage",
}

var defaultExcludedExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg",
	".woff", ".woff2", ".ttf", ".eot",
	".mp3", ".mp4", ".avi", ".mov",
	".pdf", ".doc", ".docx", ".xls", ".xlsx",
}

// binary formats skipped regardless of configuration
var binaryExtensions = map[string]bool{
	".exe": true, ".dll": true, ".so": true,
	".dylib": true, ".bin": true, ".dat": true,
}

var testIndicators = []string{
	"test", "spec", "mock", "fake", "dummy", "example",
	"sample", "fixture", "__tests__", "__mocks__",
}

// fileFilter decides eligibility from path, extension, and size.
type fileFilter struct {
	excludedDirs       []string
	excludedExtensions map[string]bool
	maxFileSize        int64
}

func newFileFilter(excludedDirs, excludedExtensions []string, maxFileSize int64) fileFilter {
	if excludedDirs == nil {
		excludedDirs = defaultExcludedDirs
	}
	if excludedExtensions == nil {
		excludedExtensions = defaultExcludedExtensions
	}
	exts := make(map[string]bool, len(excludedExtensions))
	for _, e := range excludedExtensions {
		exts[strings.ToLower(e)] = true
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return fileFilter{
		excludedDirs:       excludedDirs,
		excludedExtensions: exts,
		maxFileSize:        maxFileSize,
	}
}

// ShouldSkip reports whether a path is ineligible for scanning. Size is
// checked separately by the walker, which has the FileInfo at hand.
func (f fileFilter) ShouldSkip(path string) bool {
	if filepath.Base(path) == cache.FileName {
		return true
	}
	lower := strings.ToLower(path)
	for _, dir := range f.excludedDirs {
		if strings.Contains(lower, strings.ToLower(dir)) {
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if f.excludedExtensions[ext] {
		return true
	}
	return binaryExtensions[ext]
}

// excludedDirName matches a single directory name against the exclusion
// list, used to prune traversal before descending.
func (f fileFilter) excludedDirName(name string) bool {
	for _, dir := range f.excludedDirs {
		if strings.EqualFold(name, dir) {
			return true
		}
	}
	return false
}

// isTestFile flags paths that look like test/fixture material. Such files
// are still scanned; their findings are discounted, not dropped.
func isTestFile(path string) bool {
	lower := strings.ToLower(path)
	for _, ind := range testIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}
