package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/secretscope/secretscope/internal/ignore"
)

// inlineIgnoreTag opts a whole file out of scanning when it appears
// anywhere in the content.
const inlineIgnoreTag = "secretscope:ignore-file"

// walkResult carries either an eligible file path or the reason one was
// passed over.
type walkResult struct {
	paths   []string
	skipped int
}

// collectFiles walks root and returns the files worth scanning, pruning
// excluded directories during traversal rather than filtering afterwards.
func (s *Scanner) collectFiles(root string, recursive bool, ign *ignore.Matcher) (walkResult, error) {
	var res walkResult

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			res.skipped++
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive {
				return fs.SkipDir
			}
			if s.filter.excludedDirName(d.Name()) {
				res.skipped++
				return fs.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if s.filter.ShouldSkip(path) || !s.matchesPatterns(rel) || ign.Match(rel) {
			res.skipped++
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			res.skipped++
			return nil
		}
		if info.Size() > s.filter.maxFileSize {
			res.skipped++
			return nil
		}
		res.paths = append(res.paths, path)
		return nil
	})
	if err != nil {
		return walkResult{}, err
	}
	return res, nil
}

// matchesPatterns applies include globs first, then exclude globs, against
// the slash-separated relative path.
func (s *Scanner) matchesPatterns(rel string) bool {
	if len(s.opts.IncludePatterns) > 0 {
		included := false
		for _, pat := range s.opts.IncludePatterns {
			if ok, _ := doublestar.Match(pat, rel); ok {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}
	for _, pat := range s.opts.ExcludePatterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}
	return true
}

// readEligible loads a file and applies the checks that need content: the
// binary sniff and the inline ignore tag. A nil slice with nil error means
// the file was passed over.
func readEligible(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if looksBinary(data) {
		return nil, nil
	}
	if strings.Contains(string(data), inlineIgnoreTag) {
		return nil, nil
	}
	return data, nil
}
