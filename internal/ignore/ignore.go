// Package ignore loads .secretscopeignore files: one glob per line,
// gitignore-flavored via doublestar, with # comments and blank lines
// skipped.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const FileName = ".secretscopeignore"

// Matcher holds the parsed patterns for one scan root.
type Matcher struct {
	patterns []string
}

// Load reads the ignore file from root. A missing file is not an error;
// it just yields an empty matcher.
func Load(root string) (*Matcher, error) {
	f, err := os.Open(filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Matcher{}, nil
		}
		return nil, err
	}
	defer f.Close()

	m := &Matcher{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// bare directory entries mean everything under them
		if strings.HasSuffix(line, "/") {
			line += "**"
		}
		m.patterns = append(m.patterns, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Match reports whether the slash-separated relative path is ignored.
func (m *Matcher) Match(rel string) bool {
	if m == nil {
		return false
	}
	for _, pat := range m.patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
		// a pattern naming a directory also covers its contents
		if ok, _ := doublestar.Match(pat+"/**", rel); ok {
			return true
		}
	}
	return false
}
