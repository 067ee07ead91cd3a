// Package ignore implements .sentinelignore matching: one pattern per line,
// `#` comments, blank lines skipped. Patterns ending in `/` exclude whole
// directory subtrees; other patterns are doublestar globs matched against the
// relative path and against the basename.
package ignore

import (
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher holds the parsed pattern list. The zero value matches nothing.
type Matcher struct {
	dirs  []string
	globs []string
}

// Load reads a pattern file. A missing file yields an empty matcher and no
// error, so callers never special-case repos without an ignore file.
func Load(file string) (Matcher, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return Matcher{}, nil
		}
		return Matcher{}, err
	}
	return Parse(string(b)), nil
}

// Parse builds a matcher from pattern-file content.
func Parse(content string) Matcher {
	var m Matcher
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "/") {
			m.dirs = append(m.dirs, strings.TrimSuffix(line, "/"))
			continue
		}
		m.globs = append(m.globs, line)
	}
	return m
}

// Match reports whether a slash-separated relative path is ignored.
func (m Matcher) Match(rel string) bool {
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./")
	for _, dir := range m.dirs {
		if rel == dir || strings.HasPrefix(rel, dir+"/") || strings.Contains(rel, "/"+dir+"/") {
			return true
		}
	}
	base := path.Base(rel)
	for _, glob := range m.globs {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return true
		}
		if !strings.Contains(glob, "/") {
			if ok, _ := doublestar.Match(glob, base); ok {
				return true
			}
		}
	}
	return false
}
