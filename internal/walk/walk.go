// Package walk is the file-discovery collaborator: it turns a directory tree
// into the path+text inputs the scan engine consumes. The engine itself never
// touches the filesystem.
package walk

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"

	"github.com/codesentinel/codesentinel/internal/engine"
	"github.com/codesentinel/codesentinel/internal/ignore"
	"github.com/codesentinel/codesentinel/internal/log"
)

// Options controls a walk. Zero values mean: all files, 1 MiB size cap,
// default excludes on.
type Options struct {
	Root string
	// Include and Exclude are doublestar globs against slash-separated
	// paths relative to Root. Includes, when present, act as a positive
	// filter; excludes are subtracted last.
	Include []string
	Exclude []string
	// MaxBytes skips files larger than this. Zero means DefaultMaxBytes.
	MaxBytes int64
	// NoDefaultExcludes disables the built-in dir/file exclusion lists.
	NoDefaultExcludes bool
	// DedupeContent skips files whose exact content was already walked,
	// which keeps vendored copies from multiplying identical findings.
	DedupeContent bool
}

// DefaultMaxBytes caps per-file reads at 1 MiB unless overridden.
const DefaultMaxBytes = 1 << 20

// IgnoreFile is the per-repo ignore pattern file, looked up under Root.
const IgnoreFile = ".sentinelignore"

// inlineIgnoreDirective excludes a file from scanning from within the file.
const inlineIgnoreDirective = "sentinel:ignore-file"

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"target":       true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"out":          true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"coverage":     true,
	"bin":          true,
	"obj":          true,
}

var defaultExcludeSuffixes = []string{
	".min.js", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg",
	".pdf", ".zip", ".gz", ".tar", ".tgz", ".7z",
	".jar", ".class", ".exe", ".dll", ".so",
	".wasm", ".pyc",
	".pb.go", ".gen.go",
}

var defaultExcludeNames = map[string]bool{
	"yarn.lock":         true,
	"package-lock.json": true,
	"pnpm-lock.yaml":    true,
	"composer.lock":     true,
	"poetry.lock":       true,
	".DS_Store":         true,
}

// Files walks Root and returns the eligible inputs in traversal order.
// Unreadable files are logged and skipped; the walk itself only fails on a
// cancelled context or an unreadable root.
func Files(ctx context.Context, opts Options) ([]engine.Input, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	ign, err := ignore.Load(filepath.Join(opts.Root, IgnoreFile))
	if err != nil {
		log.Warnf("walk: cannot read %s: %v", IgnoreFile, err)
	}

	seen := map[uint64]string{}
	var inputs []engine.Input

	err = filepath.WalkDir(opts.Root, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.Debugf("walk: skipping %s: %v", p, err)
			return nil
		}
		if d.IsDir() {
			if !opts.NoDefaultExcludes && excludedDir(d.Name()) && p != opts.Root {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(opts.Root, p)
		rel = filepath.ToSlash(rel)
		if !allowedByGlobs(rel, opts.Include, opts.Exclude) || ign.Match(rel) {
			return nil
		}
		if !opts.NoDefaultExcludes && excludedFile(strings.ToLower(rel)) {
			return nil
		}
		if info, ierr := d.Info(); ierr == nil && info.Size() > maxBytes {
			log.Debugf("walk: %s exceeds size cap, skipped", rel)
			return nil
		}
		b, rerr := os.ReadFile(p)
		if rerr != nil {
			log.Warnf("walk: cannot read %s: %v", rel, rerr)
			return nil
		}
		if looksBinary(b) || looksNonTextMIME(rel, b) {
			return nil
		}
		text := string(b)
		if strings.Contains(text, inlineIgnoreDirective) {
			return nil
		}
		if opts.DedupeContent {
			sum := xxhash.Sum64(b)
			if first, dup := seen[sum]; dup {
				log.Debugf("walk: %s duplicates %s, skipped", rel, first)
				return nil
			}
			seen[sum] = rel
		}
		inputs = append(inputs, engine.Input{Path: rel, Text: text})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

func excludedDir(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

func excludedFile(lowerRel string) bool {
	if strings.HasSuffix(lowerRel, ".lock") || strings.Contains(lowerRel, ".gen.") {
		return true
	}
	for _, s := range defaultExcludeSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	return defaultExcludeNames[filepath.Base(lowerRel)]
}

// allowedByGlobs applies include globs as a positive filter, then subtracts
// exclude globs. Matching uses forward-slash doublestar semantics.
func allowedByGlobs(rel string, includes, excludes []string) bool {
	if len(includes) > 0 && !matchAny(rel, includes) {
		return false
	}
	return !matchAny(rel, excludes)
}

func matchAny(rel string, globs []string) bool {
	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := len(b)
	if n > sniff {
		n = sniff
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// looksNonTextMIME skips clearly non-text content by extension plus a small
// header sniff, on top of NUL-byte detection.
func looksNonTextMIME(path string, b []byte) bool {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
			return true
		}
		if strings.Contains(ct, "zip") || strings.Contains(ct, "tar") || strings.Contains(ct, "gzip") {
			return true
		}
	}
	if len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n" {
		return true
	}
	if len(b) >= 2 && b[0] == 'P' && b[1] == 'K' {
		return true
	}
	return false
}
