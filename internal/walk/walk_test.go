package walk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func walkedPaths(t *testing.T, opts Options) map[string]bool {
	t.Helper()
	inputs, err := Files(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	paths := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		paths[in.Path] = true
	}
	return paths
}

func TestFilesDefaultExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "node_modules/left-pad/index.js", "module.exports = 1")
	writeFile(t, root, ".git/config", "[core]")
	writeFile(t, root, "yarn.lock", "# lockfile")
	writeFile(t, root, "app.min.js", "var a=1")

	paths := walkedPaths(t, Options{Root: root})
	if !paths["main.go"] {
		t.Error("main.go should be walked")
	}
	for _, p := range []string{"node_modules/left-pad/index.js", ".git/config", "yarn.lock", "app.min.js"} {
		if paths[p] {
			t.Errorf("%s should be excluded by default", p)
		}
	}

	// With defaults off, the lockfile comes back.
	paths = walkedPaths(t, Options{Root: root, NoDefaultExcludes: true})
	if !paths["yarn.lock"] {
		t.Error("yarn.lock should be walked with defaults disabled")
	}
}

func TestFilesIncludeExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a")
	writeFile(t, root, "sub/b.py", "x = 1")
	writeFile(t, root, "README.md", "# readme")

	paths := walkedPaths(t, Options{
		Root:    root,
		Include: []string{"**/*.go", "**/*.py"},
		Exclude: []string{"sub/**"},
	})
	if !paths["a.go"] {
		t.Error("a.go should pass the include filter")
	}
	if paths["sub/b.py"] {
		t.Error("sub/b.py should be subtracted by the exclude glob")
	}
	if paths["README.md"] {
		t.Error("README.md does not match any include glob")
	}
}

func TestFilesSizeCap(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", "tiny")
	writeFile(t, root, "large.txt", strings.Repeat("x", 200))

	paths := walkedPaths(t, Options{Root: root, MaxBytes: 100})
	if !paths["small.txt"] {
		t.Error("small.txt should be walked")
	}
	if paths["large.txt"] {
		t.Error("large.txt exceeds the size cap")
	}
}

func TestFilesBinarySkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data.bin", "head\x00\x01\x02tail")
	writeFile(t, root, "text.txt", "plain text")

	paths := walkedPaths(t, Options{Root: root})
	if paths["data.bin"] {
		t.Error("NUL-bearing file should be skipped")
	}
	if !paths["text.txt"] {
		t.Error("text.txt should be walked")
	}
}

func TestFilesIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, IgnoreFile, "skip.txt\ngenerated/\n")
	writeFile(t, root, "skip.txt", "ignored")
	writeFile(t, root, "generated/out.txt", "ignored")
	writeFile(t, root, "keep.txt", "kept")

	paths := walkedPaths(t, Options{Root: root})
	if paths["skip.txt"] || paths["generated/out.txt"] {
		t.Error("ignore patterns should exclude matching paths")
	}
	if !paths["keep.txt"] {
		t.Error("keep.txt should be walked")
	}
}

func TestFilesInlineIgnoreDirective(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "fixture.py", "# "+inlineIgnoreDirective+"\npassword = \"hunter2\"\n")
	writeFile(t, root, "app.py", "x = 1\n")

	paths := walkedPaths(t, Options{Root: root})
	if paths["fixture.py"] {
		t.Error("file carrying the inline directive should be skipped")
	}
	if !paths["app.py"] {
		t.Error("app.py should be walked")
	}
}

func TestFilesDedupeContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "identical body")
	writeFile(t, root, "b.txt", "identical body")
	writeFile(t, root, "c.txt", "different body")

	paths := walkedPaths(t, Options{Root: root, DedupeContent: true})
	if !paths["a.txt"] {
		t.Error("first copy should be walked")
	}
	if paths["b.txt"] {
		t.Error("byte-identical duplicate should be skipped")
	}
	if !paths["c.txt"] {
		t.Error("c.txt should be walked")
	}

	// Off by default.
	paths = walkedPaths(t, Options{Root: root})
	if !paths["a.txt"] || !paths["b.txt"] {
		t.Error("without DedupeContent both copies are walked")
	}
}

func TestFilesCanceledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Files(ctx, Options{Root: root}); err == nil {
		t.Fatal("expected context error")
	}
}
