package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverSourceFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "app.js", "const x = 1;")
	writeFile(t, dir, "lib/util.ts", "export const y = 2;")
	// Non-source file should be ignored
	writeFile(t, dir, "readme.txt", "hello")
	// Hidden file should be ignored
	writeFile(t, dir, ".hidden.js", "secret")

	entries, err := Files(dir, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), paths)
	}

	// Should be sorted
	if entries[0].Path != "app.js" {
		t.Errorf("entry 0: got %q", entries[0].Path)
	}
	if entries[0].Language != "javascript" {
		t.Errorf("entry 0: language = %q, want javascript", entries[0].Language)
	}
	if entries[1].Path != filepath.Join("lib", "util.ts") {
		t.Errorf("entry 1: got %q", entries[1].Path)
	}
	if entries[1].Language != "typescript" {
		t.Errorf("entry 1: language = %q, want typescript", entries[1].Language)
	}
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "app.js", "const x = 1;")
	writeFile(t, dir, "node_modules/pkg/index.js", "module.exports = {};")
	writeFile(t, dir, "dist/bundle.js", "var x;")
	writeFile(t, dir, ".hidden/secret.js", "var y;")

	entries, err := Files(dir, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != "app.js" {
		t.Errorf("expected app.js, got %q", entries[0].Path)
	}
}

func TestDiscoverLanguageFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "app.js", "const x = 1;")
	writeFile(t, dir, "component.tsx", "export default null;")

	entries, err := Files(dir, []string{"javascript"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "app.js" {
		t.Fatalf("javascript filter: got %v", entries)
	}

	entries, err = Files(dir, []string{"tsx"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "component.tsx" {
		t.Fatalf("tsx filter: got %v", entries)
	}
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "generated.js\n")
	writeFile(t, dir, "app.js", "const x = 1;")
	writeFile(t, dir, "generated.js", "var g;")

	entries, err := Files(dir, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != "app.js" {
		t.Errorf("expected app.js, got %q", entries[0].Path)
	}
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.js", "const x = 1;")

	err := os.Symlink(filepath.Join(dir, "real.js"), filepath.Join(dir, "link.js"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (no symlink), got %d", len(entries))
	}
	if entries[0].Path != "real.js" {
		t.Errorf("expected real.js, got %q", entries[0].Path)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
