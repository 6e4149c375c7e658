package cleanup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still exists after Remove")
	}

	// Deleting again is a no-op, not an error.
	if err := Remove(path); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if err := Remove(""); err != nil {
		t.Fatalf("empty path Remove: %v", err)
	}
}

func TestRemoveAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
		paths = append(paths, p)
	}
	// A missing entry in the middle must not stop the rest.
	paths = append(paths, filepath.Join(dir, "missing.png"))

	RemoveAll(paths)

	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("%s still exists after RemoveAll", p)
		}
	}
}
