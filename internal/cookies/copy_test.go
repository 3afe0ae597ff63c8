package cookies

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cookies.sqlite")
	if err := os.WriteFile(src, []byte("SQLite format 3\x00rest"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src+"-wal", []byte("wal"), 0644); err != nil {
		t.Fatal(err)
	}

	copied, cleanup, err := SafeCopy(src)
	if err != nil {
		t.Fatalf("SafeCopy: %v", err)
	}
	defer cleanup()

	if copied == src {
		t.Fatal("copy landed on the source path")
	}
	data, err := os.ReadFile(copied)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(data) != "SQLite format 3\x00rest" {
		t.Error("copy content differs from source")
	}
	if _, err := os.Stat(copied + "-wal"); err != nil {
		t.Error("-wal companion was not copied")
	}
	if _, err := os.Stat(copied + "-shm"); !os.IsNotExist(err) {
		t.Error("missing -shm companion must not be invented")
	}

	cleanup()
	if _, err := os.Stat(copied); !os.IsNotExist(err) {
		t.Error("cleanup left the temp copy behind")
	}
}

func TestSafeCopyBadInputs(t *testing.T) {
	if _, _, err := SafeCopy(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file accepted")
	}
	if _, _, err := SafeCopy(t.TempDir()); err == nil {
		t.Error("directory accepted")
	}

	empty := filepath.Join(t.TempDir(), "empty")
	os.WriteFile(empty, nil, 0644)
	if _, _, err := SafeCopy(empty); err == nil {
		t.Error("empty file accepted")
	}
}
