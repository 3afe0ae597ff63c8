package cookies

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SafeCopy copies a SQLite cookie database (plus its -wal and -shm
// companions when present) into a temporary directory, so the browser that
// owns the live database never sees a competing reader. It returns the path
// of the copied main file and a cleanup function the caller must invoke.
func SafeCopy(srcPath string) (copied string, cleanup func(), err error) {
	info, err := os.Stat(srcPath)
	if err != nil {
		return "", nil, fmt.Errorf("cookie database not found: %s", srcPath)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%s is a directory, expected a cookie database", srcPath)
	}
	if info.Size() == 0 {
		return "", nil, fmt.Errorf("cookie database %s is empty", srcPath)
	}

	tempDir, err := os.MkdirTemp("", "ckzvault-cookies-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp directory: %w", err)
	}
	cleanup = func() { os.RemoveAll(tempDir) }

	base := filepath.Base(srcPath)
	copied = filepath.Join(tempDir, base)
	if err := copyFile(srcPath, copied); err != nil {
		cleanup()
		return "", nil, err
	}

	// WAL and SHM copies are best-effort; a missing companion is normal.
	for _, suffix := range []string{"-wal", "-shm"} {
		companion := srcPath + suffix
		if _, err := os.Stat(companion); err == nil {
			_ = copyFile(companion, copied+suffix)
		}
	}

	return copied, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Sync()
}
