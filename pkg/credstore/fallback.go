package credstore

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	credFileName = "push.cred"
	credFileMode = 0600
)

// FileStore is the file-based fallback used when the system keyring is
// unavailable. The credential blob is written with 0600 permissions.
type FileStore struct {
	configDir string
}

// NewFileStore creates a FileStore rooted at configDir. The directory is
// created on the first save.
func NewFileStore(configDir string) *FileStore {
	return &FileStore{configDir: configDir}
}

func (f *FileStore) credPath() string {
	return filepath.Join(f.configDir, credFileName)
}

// Save writes the credential blob atomically: temp file, chmod, rename.
func (f *FileStore) Save(data []byte) error {
	if err := os.MkdirAll(f.configDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(f.configDir, ".push.cred.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, credFileMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, f.credPath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename credential file: %w", err)
	}

	return nil
}

// Load reads the stored credential blob.
func (f *FileStore) Load() ([]byte, error) {
	return os.ReadFile(f.credPath())
}

// Delete removes the credential file. A missing file is not an error.
func (f *FileStore) Delete() error {
	err := os.Remove(f.credPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
