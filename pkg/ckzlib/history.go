package ckzlib

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MaxHistoryEntries bounds the ledger: appending beyond it evicts the
// oldest entry first.
const MaxHistoryEntries = 50

// BackupType names the operation a ledger entry records: the trigger source
// of a backup, or a restore replay.
type BackupType string

const (
	BackupManual    BackupType = "manual"
	BackupAutomatic BackupType = "automatic"
	BackupSelective BackupType = "selective"
	RestoreReplay   BackupType = "restore"
)

// HistoryEntry is one completed backup or restore operation as recorded in
// the ledger. Entries are never mutated after append.
type HistoryEntry struct {
	ID          string
	Date        time.Time
	Type        BackupType
	CookieCount int
	Size        int64
	Filename    string
	Encrypted   bool
}

// NewEntryID returns a fresh, lexically sortable ledger entry id.
func NewEntryID() string {
	return ulid.Make().String()
}

// History is the append-only bounded ledger of past operations, persisted as
// a gob-encoded list, most recent first. Appends are read-modify-write under
// a single mutex, so overlapping operations never lose entries.
type History struct {
	path    string
	mu      sync.Mutex
	entries []HistoryEntry
}

// OpenHistory loads the ledger at path, creating an empty one when the file
// does not exist. A corrupt file is discarded and the ledger starts fresh;
// history is status display, not data the user cannot afford to lose.
func OpenHistory(path string) (*History, error) {
	h := &History{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return h, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	if len(data) == 0 {
		return h, nil
	}

	if decErr := gob.NewDecoder(bytes.NewReader(data)).Decode(&h.entries); decErr != nil && decErr != io.EOF {
		h.entries = nil
	}
	if len(h.entries) > MaxHistoryEntries {
		h.entries = h.entries[:MaxHistoryEntries]
	}
	return h, nil
}

// Append prepends an entry, evicts beyond MaxHistoryEntries and persists.
func (h *History) Append(e HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]HistoryEntry{e}, h.entries...)
	if len(h.entries) > MaxHistoryEntries {
		h.entries = h.entries[:MaxHistoryEntries]
	}
	return h.save()
}

// Entries returns a copy of the ledger, most recent first.
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Flush discards all entries and persists the empty ledger.
func (h *History) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil
	return h.save()
}

// save writes the ledger atomically: temp file in the same directory, then
// rename over the target.
func (h *History) save() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(h.entries); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".history.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp history: %w", err)
	}
	if err := os.Rename(tmpPath, h.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename history: %w", err)
	}
	return nil
}
