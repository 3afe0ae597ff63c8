package cookies

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// Format identifies the layout of a cookie input file.
type Format int

const (
	// FormatUnknown means the input could not be classified.
	FormatUnknown Format = iota
	// FormatFirefox is the Firefox moz_cookies SQLite schema.
	FormatFirefox
	// FormatChrome is the Chrome cookies SQLite schema. Only unencrypted
	// values (value != '') are usable.
	FormatChrome
	// FormatNetscape is the tab-separated Netscape cookies.txt format.
	FormatNetscape
	// FormatCSV is a CSV export with at least domain, name, value and path
	// columns.
	FormatCSV
	// FormatBackup is anything the restore pipeline already understands: an
	// envelope, a bare ciphertext or a plain snapshot array.
	FormatBackup
	// FormatText is line-oriented text with an embedded JSON cookie array.
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatFirefox:
		return "firefox"
	case FormatChrome:
		return "chrome"
	case FormatNetscape:
		return "netscape"
	case FormatCSV:
		return "csv"
	case FormatBackup:
		return "backup"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = "SQLite format 3\x00"

// DetectFormat classifies the file at path. SQLite files are probed for the
// Firefox or Chrome schema; text files are matched against the Netscape
// header, a CSV header row, the backup content kinds and finally the
// embedded-JSON fallback.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("cookie file not found: %s", path)
	}
	if info.IsDir() {
		return FormatUnknown, fmt.Errorf("%s is a directory, expected a cookie file", path)
	}
	if info.Size() == 0 {
		return FormatUnknown, fmt.Errorf("cookie file %s is empty", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("read cookie file: %w", err)
	}

	if len(data) >= 16 && string(data[:16]) == sqliteMagic {
		return detectSQLiteFormat(path)
	}

	content := string(data)
	firstLine, _, _ := strings.Cut(content, "\n")
	firstLine = strings.TrimRight(firstLine, "\r")

	if firstLine == "# Netscape HTTP Cookie File" || firstLine == "# HTTP Cookie File" {
		return FormatNetscape, nil
	}
	if isCSVHeader(firstLine) {
		return FormatCSV, nil
	}
	if ckzlib.Classify(content).Kind != ckzlib.ContentUnrecognized {
		return FormatBackup, nil
	}
	if _, ok := extractSnapshotJSON(content); ok {
		return FormatText, nil
	}

	return FormatUnknown, fmt.Errorf("unrecognized cookie file format: %s", path)
}

// detectSQLiteFormat opens the database read-only and checks which cookie
// table it carries.
func detectSQLiteFormat(path string) (Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("open sqlite database: %w", err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='moz_cookies'`).Scan(&name); err == nil {
		return FormatFirefox, nil
	}
	if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cookies'`).Scan(&name); err == nil {
		return FormatChrome, nil
	}

	return FormatUnknown, fmt.Errorf("unsupported cookie database schema: %s", path)
}
