package cookies

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func unixToChrome(unixSec int64) int64 {
	return (unixSec + chromeEpochOffsetSeconds) * 1_000_000
}

type chromeRow struct {
	Name         string
	Value        string
	HostKey      string
	Path         string
	ExpiresUTC   int64 // microseconds since 1601-01-01
	IsSecure     int
	IsHTTPOnly   int
	IsPersistent int
	SameSite     int
}

func createChromeFixture(t *testing.T, rows []chromeRow) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "Cookies")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE cookies (
        creation_utc INTEGER NOT NULL,
        host_key TEXT NOT NULL,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        encrypted_value BLOB NOT NULL DEFAULT x'',
        path TEXT NOT NULL DEFAULT '/',
        expires_utc INTEGER NOT NULL DEFAULT 0,
        is_secure INTEGER NOT NULL DEFAULT 0,
        is_httponly INTEGER NOT NULL DEFAULT 0,
        is_persistent INTEGER NOT NULL DEFAULT 1,
        samesite INTEGER NOT NULL DEFAULT -1
    )`)
	if err != nil {
		t.Fatalf("create cookies table: %v", err)
	}

	for _, r := range rows {
		_, err = db.Exec(
			`INSERT INTO cookies (creation_utc, host_key, name, value, path, expires_utc, is_secure, is_httponly, is_persistent, samesite)
             VALUES (0, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.HostKey, r.Name, r.Value, r.Path, r.ExpiresUTC, r.IsSecure, r.IsHTTPOnly, r.IsPersistent, r.SameSite,
		)
		if err != nil {
			t.Fatalf("insert row: %v", err)
		}
	}
	return dbPath
}

type firefoxRow struct {
	Name       string
	Value      string
	Host       string
	Path       string
	Expiry     int64
	IsSecure   int
	IsHTTPOnly int
	SameSite   int
}

func createFirefoxFixture(t *testing.T, rows []firefoxRow) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cookies.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE moz_cookies (
        id INTEGER PRIMARY KEY,
        name TEXT,
        value TEXT,
        host TEXT,
        path TEXT,
        expiry INTEGER,
        isSecure INTEGER,
        isHttpOnly INTEGER,
        sameSite INTEGER NOT NULL DEFAULT 0
    )`)
	if err != nil {
		t.Fatalf("create moz_cookies table: %v", err)
	}

	for _, r := range rows {
		_, err = db.Exec(
			`INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly, sameSite)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Name, r.Value, r.Host, r.Path, r.Expiry, r.IsSecure, r.IsHTTPOnly, r.SameSite,
		)
		if err != nil {
			t.Fatalf("insert row: %v", err)
		}
	}
	return dbPath
}
