package cookies

import (
	"context"
	"strings"
	"testing"
)

func TestLoadFromChromeStore(t *testing.T) {
	dbPath := createChromeFixture(t, []chromeRow{
		{Name: "sid", Value: "abc", HostKey: ".example.com", Path: "/", ExpiresUTC: unixToChrome(1893456000), IsPersistent: 1},
	})

	records, info, err := Load(dbPath, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.Format != FormatChrome {
		t.Errorf("format = %v, want chrome", info.Format)
	}
	if len(records) != 1 || records[0].Name != "sid" {
		t.Errorf("records = %+v", records)
	}
}

func TestLoadFromCSV(t *testing.T) {
	path := writeTempFile(t, "export.csv", "domain,name,value,path\n.example.com,sid,abc,/\n")

	records, info, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.Format != FormatCSV || len(records) != 1 {
		t.Errorf("format=%v records=%+v", info.Format, records)
	}
}

func TestLoadFromPlainSnapshot(t *testing.T) {
	path := writeTempFile(t, "cookies.json", `[{"name":"sid","value":"v","domain":".example.com"}]`)

	records, info, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.Format != FormatBackup || len(records) != 1 {
		t.Errorf("format=%v records=%+v", info.Format, records)
	}
}

func TestLoadRejectsEncryptedBackup(t *testing.T) {
	path := writeTempFile(t, "backup.ckz", `{"version":1,"payload":"ckz1.AAAA","checksum":"0"}`)

	_, _, err := Load(path, nil)
	if err == nil || !strings.Contains(err.Error(), "encrypted") {
		t.Errorf("err = %v, want encrypted-backup rejection", err)
	}
}

func TestFileSource(t *testing.T) {
	path := writeTempFile(t, "cookies.json", `[{"name":"sid","value":"v","domain":".example.com"}]`)

	src := &FileSource{Path: path}
	records, err := src.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %+v", records)
	}
}
