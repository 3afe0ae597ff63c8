package cookies

import (
	"testing"
	"time"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

func TestReadChrome(t *testing.T) {
	expiry := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC).Unix()
	dbPath := createChromeFixture(t, []chromeRow{
		{Name: "sid", Value: "abc123", HostKey: ".example.com", Path: "/", ExpiresUTC: unixToChrome(expiry), IsSecure: 1, IsHTTPOnly: 1, IsPersistent: 1, SameSite: 1},
		{Name: "lang", Value: "en", HostKey: "app.example.com", Path: "/app", IsPersistent: 0, SameSite: -1},
	})

	records, err := ReadChrome(dbPath)
	if err != nil {
		t.Fatalf("ReadChrome: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	sid := records[0]
	if sid.Name != "sid" || sid.Domain != ".example.com" {
		t.Errorf("first record = %+v", sid)
	}
	if !sid.Secure || !sid.HTTPOnly || sid.HostOnly {
		t.Errorf("sid flags = %+v", sid)
	}
	if sid.SameSite != ckzlib.SameSiteLax {
		t.Errorf("sid sameSite = %q", sid.SameSite)
	}
	if sid.ExpirationDate == nil || int64(*sid.ExpirationDate) != expiry {
		t.Errorf("sid expirationDate = %v, want %d", sid.ExpirationDate, expiry)
	}

	lang := records[1]
	if !lang.HostOnly {
		t.Error("a host_key without a leading dot is host-only")
	}
	if !lang.Session || lang.ExpirationDate != nil {
		t.Errorf("non-persistent cookie must be a session cookie: %+v", lang)
	}
	if lang.SameSite != "" {
		t.Errorf("unspecified samesite must stay empty, got %q", lang.SameSite)
	}
}

func TestReadChromeSkipsEncryptedValues(t *testing.T) {
	dbPath := createChromeFixture(t, []chromeRow{
		{Name: "token", Value: "", HostKey: ".example.com", Path: "/", IsPersistent: 1},
		{Name: "plain", Value: "ok", HostKey: ".example.com", Path: "/", IsPersistent: 1},
	})

	records, err := ReadChrome(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Name != "plain" {
		t.Errorf("records = %+v, want only the unencrypted cookie", records)
	}
}

func TestChromeToUnix(t *testing.T) {
	// 1601-01-01 in Chrome time is the Unix epoch offset.
	if got := chromeToUnix(11_644_473_600_000_000); got != 0 {
		t.Errorf("chromeToUnix(epoch) = %v, want 0", got)
	}
	if got := chromeToUnix(unixToChrome(1700000000)); got != 1700000000 {
		t.Errorf("round trip = %v", got)
	}
}
