package cookies

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// chromeEpochOffsetSeconds is the gap between the Windows NT epoch
// (1601-01-01) and the Unix epoch (1970-01-01).
const chromeEpochOffsetSeconds int64 = 11_644_473_600

func chromeToUnix(chromeUSec int64) float64 {
	return float64(chromeUSec)/1e6 - float64(chromeEpochOffsetSeconds)
}

// chromeSameSite maps the Chrome samesite column to the snapshot value.
// -1 is "unspecified" and maps to the empty string so restore applies the
// default.
func chromeSameSite(v int) ckzlib.SameSite {
	switch v {
	case 1:
		return ckzlib.SameSiteLax
	case 2:
		return ckzlib.SameSiteStrict
	case 0:
		return ckzlib.SameSiteNone
	default:
		return ""
	}
}

// ReadChrome reads every unencrypted cookie out of a Chrome Cookies SQLite
// file. Encrypted values (value = '') are skipped because the OS keychain
// holds the key. dbPath must point at a safe copy, not the live database.
func ReadChrome(dbPath string) ([]ckzlib.CookieRecord, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open chrome cookie database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
        SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly, is_persistent, samesite
        FROM cookies
        WHERE value != ''
        ORDER BY host_key ASC, path DESC, name ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("query chrome cookies: %w", err)
	}
	defer rows.Close()

	var records []ckzlib.CookieRecord
	for rows.Next() {
		var (
			name, value, hostKey, path                   string
			expiresUTC                                   int64
			isSecure, isHTTPOnly, isPersistent, sameSite int
		)
		if err := rows.Scan(&name, &value, &hostKey, &path, &expiresUTC, &isSecure, &isHTTPOnly, &isPersistent, &sameSite); err != nil {
			return nil, fmt.Errorf("scan chrome cookie row: %w", err)
		}

		rec := ckzlib.CookieRecord{
			Domain:   hostKey,
			Name:     name,
			Value:    value,
			Path:     path,
			Secure:   isSecure != 0,
			HTTPOnly: isHTTPOnly != 0,
			SameSite: chromeSameSite(sameSite),
			HostOnly: hostKey != "" && hostKey[0] != '.',
		}
		if isPersistent == 0 || expiresUTC == 0 {
			rec.Session = true
		} else {
			exp := chromeToUnix(expiresUTC)
			rec.ExpirationDate = &exp
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chrome cookie rows: %w", err)
	}

	return records, nil
}
