package cookies

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

func firefoxSameSite(v int) ckzlib.SameSite {
	switch v {
	case 1:
		return ckzlib.SameSiteLax
	case 2:
		return ckzlib.SameSiteStrict
	default:
		return ckzlib.SameSiteNone
	}
}

// ReadFirefox reads every cookie out of a Firefox cookies.sqlite file.
// dbPath must point at a safe copy, not the live database.
func ReadFirefox(dbPath string) ([]ckzlib.CookieRecord, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open firefox cookie database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
        SELECT name, value, host, path, expiry, isSecure, isHttpOnly, sameSite
        FROM moz_cookies
        ORDER BY host ASC, path DESC, name ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("query firefox cookies: %w", err)
	}
	defer rows.Close()

	var records []ckzlib.CookieRecord
	for rows.Next() {
		var (
			name, value, host, path        string
			expiry                         int64
			isSecure, isHTTPOnly, sameSite int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &isSecure, &isHTTPOnly, &sameSite); err != nil {
			return nil, fmt.Errorf("scan firefox cookie row: %w", err)
		}

		rec := ckzlib.CookieRecord{
			Domain:   host,
			Name:     name,
			Value:    value,
			Path:     path,
			Secure:   isSecure != 0,
			HTTPOnly: isHTTPOnly != 0,
			SameSite: firefoxSameSite(sameSite),
			HostOnly: host != "" && host[0] != '.',
		}
		if expiry == 0 {
			rec.Session = true
		} else {
			exp := float64(expiry)
			rec.ExpirationDate = &exp
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate firefox cookie rows: %w", err)
	}

	return records, nil
}
