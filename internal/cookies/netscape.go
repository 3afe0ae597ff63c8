package cookies

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
	"github.com/ckzvault/ckzvault/pkg/logger"
)

// ParseNetscape reads cookies from a Netscape-format cookies.txt stream.
// Comment lines are skipped, except the #HttpOnly_ prefix which marks the
// cookie HTTP-only. Malformed lines are skipped with a warning.
func ParseNetscape(r io.Reader, log logger.Logger) ([]ckzlib.CookieRecord, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	var records []ckzlib.CookieRecord
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, "#HttpOnly_") {
			httpOnly = true
			line = line[len("#HttpOnly_"):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		// domain, include-subdomains flag, path, secure, expiry, name, value
		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			log.Warning("netscape import: skipping malformed line with %d fields", len(fields))
			continue
		}

		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			log.Warning("netscape import: skipping cookie %q with invalid expiry", fields[5])
			continue
		}

		rec := ckzlib.CookieRecord{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HTTPOnly: httpOnly,
			HostOnly: !strings.EqualFold(fields[1], "TRUE"),
		}
		if expiry == 0 {
			rec.Session = true
		} else {
			exp := float64(expiry)
			rec.ExpirationDate = &exp
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read netscape cookie file: %w", err)
	}

	return records, nil
}
