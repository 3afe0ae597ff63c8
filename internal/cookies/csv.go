package cookies

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// csvRequired are the columns a CSV export must carry. Header matching is
// case-insensitive and order-independent.
var csvRequired = []string{"domain", "name", "value", "path"}

// isCSVHeader reports whether line looks like a cookie CSV header row.
func isCSVHeader(line string) bool {
	cols := map[string]bool{}
	for _, c := range strings.Split(line, ",") {
		cols[strings.ToLower(strings.TrimSpace(c))] = true
	}
	for _, want := range csvRequired {
		if !cols[want] {
			return false
		}
	}
	return true
}

// ParseCSV reads a cookie CSV export. Beyond the required domain, name,
// value and path columns it understands secure, httpOnly, hostOnly, session,
// sameSite and expirationDate; unknown columns are ignored.
func ParseCSV(r io.Reader) ([]ckzlib.CookieRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := map[string]int{}
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, want := range csvRequired {
		if _, ok := index[want]; !ok {
			return nil, fmt.Errorf("csv is missing required column %q", want)
		}
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	boolField := func(row []string, name string) bool {
		v := strings.ToLower(field(row, name))
		return v == "true" || v == "1" || v == "yes"
	}

	var records []ckzlib.CookieRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}

		rec := ckzlib.CookieRecord{
			Domain:   field(row, "domain"),
			Name:     field(row, "name"),
			Value:    field(row, "value"),
			Path:     field(row, "path"),
			Secure:   boolField(row, "secure"),
			HTTPOnly: boolField(row, "httponly"),
			HostOnly: boolField(row, "hostonly"),
			Session:  boolField(row, "session"),
			SameSite: ckzlib.SameSite(strings.ToLower(field(row, "samesite"))),
		}
		if rec.Domain == "" || rec.Name == "" {
			return nil, fmt.Errorf("csv row %d is missing domain or name", line)
		}
		if raw := field(row, "expirationdate"); raw != "" {
			exp, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("csv row %d has invalid expirationDate %q", line, raw)
			}
			rec.ExpirationDate = &exp
		}
		records = append(records, rec)
	}

	return records, nil
}
