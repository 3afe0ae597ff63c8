// Package filter builds cookie selection predicates for selective backups.
// A filter receives each candidate record and decides whether it is included
// in the snapshot; the backup aborts when nothing survives the filter.
package filter

import (
	"errors"
	"strings"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// ErrNoDomains is returned when a domain filter is requested without any
// domains to match.
var ErrNoDomains = errors.New("domain filter needs at least one domain")

// Domains returns a filter that keeps records belonging to any of the given
// domains. A record matches when its domain equals the target or is a
// subdomain of it, so "example.com" selects "example.com", ".example.com"
// and "login.example.com" alike. Matching is case-insensitive and a leading
// dot on either side is ignored.
func Domains(domains []string) (ckzlib.FilterFunc, error) {
	targets := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		d = strings.TrimPrefix(d, ".")
		if d == "" {
			continue
		}
		targets = append(targets, d)
	}
	if len(targets) == 0 {
		return nil, ErrNoDomains
	}

	return func(rec ckzlib.CookieRecord) (bool, error) {
		cookieDomain := strings.ToLower(strings.TrimPrefix(rec.Domain, "."))
		for _, target := range targets {
			if matchesDomain(cookieDomain, target) {
				return true, nil
			}
		}
		return false, nil
	}, nil
}

// matchesDomain reports whether cookieDomain equals domain or is a subdomain
// of it.
func matchesDomain(cookieDomain, domain string) bool {
	if cookieDomain == domain {
		return true
	}
	return strings.HasSuffix(cookieDomain, "."+domain)
}
