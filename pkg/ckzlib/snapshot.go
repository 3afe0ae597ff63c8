package ckzlib

import (
	"encoding/json"
	"strings"
)

// SameSite mirrors the browser extension API enum for cookie same-site policy.
type SameSite string

const (
	SameSiteStrict SameSite = "strict"
	SameSiteLax    SameSite = "lax"
	// SameSiteNone is the extension API's spelling for "no restriction" and
	// the default applied during replay when a record carries no policy.
	SameSiteNone SameSite = "no_restriction"
)

// CookieRecord is one cookie as captured from the browser. Name and Domain
// are always present on any record entering serialization. HostOnly and
// Session are restore-time hints: a host-only cookie must not be replayed
// with an explicit domain, and a session cookie must not be replayed with an
// expiration date.
type CookieRecord struct {
	Domain         string   `json:"domain"`
	Name           string   `json:"name"`
	Value          string   `json:"value"`
	Path           string   `json:"path,omitempty"`
	Secure         bool     `json:"secure"`
	HTTPOnly       bool     `json:"httpOnly"`
	SameSite       SameSite `json:"sameSite,omitempty"`
	HostOnly       bool     `json:"hostOnly,omitempty"`
	Session        bool     `json:"session,omitempty"`
	ExpirationDate *float64 `json:"expirationDate,omitempty"`
}

// URL returns the scheme://host/path address used when replaying the record,
// with the scheme derived from the Secure flag.
func (r CookieRecord) URL() string {
	scheme := "http"
	if r.Secure {
		scheme = "https"
	}
	host := strings.TrimPrefix(r.Domain, ".")
	path := r.Path
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path
}

// Snapshot is an ordered sequence of cookie records captured at one point in
// time. Order carries no meaning but survives a serialize/deserialize
// round-trip unchanged.
type Snapshot []CookieRecord

// Serialize renders the snapshot as a canonical JSON array in input order.
// This string is the unit the cipher adapter encrypts.
func (s Snapshot) Serialize() (string, error) {
	if s == nil {
		s = Snapshot{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// requiredFields are checked on the first element of a deserialized array.
// Only the first element is schema-checked; a deliberately cheap validation.
var requiredFields = []string{"name", "value", "domain"}

// DeserializeSnapshot parses a JSON cookie array. It returns a ParseError
// for invalid JSON or a non-array, and a SchemaError when the array is
// non-empty and its first element lacks a required field.
func DeserializeSnapshot(s string) (Snapshot, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(s), &elems); err != nil {
		return nil, &ParseError{Cause: err}
	}

	if len(elems) > 0 {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(elems[0], &probe); err != nil {
			return nil, &ParseError{Cause: err}
		}
		for _, field := range requiredFields {
			if _, ok := probe[field]; !ok {
				return nil, &SchemaError{MissingField: field}
			}
		}
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(s), &snap); err != nil {
		return nil, &ParseError{Cause: err}
	}
	return snap, nil
}
