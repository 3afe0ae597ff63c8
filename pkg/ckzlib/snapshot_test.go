package ckzlib

import (
	"errors"
	"reflect"
	"testing"
)

func fptr(f float64) *float64 { return &f }

func sampleSnapshot() Snapshot {
	return Snapshot{
		{
			Domain:         ".example.com",
			Name:           "sid",
			Value:          "abc123",
			Path:           "/",
			Secure:         true,
			HTTPOnly:       true,
			SameSite:       SameSiteLax,
			ExpirationDate: fptr(4102444800),
		},
		{
			Domain:   "login.example.com",
			Name:     "csrf",
			Value:    "tok",
			HostOnly: true,
			Session:  true,
		},
		{
			Domain:   ".example.org",
			Name:     "pref",
			Value:    "dark",
			SameSite: SameSiteStrict,
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	s, err := snap.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := DeserializeSnapshot(s)
	if err != nil {
		t.Fatalf("DeserializeSnapshot: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, snap)
	}
}

func TestSnapshotOrderPreserved(t *testing.T) {
	snap := Snapshot{
		{Domain: "c.com", Name: "third", Value: "3"},
		{Domain: "a.com", Name: "first", Value: "1"},
		{Domain: "b.com", Name: "second", Value: "2"},
	}
	s, err := snap.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DeserializeSnapshot(s)
	if err != nil {
		t.Fatal(err)
	}
	for i := range snap {
		if got[i].Name != snap[i].Name {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Name, snap[i].Name)
		}
	}
}

func TestDeserializeEmptyArray(t *testing.T) {
	got, err := DeserializeSnapshot("[]")
	if err != nil {
		t.Fatalf("empty array must deserialize: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestDeserializeParseError(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not JSON", input: "definitely not json"},
		{name: "JSON object, not array", input: `{"domain":"a.com"}`},
		{name: "truncated array", input: `[{"name":"a"`},
		{name: "array of scalars", input: `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeserializeSnapshot(tt.input)
			var pErr *ParseError
			if !errors.As(err, &pErr) {
				t.Errorf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestDeserializeSchemaError(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing string
	}{
		{
			name:    "missing domain",
			input:   `[{"name":"sid","value":"v"}]`,
			missing: "domain",
		},
		{
			name:    "missing name",
			input:   `[{"value":"v","domain":"a.com"}]`,
			missing: "name",
		},
		{
			name:    "missing value",
			input:   `[{"name":"sid","domain":"a.com"}]`,
			missing: "value",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeserializeSnapshot(tt.input)
			var sErr *SchemaError
			if !errors.As(err, &sErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if sErr.MissingField != tt.missing {
				t.Errorf("missing field = %q, want %q", sErr.MissingField, tt.missing)
			}
		})
	}
}

func TestDeserializeChecksFirstElementOnly(t *testing.T) {
	// The schema check is deliberately cheap: only the first element is
	// probed, later malformed elements pass through.
	input := `[{"name":"a","value":"1","domain":"a.com"},{"foo":"bar"}]`
	got, err := DeserializeSnapshot(input)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestCookieRecordURL(t *testing.T) {
	tests := []struct {
		name string
		rec  CookieRecord
		want string
	}{
		{
			name: "secure cookie with dot domain",
			rec:  CookieRecord{Domain: ".example.com", Path: "/login", Secure: true},
			want: "https://example.com/login",
		},
		{
			name: "insecure cookie defaults path",
			rec:  CookieRecord{Domain: "example.org"},
			want: "http://example.org/",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}
