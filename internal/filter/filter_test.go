package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

func record(domain, name string) ckzlib.CookieRecord {
	return ckzlib.CookieRecord{Domain: domain, Name: name, Value: "v"}
}

func TestDomainsMatching(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		domain  string
		want    bool
	}{
		{"exact", []string{"example.com"}, "example.com", true},
		{"cookie leading dot", []string{"example.com"}, ".example.com", true},
		{"target leading dot", []string{".example.com"}, "example.com", true},
		{"subdomain", []string{"example.com"}, "login.example.com", true},
		{"deep subdomain", []string{"example.com"}, "a.b.example.com", true},
		{"case insensitive", []string{"Example.COM"}, "EXAMPLE.com", true},
		{"suffix but not subdomain", []string{"example.com"}, "notexample.com", false},
		{"unrelated", []string{"example.com"}, "other.org", false},
		{"second target matches", []string{"first.net", "other.org"}, "other.org", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Domains(tc.targets)
			if err != nil {
				t.Fatal(err)
			}
			got, err := f(record(tc.domain, "sid"))
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("match(%q against %v) = %v, want %v", tc.domain, tc.targets, got, tc.want)
			}
		})
	}
}

func TestDomainsRejectsEmptyList(t *testing.T) {
	for _, targets := range [][]string{nil, {}, {"", "  ", "."}} {
		if _, err := Domains(targets); !errors.Is(err, ErrNoDomains) {
			t.Errorf("Domains(%v) err = %v, want ErrNoDomains", targets, err)
		}
	}
}

func TestScriptExpressionPredicate(t *testing.T) {
	f, err := Script(`(function(cookie) { return cookie.domain.endsWith("example.com"); })`)
	if err != nil {
		t.Fatal(err)
	}

	keep, err := f(record("login.example.com", "sid"))
	if err != nil {
		t.Fatal(err)
	}
	if !keep {
		t.Error("expected login.example.com to be kept")
	}

	keep, err = f(record("other.org", "sid"))
	if err != nil {
		t.Fatal(err)
	}
	if keep {
		t.Error("expected other.org to be dropped")
	}
}

func TestScriptNamedKeepFunction(t *testing.T) {
	f, err := Script(`
		function keep(cookie) {
			return cookie.secure && !cookie.session;
		}
	`)
	if err != nil {
		t.Fatal(err)
	}

	rec := record("example.com", "sid")
	rec.Secure = true
	keep, err := f(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !keep {
		t.Error("secure persistent cookie should be kept")
	}

	rec.Session = true
	keep, err = f(rec)
	if err != nil {
		t.Fatal(err)
	}
	if keep {
		t.Error("session cookie should be dropped")
	}
}

func TestScriptSeesAllFields(t *testing.T) {
	f, err := Script(`(function(c) {
		return c.name === "sid" && c.path === "/" && c.httpOnly &&
			c.sameSite === "lax" && c.expirationDate > 0;
	})`)
	if err != nil {
		t.Fatal(err)
	}

	exp := 1900000000.0
	rec := ckzlib.CookieRecord{
		Domain:         "example.com",
		Name:           "sid",
		Value:          "v",
		Path:           "/",
		HTTPOnly:       true,
		SameSite:       ckzlib.SameSiteLax,
		ExpirationDate: &exp,
	}
	keep, err := f(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !keep {
		t.Error("predicate should see every record field")
	}
}

func TestScriptNullExpirationForSessionCookies(t *testing.T) {
	f, err := Script(`(function(c) { return c.expirationDate === null; })`)
	if err != nil {
		t.Fatal(err)
	}
	keep, err := f(record("example.com", "sid"))
	if err != nil {
		t.Fatal(err)
	}
	if !keep {
		t.Error("missing expiry should surface as null")
	}
}

func TestScriptSyntaxError(t *testing.T) {
	if _, err := Script(`function keep(c) {`); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestScriptNotAPredicate(t *testing.T) {
	_, err := Script(`var answer = 42;`)
	if err == nil {
		t.Fatal("expected an error for a script without a predicate")
	}
	if !strings.Contains(err.Error(), "keep") {
		t.Errorf("err = %v, want a mention of the expected function name", err)
	}
}

func TestScriptRuntimeErrorPropagates(t *testing.T) {
	f, err := Script(`(function(c) { return c.missing.field; })`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f(record("example.com", "sid")); err == nil {
		t.Fatal("expected the thrown script error to propagate")
	}
}

func TestScriptConsoleAvailable(t *testing.T) {
	f, err := Script(`(function(c) { console.log("inspecting", c.name); return true; })`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f(record("example.com", "sid")); err != nil {
		t.Fatalf("console.log should not fail: %v", err)
	}
}
