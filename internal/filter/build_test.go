package filter

import (
	"testing"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

func TestBuildNoCriteria(t *testing.T) {
	f, err := Build(nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if f != nil {
		t.Error("expected nil filter with no criteria")
	}
}

func TestBuildCombinesDomainAndScript(t *testing.T) {
	f, err := Build([]string{"example.com"}, `(function(c) { return c.name === "sid"; })`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		domain, name string
		want         bool
	}{
		{".example.com", "sid", true},
		{".example.com", "pref", false},
		{".other.net", "sid", false},
	}
	for _, tt := range tests {
		got, err := f(ckzlib.CookieRecord{Domain: tt.domain, Name: tt.name})
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("filter(%s, %s) = %v, want %v", tt.domain, tt.name, got, tt.want)
		}
	}
}

func TestBuildRejectsBadScript(t *testing.T) {
	if _, err := Build(nil, "function ("); err == nil {
		t.Fatal("expected a compile error")
	}
}
