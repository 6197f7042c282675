package validate

import (
	"strings"
	"testing"
)

func TestEmail(t *testing.T) {
	if _, ok := Email("sara@bazaar.test"); !ok {
		t.Fatal("valid email rejected")
	}
	if got, ok := Email("  sara@bazaar.test  "); !ok || got != "sara@bazaar.test" {
		t.Fatalf("email not trimmed: %q", got)
	}
	for _, bad := range []string{"", "nope", "a@b", "a b@c.com"} {
		if _, ok := Email(bad); ok {
			t.Errorf("accepted %q", bad)
		}
	}
}

func TestQtyClamps(t *testing.T) {
	cases := map[string]int{"": 1, "0": 1, "-3": 1, "abc": 1, "7": 7, "50": 50, "999": 50}
	for in, want := range cases {
		if got := Qty(in); got != want {
			t.Errorf("Qty(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestID(t *testing.T) {
	for _, good := range []string{"kb-mech-01", "tech_corner", "A1"} {
		if _, ok := ID(good); !ok {
			t.Errorf("rejected %q", good)
		}
	}
	for _, bad := range []string{"", "a b", "a/b", "<script>", strings.Repeat("x", 65)} {
		if _, ok := ID(bad); ok {
			t.Errorf("accepted %q", bad)
		}
	}
}

func TestToken(t *testing.T) {
	if _, ok := Token("9e107d9d-2f4a-4b6e-9c1d-5a8e1f0b2c3d"); !ok {
		t.Fatal("uuid token rejected")
	}
	for _, bad := range []string{"", "short", "has space here", "under_score1"} {
		if _, ok := Token(bad); ok {
			t.Errorf("accepted %q", bad)
		}
	}
}

func TestPassword(t *testing.T) {
	if !Password("Passw0rd!") {
		t.Fatal("good password rejected")
	}
	for _, bad := range []string{"short1!", "alllowercase1!", "NOUPPER...wait", "NoSymbols123", "NoDigits!!!"} {
		if Password(bad) {
			t.Errorf("accepted %q", bad)
		}
	}
}
