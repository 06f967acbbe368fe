package identity_test

import (
	"testing"

	"reclaim/internal/identity"
)

func TestNewItemIDShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := identity.NewItemID()
		if err != nil {
			t.Fatalf("NewItemID failed: %v", err)
		}
		if !identity.ValidItemID(id) {
			t.Fatalf("generated id %q fails validation", id)
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected distinct generated identifiers")
	}
}

func TestValidItemID(t *testing.T) {
	cases := []struct {
		value string
		valid bool
	}{
		{"4829-1753-0264", true},
		{"  4829-1753-0264  ", true},
		{"0000-0000-0000", true},
		{"4829-1753-264", false},
		{"4829-1753-02645", false},
		{"482917530264", false},
		{"abcd-efgh-ijkl", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := identity.ValidItemID(tc.value); got != tc.valid {
			t.Errorf("ValidItemID(%q) = %v, want %v", tc.value, got, tc.valid)
		}
	}
}

func TestNormalizeTrims(t *testing.T) {
	if got := identity.Normalize("  4829-1753-0264\n"); got != "4829-1753-0264" {
		t.Fatalf("Normalize returned %q", got)
	}
}
