package main

import "testing"

func TestParseID(t *testing.T) {
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "0", "-3"} {
		if _, err := parseID(bad); err == nil {
			t.Errorf("parseID(%q): expected error", bad)
		}
	}
}

func TestStars(t *testing.T) {
	if got := stars(3); got != "★★★☆☆" {
		t.Errorf("stars(3) = %q", got)
	}
	if got := stars(9); got != "★★★★★" {
		t.Errorf("stars(9) = %q", got)
	}
}
