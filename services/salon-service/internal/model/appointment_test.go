package model

import "testing"

func TestNormalizeClock(t *testing.T) {
	cases := map[string]string{
		"9:05":   "09:05",
		"09:05":  "09:05",
		" 9:30 ": "09:30",
		"23:59":  "23:59",
	}
	for in, want := range cases {
		got, err := NormalizeClock(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
	for _, bad := range []string{"25:00", "9:5", "10am", ""} {
		if _, err := NormalizeClock(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}
