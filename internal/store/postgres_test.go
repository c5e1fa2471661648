package store

import "testing"

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"":       "",
		"INV-1":  "INV-1",
		"50%":    `50\%`,
		"INV_1":  `INV\_1`,
		`a\b`:    `a\\b`,
		`\%_mix`: `\\\%\_mix`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) got=%q want=%q", in, got, want)
		}
	}
}
