package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 5, 5},
		{"   ", 5, 5},
		{"20", 5, 20},
		{" 42 ", 0, 42},
		{"-3", 5, -3},
		{"ten", 5, 5},
		{"1.5", 5, 5},
		{"999999999999999999999999", 5, 5},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 1, 100, 5},
		{0, 1, 100, 1},
		{500, 1, 100, 100},
		{50, 100, 1, 50},
		{-1, 100, 1, 1},
	}
	for _, tc := range cases {
		if got := ClampInt(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Fatalf("ClampInt(%d, %d, %d) = %d; want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}
