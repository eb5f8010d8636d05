package service

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Go Programming", "go-programming"},
		{"  Rust & WebAssembly  ", "rust-webassembly"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"Café 2024", "caf-2024"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
