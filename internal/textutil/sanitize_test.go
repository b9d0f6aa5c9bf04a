package textutil

import (
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Holiday Clip", "my_holiday_clip"},
		{"clip-01", "clip-01"},
		{"  weird::name??  ", "weird_name"},
		{"café au lait", "caf_au_lait"},
		{"", "untitled"},
		{"???", "untitled"},
		{strings.Repeat("a", 80), strings.Repeat("a", 48)},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTail(t *testing.T) {
	if got := Tail("short", 10); got != "short" {
		t.Fatalf("Tail short = %q", got)
	}
	if got := Tail("0123456789", 4); got != "6789" {
		t.Fatalf("Tail = %q", got)
	}
	if got := Tail("abc", 0); got != "" {
		t.Fatalf("Tail zero = %q", got)
	}
	// "é" is two bytes; cutting inside it must skip forward.
	if got := Tail("xé", 1); got != "" {
		t.Fatalf("Tail split rune = %q", got)
	}
	if got := Tail("xéz", 3); got != "éz" {
		t.Fatalf("Tail rune boundary = %q", got)
	}
}
