package utils

import (
	"strings"
	"testing"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Taladro Percutor 850W", "taladro-percutor-850w"},
		{"  Spaces  Everywhere  ", "spaces-everywhere"},
		{"Símbolos & Raros!", "smbolos-raros"},
		{"already-a-slug", "already-a-slug"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := GenerateSlug(tt.in); got != tt.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID("order")
	if !strings.HasPrefix(id, "order_") {
		t.Fatalf("id %q missing prefix", id)
	}
	if len(id) != len("order_")+12 {
		t.Errorf("id %q should carry 12 hex chars", id)
	}
	if id == GenerateID("order") {
		t.Error("ids should not repeat")
	}
}

func TestParseInt(t *testing.T) {
	if got := ParseInt("42", 1); got != 42 {
		t.Errorf("ParseInt(42) = %d", got)
	}
	if got := ParseInt("", 7); got != 7 {
		t.Errorf("ParseInt empty = %d, want fallback", got)
	}
	if got := ParseInt("nope", 7); got != 7 {
		t.Errorf("ParseInt invalid = %d, want fallback", got)
	}
}
