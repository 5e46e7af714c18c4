package handlers_test

import (
	"testing"

	"github.com/soraleth/wavedex/internal/http/handlers"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"all_classes_present", "Sup3r-Secret-Pass!", true},
		{"exactly_minimum_length", "Aa1!Aa1!Aa1!", true},
		{"too_short", "Aa1!Aa1!Aa1", false},
		{"no_uppercase", "sup3r-secret-pass!", false},
		{"no_lowercase", "SUP3R-SECRET-PASS!", false},
		{"no_digit", "Super-Secret-Pass!", false},
		{"no_symbol", "Sup3rSecretPass1", false},
		{"empty", "", false},
		{"space_counts_as_symbol", "Sup3r Secret Pass1", true},
		{"unicode_letters_count", "Päss3word-Länge!", true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got := handlers.IsStrongPassword(tt.password)

			if got != tt.want {
				t.Fatalf("IsStrongPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestIsStrongPassword_MaxLength(t *testing.T) {
	base := "Aa1!"
	long := base

	for len([]rune(long)) < 128 {
		long += "x"
	}

	if !handlers.IsStrongPassword(long) {
		t.Fatalf("128 runes should be accepted")
	}

	if handlers.IsStrongPassword(long + "x") {
		t.Fatalf("129 runes should be rejected")
	}
}
