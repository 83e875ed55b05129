package phone

import (
	"strings"
	"testing"
)

func TestIsTenDigits(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"9876543210", true},
		{"987654321", false},
		{"98765432101", false},
		{"98765a4321", false},
		{"+919876543", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsTenDigits(tc.input); got != tc.want {
			t.Errorf("IsTenDigits(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFormatDisplay(t *testing.T) {
	// Unparseable or invalid input passes through trimmed.
	if got := FormatDisplay("  not-a-number  "); got != "not-a-number" {
		t.Fatalf("invalid input must pass through trimmed, got %q", got)
	}
	if got := FormatDisplay(""); got != "" {
		t.Fatalf("empty input must stay empty, got %q", got)
	}

	// A valid stored number is rendered in national display form; the
	// grouping may vary by metadata version, the digits may not.
	got := FormatDisplay("9876543210")
	if got == "" {
		t.Fatal("valid number must render non-empty")
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, got)
	if !strings.HasSuffix(digits, "9876543210") {
		t.Fatalf("display form must preserve the subscriber digits, got %q", got)
	}
}
