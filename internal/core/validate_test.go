package core

import "testing"

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name string
		v    Yen
		max  Yen
		want bool
	}{
		{"zero is valid", 0, MaxAmount, true},
		{"typical amount", 1980, MaxAmount, true},
		{"at the cap", MaxAmount, MaxAmount, true},
		{"over the cap", MaxAmount + 1, MaxAmount, false},
		{"negative", -1, MaxAmount, false},
		{"custom cap", 500, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateAmount(tt.v, tt.max); got != tt.want {
				t.Errorf("ValidateAmount(%d, %d) = %v, want %v", tt.v, tt.max, got, tt.want)
			}
		})
	}
}

func TestValidateTextLength(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want bool
	}{
		{"empty is always valid", "", 0, true},
		{"within limit", "スーパーマルエツ", MaxNameLength, true},
		{"runes counted not bytes", "あいうえお", 5, true},
		{"one over", "あいうえおか", 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateTextLength(tt.text, tt.max); got != tt.want {
				t.Errorf("ValidateTextLength(%q, %d) = %v, want %v", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestSanitizeNumericInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"１２３a４", "1234"},
		{"１０００", "1000"},
		{"0", "0"},
		{"¥1,980", "1980"},
		{"abc", ""},
		{"", ""},
		{"12三45", "1245"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeNumericInput(tt.in); got != tt.want {
				t.Errorf("SanitizeNumericInput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
