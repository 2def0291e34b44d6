package palette_test

import (
	"math"
	"testing"

	"studycal/internal/palette"
)

func TestLuminance(t *testing.T) {
	tests := []struct {
		hex  string
		want float64
	}{
		{"#FFFFFF", 1},
		{"#000000", 0},
		{"#ff0000", 0.299},
		{"#00FF00", 0.587},
		{"#0000ff", 0.114},
	}
	for _, tt := range tests {
		got, err := palette.Luminance(tt.hex)
		if err != nil {
			t.Fatalf("Luminance(%q) error = %v", tt.hex, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Luminance(%q) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestTextColor(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want string
	}{
		{name: "White background", hex: "#FFFFFF", want: palette.Black},
		{name: "Black background", hex: "#000000", want: palette.White},
		{name: "Default chip orange", hex: "#FF5733", want: palette.Black},
		{name: "Navy", hex: "#1E3A8A", want: palette.White},
		{name: "Yellow", hex: "#FFFF00", want: palette.Black},
		{name: "Mid grey just below half", hex: "#7F7F7F", want: palette.White},
		{name: "Malformed", hex: "orange", want: palette.White},
		{name: "Short form unsupported", hex: "#FFF", want: palette.White},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := palette.TextColor(tt.hex); got != tt.want {
				t.Errorf("TextColor(%q) = %s, want %s", tt.hex, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := map[string]bool{
		"#FF5733": true,
		"#ff5733": true,
		"FF5733":  false,
		"#FFF":    false,
		"#0;x:y":  false,
		"#GG0000": false,
		"":        false,
	}
	for in, want := range tests {
		if got := palette.Valid(in); got != want {
			t.Errorf("Valid(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"#1e3a8a", "#1E3A8A", true},
		{"navy", "#000080", true},
		{" Tomato ", "#FF6347", true},
		{"notacolor", "", false},
		{"#12", "", false},
	}
	for _, tt := range tests {
		got, ok := palette.Normalize(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Normalize(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestName(t *testing.T) {
	tests := map[string]string{
		"#FF0000": "red",
		"#00ff00": "lime",
		"#000080": "navy",
		"#FEFEFE": "white",
		// aqua and cyan share #00FFFF.
		"#00FFFF": "aqua",
	}
	for in, want := range tests {
		got, err := palette.Name(in)
		if err != nil {
			t.Fatalf("Name(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("Name(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := palette.Name("blue"); err == nil {
		t.Error("Name accepted a non-hex color")
	}
}
