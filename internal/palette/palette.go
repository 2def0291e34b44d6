// Package palette picks legible text colors for colored event chips.
package palette

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Black = "#000000"
	White = "#FFFFFF"
)

// Luminance returns the perceived brightness of a #RRGGBB color in [0,1]
// using the 0.299/0.587/0.114 RGB weights.
func Luminance(hex string) (float64, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return 0, err
	}
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255, nil
}

// TextColor returns black text for light backgrounds (luminance > 0.5) and
// white text otherwise. Unparsable colors get white text.
func TextColor(hex string) string {
	l, err := Luminance(hex)
	if err != nil || l <= 0.5 {
		return White
	}
	return Black
}

func parseHex(hex string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("palette: %q is not #RRGGBB", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("palette: %q is not #RRGGBB: %w", hex, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
