package palette

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"
)

// Valid reports whether c is a #RRGGBB color.
func Valid(c string) bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	_, _, _, err := parseHex(c)
	return err == nil
}

// Normalize accepts #RRGGBB (any case) or a CSS color name and returns the
// upper-case #RRGGBB form.
func Normalize(c string) (string, bool) {
	c = strings.TrimSpace(c)
	if Valid(c) {
		return strings.ToUpper(c), true
	}
	rgba, ok := colornames.Map[strings.ToLower(c)]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("#%02X%02X%02X", rgba.R, rgba.G, rgba.B), true
}

// Name returns the CSS color name closest to a #RRGGBB color. Ties go to the
// alphabetically first name.
func Name(hex string) (string, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return "", err
	}

	best, bestDist := "", -1
	for _, name := range colornames.Names {
		c := colornames.Map[name]
		dr, dg, db := int(c.R)-int(r), int(c.G)-int(g), int(c.B)-int(b)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = name, d
		}
	}
	return best, nil
}
