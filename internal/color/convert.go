package color

import (
	"errors"
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned when a hex color string cannot be parsed.
var ErrInvalidHex = errors.New("color: invalid hex color")

// ToHSL converts r, g, b on the 0-255 scale to hue in degrees [0, 360),
// saturation and lightness in [0, 1].
func ToHSL(r, g, b float64) (h, s, l float64) {
	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Hsl()
}

// FromHSL converts hue in degrees (any value, wrapped), saturation and
// lightness in [0, 1] to r, g, b on the 0-255 scale.
func FromHSL(h, s, l float64) (r, g, b float64) {
	c := colorful.Hsl(NormalizeHue(h), s, l)
	return c.R * 255, c.G * 255, c.B * 255
}

// NormalizeHue wraps h into [0, 360).
func NormalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// ParseHex parses "#rrggbb" or "#rgb" (the leading '#' is optional).
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return RGB{R: math.Round(c.R * 255), G: math.Round(c.G * 255), B: math.Round(c.B * 255)}, nil
}

// Hex formats c as "#rrggbb", clamping each component to [0, 255].
func (c RGB) Hex() string {
	return colorful.Color{R: clamp01(c.R / 255), G: clamp01(c.G / 255), B: clamp01(c.B / 255)}.Hex()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
