// Package color provides the color math shared by the grading pipeline:
// hue band classification, RGB <-> HSL conversion on the 0-255 scale,
// hex color parsing and luma weighting.
package color

// RGB is a color with float64 components on the 0-255 scale.
// Components may leave that range between pipeline stages.
type RGB struct {
	R, G, B float64
}

// Luma weights used by the gray-based saturation stage.
const (
	LumaR = 0.2989
	LumaG = 0.587
	LumaB = 0.114
)

// Luma returns the weighted gray value of r, g, b.
func Luma(r, g, b float64) float64 {
	return LumaR*r + LumaG*g + LumaB*b
}
