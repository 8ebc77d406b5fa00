package pipeline

import "math"

// Vignette darkens (strength > 0) or brightens (strength < 0) pixels by
// their distance from the image center. strength is the slider value in
// [-100, 100].
//
// Each pixel's RGB is multiplied by 1 - d²·strength/100, where d is the
// distance to the center divided by the half-diagonal, so a corner pixel
// has d = 1. Alpha is not touched.
func Vignette(pix []uint8, w, h int, strength float64) {
	if strength == 0 || w <= 0 || h <= 0 || len(pix) < w*h*4 {
		return
	}
	cx := float64(w) / 2
	cy := float64(h) / 2
	maxDist := math.Sqrt(cx*cx + cy*cy)
	s := strength / 100

	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		row := pix[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			d := math.Sqrt(dx*dx+dy*dy) / maxDist
			f := 1 - d*d*s

			i := x * 4
			row[i] = store(float64(row[i]) * f)
			row[i+1] = store(float64(row[i+1]) * f)
			row[i+2] = store(float64(row[i+2]) * f)
		}
	}
}
