package filter

// SharpenSigma is the blur radius of the unsharp mask.
const SharpenSigma = 1.0

// Sharpen applies an unsharp mask to the RGB channels of pix in place:
// out = src + amount·(src − blur(src)). amount is in [0, 1]; zero or a
// buffer smaller than w*h*4 leaves pix unchanged.
func Sharpen(pix []uint8, w, h int, amount float64) {
	if amount <= 0 || w <= 0 || h <= 0 || len(pix) < w*h*4 {
		return
	}
	blurred := make([]float32, w*h*3)
	Blur(pix, w, h, SharpenSigma, blurred)

	a := float32(amount)
	for p := 0; p < w*h; p++ {
		i, j := p*4, p*3
		for c := 0; c < 3; c++ {
			v := float32(pix[i+c])
			pix[i+c] = clampUint8(v + a*(v-blurred[j+c]))
		}
	}
}
