package pipeline

import (
	"math"

	"github.com/gogpu/grade/curve"
	"github.com/gogpu/grade/internal/color"
	"github.com/gogpu/grade/internal/filter"
)

// Stage constants.
const (
	mid = 128.0

	temperatureScale = 0.5
	tintScale        = 0.3

	highlightShadowPush = 30.0
	whiteBlackPush      = 20.0
	whitesThreshold     = 200.0
	blacksThreshold     = 50.0

	splitToneDamping = 0.3

	paletteSaturation = 0.7
	paletteLightness  = 0.5
	paletteDivisor    = 500.0

	presetTintMix = 0.1

	dehazeScale = 0.5
)

// Noise supplies uniform random values in [0, 1) for the grain stage.
// *rand.Rand from math/rand/v2 satisfies it.
type Noise interface {
	Float64() float64
}

// Render copies src, grades the copy and returns it. src is never modified.
// A src shorter than w*h*4 bytes, or a non-positive size, yields an empty
// result.
func Render(src []uint8, w, h int, p *Params, lut *curve.LUT, n Noise) []uint8 {
	if w <= 0 || h <= 0 || len(src) < w*h*4 {
		return []uint8{}
	}
	out := make([]uint8, w*h*4)
	copy(out, src)
	Apply(out, w, h, p, lut, n)
	return out
}

// Apply grades pix in place: the per-pixel stages over every pixel, then
// sharpen and vignette. lut may be nil, meaning identity curves. n may be
// nil when p.Grain is zero.
func Apply(pix []uint8, w, h int, p *Params, lut *curve.LUT, n Noise) {
	if w <= 0 || h <= 0 || len(pix) < w*h*4 {
		return
	}
	pix = pix[:w*h*4]

	k := newKernel(p, lut, n)
	for i := 0; i < len(pix); i += 4 {
		r, g, b := k.pixel(pix[i], pix[i+1], pix[i+2])
		pix[i] = store(r)
		pix[i+1] = store(g)
		pix[i+2] = store(b)
	}

	if p.Sharpen > 0 {
		filter.Sharpen(pix, w, h, p.Sharpen/100)
	}
	if p.Vignette != 0 {
		Vignette(pix, w, h, p.Vignette)
	}
}

// kernel holds the per-render constants derived from Params.
type kernel struct {
	p     *Params
	lut   *curve.LUT
	noise Noise

	exposure   float64
	contrast   float64
	hsl        bool
	needHSL    bool
	splitTone  bool
	balance    float64
	palette    color.RGB
	paletteMix float64
	intensity  float64
}

func newKernel(p *Params, lut *curve.LUT, n Noise) *kernel {
	k := &kernel{p: p, lut: lut, noise: n}
	if lut != nil && lut.IsIdentity() {
		k.lut = nil
	}
	if p.Exposure != 0 {
		k.exposure = math.Pow(2, p.Exposure/100)
	}
	if p.Contrast != 0 {
		k.contrast = (259 * (p.Contrast + 255)) / (255 * (259 - p.Contrast))
	}
	k.hsl = p.hslActive()
	k.needHSL = k.hsl || p.Vibrance != 0
	k.splitTone = p.HighlightTone != 0 || p.ShadowTone != 0
	k.balance = (p.ToneBalance + 100) / 200
	if p.PaletteSat > 0 {
		r, g, b := color.FromHSL(p.PaletteHue, paletteSaturation, paletteLightness)
		k.palette = color.RGB{R: r, G: g, B: b}
		k.paletteMix = p.PaletteSat / paletteDivisor
	}
	if p.Preset != nil {
		k.intensity = p.Intensity / 100
	}
	if k.noise == nil {
		k.noise = zeroNoise{}
	}
	return k
}

// pixel runs stages 1 through 15 on one pixel. Results are unclamped.
func (k *kernel) pixel(r8, g8, b8 uint8) (r, g, b float64) {
	p := k.p

	// 1. Curves: per-channel, then master.
	if k.lut != nil {
		r8, g8, b8 = k.lut.Apply(r8, g8, b8)
	}
	r, g, b = float64(r8), float64(g8), float64(b8)

	// 2. Exposure.
	if p.Exposure != 0 {
		r *= k.exposure
		g *= k.exposure
		b *= k.exposure
	}

	// 3. Contrast.
	if p.Contrast != 0 {
		r = k.contrast*(r-mid) + mid
		g = k.contrast*(g-mid) + mid
		b = k.contrast*(b-mid) + mid
	}

	// 4. White balance.
	if p.Temperature != 0 {
		r += p.Temperature * temperatureScale
		b -= p.Temperature * temperatureScale
	}
	if p.Tint != 0 {
		g += p.Tint * tintScale
	}

	// 5. Highlights and shadows. lum is reused by split toning.
	lum := (r + g + b) / 3
	if p.Highlights != 0 && lum > mid {
		f := (lum - mid) / 127 * (p.Highlights / 100) * highlightShadowPush
		r, g, b = r+f, g+f, b+f
	}
	if p.Shadows != 0 && lum < mid {
		f := (mid - lum) / mid * (p.Shadows / 100) * highlightShadowPush
		r, g, b = r+f, g+f, b+f
	}

	// 6. Whites and blacks.
	if p.Whites != 0 && lum > whitesThreshold {
		f := (lum - whitesThreshold) / (255 - whitesThreshold) * (p.Whites / 100) * whiteBlackPush
		r, g, b = r+f, g+f, b+f
	}
	if p.Blacks != 0 && lum < blacksThreshold {
		f := (blacksThreshold - lum) / blacksThreshold * (p.Blacks / 100) * whiteBlackPush
		r, g, b = r+f, g+f, b+f
	}

	// 7. Selective HSL.
	var s float64
	if k.needHSL {
		var h, l float64
		h, s, l = color.ToHSL(r, g, b)
		if k.hsl {
			if shift := p.HSL[color.Classify(h)]; !shift.IsZero() {
				h += shift.Hue
				s = clamp(s+shift.Sat/100, 0, 1)
				l = clamp(l+shift.Lum/200, 0, 1)
				r, g, b = color.FromHSL(h, s, l)
			}
		}
	}

	// 8. Vibrance.
	if p.Vibrance != 0 {
		avg := (r + g + b) / 3
		f := (1 - s*s) * (p.Vibrance / 100)
		r += (r - avg) * f
		g += (g - avg) * f
		b += (b - avg) * f
	}

	// 9. Saturation.
	if p.Saturation != 0 {
		r, g, b = saturate(r, g, b, color.Luma(r, g, b), 1+p.Saturation/100)
	}

	// 10. Split toning.
	if k.splitTone {
		r, g, b = k.splitToning(r, g, b, lum)
	}

	// 11. Palette influence.
	if k.paletteMix > 0 {
		r, g, b = mix(r, g, b, k.palette, k.paletteMix)
	}

	// 12. Preset blend.
	if p.Preset != nil && k.intensity > 0 {
		pr, pg, pb := p.Preset.grade(r, g, b)
		i := k.intensity
		r = r*(1-i) + pr*i
		g = g*(1-i) + pg*i
		b = b*(1-i) + pb*i
	}

	// 13. Dehaze.
	if p.Dehaze != 0 {
		f := p.Dehaze / 100 * dehazeScale
		r += (r - mid) * f
		g += (g - mid) * f
		b += (b - mid) * f
	}

	// 14. Clarity: a global midpoint push, not a local-contrast operator.
	if p.Clarity != 0 {
		f := p.Clarity / 200
		r += (r - mid) * f
		g += (g - mid) * f
		b += (b - mid) * f
	}

	// 15. Grain, identical on all channels.
	if p.Grain > 0 {
		n := (k.noise.Float64() - 0.5) * p.Grain * 2
		r, g, b = r+n, g+n, b+n
	}

	return r, g, b
}

func (k *kernel) splitToning(r, g, b, lum float64) (float64, float64, float64) {
	p := k.p
	norm := lum / 255
	bal := k.balance
	if p.HighlightTone != 0 && norm > bal && bal < 1 {
		blend := (norm - bal) / (1 - bal) * (p.HighlightTone / 100)
		r, g, b = mix(r, g, b, p.HighlightColor, blend*splitToneDamping)
	}
	if p.ShadowTone != 0 && norm < bal && bal > 0 {
		blend := (bal - norm) / bal * (p.ShadowTone / 100)
		r, g, b = mix(r, g, b, p.ShadowColor, blend*splitToneDamping)
	}
	return r, g, b
}

// grade applies the preset's own tint, contrast and saturation.
func (pg *PresetGrade) grade(r, g, b float64) (float64, float64, float64) {
	if pg.Tint != nil {
		r, g, b = mix(r, g, b, *pg.Tint, presetTintMix)
	}
	if pg.Contrast != 0 {
		f := 1 + pg.Contrast/100
		r = (r-mid)*f + mid
		g = (g-mid)*f + mid
		b = (b-mid)*f + mid
	}
	if pg.Saturation != 0 {
		gray := 0.299*r + 0.587*g + 0.114*b
		r, g, b = saturate(r, g, b, gray, 1+pg.Saturation/100)
	}
	return r, g, b
}

func saturate(r, g, b, gray, amount float64) (float64, float64, float64) {
	return gray + amount*(r-gray), gray + amount*(g-gray), gray + amount*(b-gray)
}

// mix moves r, g, b toward c by t in [0, 1].
func mix(r, g, b float64, c color.RGB, t float64) (float64, float64, float64) {
	return r*(1-t) + c.R*t, g*(1-t) + c.G*t, b*(1-t) + c.B*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// store clamps v to [0, 255] and rounds it to the nearest byte value.
func store(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

type zeroNoise struct{}

func (zeroNoise) Float64() float64 { return 0.5 }
