package pipeline

import (
	"math/rand/v2"
	"testing"

	"github.com/gogpu/grade/curve"
	"github.com/gogpu/grade/internal/color"
)

// fixedNoise always returns the same uniform sample.
type fixedNoise float64

func (n fixedNoise) Float64() float64 { return float64(n) }

func randomPixels(w, h int, seed uint64) []uint8 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pix := make([]uint8, w*h*4)
	for i := range pix {
		pix[i] = uint8(rng.IntN(256))
	}
	return pix
}

func onePixel(r, g, b, a uint8) []uint8 {
	return []uint8{r, g, b, a}
}

func renderPixel(t *testing.T, p Params, lut *curve.LUT, n Noise, in []uint8) [4]uint8 {
	t.Helper()
	out := Render(in, 1, 1, &p, lut, n)
	if len(out) != 4 {
		t.Fatalf("Render() len = %d, want 4", len(out))
	}
	return [4]uint8{out[0], out[1], out[2], out[3]}
}

func TestRenderNeutralIsIdentity(t *testing.T) {
	w, h := 17, 11
	src := randomPixels(w, h, 1)
	p := Neutral()

	for _, lut := range []*curve.LUT{nil, curve.Identity()} {
		out := Render(src, w, h, &p, lut, nil)
		for i := range src {
			if out[i] != src[i] {
				t.Fatalf("byte %d = %d, want %d", i, out[i], src[i])
			}
		}
	}
}

func TestRenderDoesNotMutateSource(t *testing.T) {
	w, h := 4, 4
	src := randomPixels(w, h, 2)
	orig := append([]uint8(nil), src...)

	p := Neutral()
	p.Exposure = 80
	p.Vignette = 50
	p.Sharpen = 40
	_ = Render(src, w, h, &p, nil, nil)

	for i := range src {
		if src[i] != orig[i] {
			t.Fatalf("source byte %d changed: %d -> %d", i, orig[i], src[i])
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	p := Neutral()
	tests := []struct {
		name string
		src  []uint8
		w, h int
	}{
		{"zero size", nil, 0, 0},
		{"negative", make([]uint8, 16), -2, 2},
		{"undersized", make([]uint8, 12), 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.src, tt.w, tt.h, &p, nil, nil)
			if out == nil || len(out) != 0 {
				t.Errorf("Render() = %v, want empty non-nil slice", out)
			}
		})
	}
}

func TestSaturationMinusHundredIsGray(t *testing.T) {
	p := Neutral()
	p.Saturation = -100
	got := renderPixel(t, p, nil, nil, onePixel(200, 150, 100, 255))

	want := uint8(color.Luma(200, 150, 100) + 0.5)
	if got[0] != got[1] || got[1] != got[2] {
		t.Errorf("pixel = %v, want achromatic", got)
	}
	if got[0] != want {
		t.Errorf("gray = %d, want %d", got[0], want)
	}
	if got[0] < 158 || got[0] > 161 {
		t.Errorf("gray = %d, want ≈160", got[0])
	}
}

func TestStages(t *testing.T) {
	tests := []struct {
		name string
		set  func(p *Params)
		in   []uint8
		want [4]uint8
	}{
		{"exposure doubles", func(p *Params) { p.Exposure = 100 }, onePixel(50, 100, 120, 255), [4]uint8{100, 200, 240, 255}},
		{"exposure halves", func(p *Params) { p.Exposure = -100 }, onePixel(50, 100, 120, 255), [4]uint8{25, 50, 60, 255}},
		{"exposure clamps", func(p *Params) { p.Exposure = 100 }, onePixel(200, 10, 0, 255), [4]uint8{255, 20, 0, 255}},
		{"contrast keeps midpoint", func(p *Params) { p.Contrast = 60 }, onePixel(128, 128, 128, 255), [4]uint8{128, 128, 128, 255}},
		{"contrast -100 flattens toward 128", func(p *Params) { p.Contrast = -100 }, onePixel(0, 255, 128, 255), [4]uint8{72, 184, 128, 255}},
		{"warm temperature", func(p *Params) { p.Temperature = 100 }, onePixel(100, 100, 100, 255), [4]uint8{150, 100, 50, 255}},
		{"tint", func(p *Params) { p.Tint = -100 }, onePixel(100, 100, 100, 255), [4]uint8{100, 70, 100, 255}},
		{"highlights on bright", func(p *Params) { p.Highlights = 100 }, onePixel(255, 255, 255, 255), [4]uint8{255, 255, 255, 255}},
		{"highlights ignore dark", func(p *Params) { p.Highlights = 100 }, onePixel(40, 40, 40, 255), [4]uint8{40, 40, 40, 255}},
		{"shadows lift black", func(p *Params) { p.Shadows = 100 }, onePixel(0, 0, 0, 255), [4]uint8{30, 30, 30, 255}},
		{"blacks lift black", func(p *Params) { p.Blacks = 100 }, onePixel(0, 0, 0, 255), [4]uint8{20, 20, 20, 255}},
		{"whites darken", func(p *Params) { p.Whites = -100 }, onePixel(255, 255, 255, 255), [4]uint8{235, 235, 235, 255}},
		{"dehaze pushes away from mid", func(p *Params) { p.Dehaze = 100 }, onePixel(28, 128, 228, 255), [4]uint8{0, 128, 255, 255}},
		{"clarity pushes away from mid", func(p *Params) { p.Clarity = 100 }, onePixel(28, 128, 228, 255), [4]uint8{0, 128, 255, 255}},
		{"clarity negative", func(p *Params) { p.Clarity = -100 }, onePixel(28, 128, 228, 255), [4]uint8{78, 128, 178, 255}},
		{"alpha preserved", func(p *Params) { p.Exposure = 50; p.Saturation = 30 }, onePixel(10, 20, 30, 77), [4]uint8{14, 28, 43, 77}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Neutral()
			tt.set(&p)
			got := renderPixel(t, p, nil, nil, tt.in)
			if tt.name == "alpha preserved" {
				if got[3] != 77 {
					t.Errorf("alpha = %d, want 77", got[3])
				}
				return
			}
			if got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurvesAppliedFirst(t *testing.T) {
	ch := curve.DefaultChannels()
	ch.Red = []curve.Point{{0, 255}, {255, 0}}
	lut, err := curve.Build(ch)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p := Neutral()
	p.Exposure = -100
	got := renderPixel(t, p, lut, nil, onePixel(55, 100, 200, 255))
	// Red is inverted to 200 before exposure halves it.
	if want := ([4]uint8{100, 50, 100, 255}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestSelectiveHSL(t *testing.T) {
	p := Neutral()
	p.HSL[color.Red] = Shift{Hue: 120}
	got := renderPixel(t, p, nil, nil, onePixel(255, 0, 0, 255))
	if want := ([4]uint8{0, 255, 0, 255}); got != want {
		t.Errorf("red shifted by 120° = %v, want %v", got, want)
	}

	// A blue pixel is outside the red band and stays put.
	got = renderPixel(t, p, nil, nil, onePixel(0, 0, 255, 255))
	if want := ([4]uint8{0, 0, 255, 255}); got != want {
		t.Errorf("blue pixel = %v, want %v", got, want)
	}

	p = Neutral()
	p.HSL[color.Blue] = Shift{Sat: -100}
	got = renderPixel(t, p, nil, nil, onePixel(0, 0, 255, 255))
	if got[0] != got[1] || got[1] != got[2] {
		t.Errorf("desaturated blue = %v, want gray", got)
	}

	p = Neutral()
	p.HSL[color.Green] = Shift{Lum: 100}
	got = renderPixel(t, p, nil, nil, onePixel(0, 255, 0, 255))
	// Lightness 0.5 + 0.5 = 1 is white.
	if want := ([4]uint8{255, 255, 255, 255}); got != want {
		t.Errorf("lightened green = %v, want %v", got, want)
	}
}

func TestVibranceWeightsLowSaturation(t *testing.T) {
	p := Neutral()
	p.Vibrance = 100

	// Fully saturated pixels are untouched.
	got := renderPixel(t, p, nil, nil, onePixel(255, 0, 0, 255))
	if want := ([4]uint8{255, 0, 0, 255}); got != want {
		t.Errorf("saturated pixel = %v, want %v", got, want)
	}

	// Muted pixels move away from their mean.
	got = renderPixel(t, p, nil, nil, onePixel(140, 120, 100, 255))
	if got[0] <= 140 || got[2] >= 100 {
		t.Errorf("muted pixel = %v, want spread beyond (140,_,100)", got)
	}
}

func TestSplitToning(t *testing.T) {
	p := Neutral()
	p.HighlightTone = 100
	p.HighlightColor = color.RGB{R: 255, G: 0, B: 0}

	// lumNorm 0.784, balance 0.5: mix ≈0.1706 toward red.
	got := renderPixel(t, p, nil, nil, onePixel(200, 200, 200, 255))
	if want := ([4]uint8{209, 166, 166, 255}); got != want {
		t.Errorf("toned highlight = %v, want %v", got, want)
	}

	// Shadows are untouched by the highlight tone.
	got = renderPixel(t, p, nil, nil, onePixel(20, 20, 20, 255))
	if want := ([4]uint8{20, 20, 20, 255}); got != want {
		t.Errorf("shadow = %v, want %v", got, want)
	}

	p = Neutral()
	p.ShadowTone = 100
	p.ShadowColor = color.RGB{R: 0, G: 0, B: 255}
	// lumNorm 0.078: mix ≈0.2529 toward blue.
	got = renderPixel(t, p, nil, nil, onePixel(20, 20, 20, 255))
	if want := ([4]uint8{15, 15, 79, 255}); got != want {
		t.Errorf("toned shadow = %v, want %v", got, want)
	}
}

func TestSplitToningExtremeBalance(t *testing.T) {
	p := Neutral()
	p.HighlightTone = 100
	p.ShadowTone = 100
	p.ToneBalance = 100
	p.Exposure = 100

	// lumNorm exceeds 1 after exposure; the highlight blend must not divide
	// by zero at balance 1.
	got := renderPixel(t, p, nil, nil, onePixel(250, 250, 250, 255))
	if want := ([4]uint8{255, 255, 255, 255}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}

	p.ToneBalance = -100
	p.Exposure = -100
	got = renderPixel(t, p, nil, nil, onePixel(0, 0, 0, 255))
	if got[3] != 255 {
		t.Errorf("alpha = %d", got[3])
	}
}

func TestPaletteInfluence(t *testing.T) {
	p := Neutral()
	p.PaletteHue = 240
	p.PaletteSat = 100

	got := renderPixel(t, p, nil, nil, onePixel(128, 128, 128, 255))
	// 20% toward HSL(240, 0.7, 0.5) = (38.25, 38.25, 216.75).
	want := [4]uint8{110, 110, 146, 255}
	if got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}

	p.PaletteSat = 0
	got = renderPixel(t, p, nil, nil, onePixel(128, 128, 128, 255))
	if want := ([4]uint8{128, 128, 128, 255}); got != want {
		t.Errorf("zero palette = %v, want %v", got, want)
	}
}

func TestPresetBlend(t *testing.T) {
	grade := &PresetGrade{Saturation: -100}
	in := onePixel(200, 100, 50, 255)

	p := Neutral()
	p.Preset = grade
	p.Intensity = 100
	got := renderPixel(t, p, nil, nil, in)
	if got[0] != got[1] || got[1] != got[2] {
		t.Errorf("full intensity = %v, want gray", got)
	}

	p.Intensity = 0
	got = renderPixel(t, p, nil, nil, in)
	if want := ([4]uint8{200, 100, 50, 255}); got != want {
		t.Errorf("zero intensity = %v, want %v", got, want)
	}

	p.Intensity = 50
	got = renderPixel(t, p, nil, nil, in)
	// gray = 0.299*200 + 0.587*100 + 0.114*50 = 124.2
	if want := ([4]uint8{162, 112, 87, 255}); got != want {
		t.Errorf("half intensity = %v, want %v", got, want)
	}
}

func TestPresetTintAndContrast(t *testing.T) {
	tint := color.RGB{R: 255, G: 0, B: 0}
	p := Neutral()
	p.Preset = &PresetGrade{Tint: &tint, Contrast: 100}

	got := renderPixel(t, p, nil, nil, onePixel(128, 128, 128, 255))
	// Tint: 128*0.9 + 255*0.1 = 140.7, 115.2; contrast doubles distance to 128.
	if want := ([4]uint8{153, 102, 102, 255}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestGrainSameOnAllChannels(t *testing.T) {
	p := Neutral()
	p.Grain = 20

	got := renderPixel(t, p, nil, fixedNoise(0.75), onePixel(100, 110, 120, 255))
	if want := ([4]uint8{110, 120, 130, 255}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}

	got = renderPixel(t, p, nil, fixedNoise(0), onePixel(100, 110, 120, 255))
	if want := ([4]uint8{80, 90, 100, 255}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestGrainBounded(t *testing.T) {
	w, h := 32, 32
	src := make([]uint8, w*h*4)
	for i := range src {
		src[i] = 128
	}
	p := Neutral()
	p.Grain = 10
	rng := rand.New(rand.NewPCG(7, 11))
	out := Render(src, w, h, &p, nil, rng)

	varied := false
	for i := 0; i < len(out); i += 4 {
		if out[i] != out[i+1] || out[i+1] != out[i+2] {
			t.Fatalf("pixel %d = %v, grain must be luminance-only", i/4, out[i:i+3])
		}
		if out[i] < 118 || out[i] > 138 {
			t.Fatalf("pixel %d = %d, want within ±10 of 128", i/4, out[i])
		}
		if out[i] != 128 {
			varied = true
		}
	}
	if !varied {
		t.Error("grain produced no variation")
	}
}
