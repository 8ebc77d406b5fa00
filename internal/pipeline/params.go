// Package pipeline implements the ordered per-pixel grading transform and
// the spatial passes that run after it.
//
// The pipeline works on a flattened, numeric form of the user-facing
// adjustment state (Params). All per-pixel math is float64 on the 0-255
// scale; values are clamped and rounded only when written back.
package pipeline

import "github.com/gogpu/grade/internal/color"

// Shift is a selective color edit for one hue band.
// Hue is in degrees, Sat and Lum in [-100, 100].
type Shift struct {
	Hue, Sat, Lum float64
}

// IsZero reports whether the shift is a no-op.
func (s Shift) IsZero() bool {
	return s.Hue == 0 && s.Sat == 0 && s.Lum == 0
}

// PresetGrade is the per-pixel sub-grade carried by an active preset.
type PresetGrade struct {
	// Tint is mixed in at 10% when non-nil.
	Tint *color.RGB

	// Contrast and Saturation are percentages, 0 meaning unchanged.
	Contrast   float64
	Saturation float64
}

// Params holds every numeric input of the pipeline.
type Params struct {
	Exposure   float64
	Contrast   float64
	Highlights float64
	Shadows    float64
	Whites     float64
	Blacks     float64

	Temperature float64
	Tint        float64
	Vibrance    float64
	Saturation  float64

	Clarity  float64
	Dehaze   float64
	Sharpen  float64
	Vignette float64
	Grain    float64

	HSL [color.NumBands]Shift

	HighlightColor color.RGB
	ShadowColor    color.RGB
	HighlightTone  float64
	ShadowTone     float64
	ToneBalance    float64

	PaletteHue float64
	PaletteSat float64

	// Preset is nil when no preset is active.
	Preset    *PresetGrade
	Intensity float64
}

// Neutral returns parameters under which the pipeline is an identity.
func Neutral() Params {
	return Params{
		HighlightColor: color.RGB{R: 255, G: 170, B: 0},
		ShadowColor:    color.RGB{R: 0, G: 102, B: 255},
		Intensity:      100,
	}
}

func (p *Params) hslActive() bool {
	for _, s := range p.HSL {
		if !s.IsZero() {
			return true
		}
	}
	return false
}
