package grade

import (
	"math"
	"slices"
)

// Range is the allowed interval of a slider and its neutral value.
type Range struct {
	Min, Max, Neutral float64
}

// Clamp limits v to [r.Min, r.Max]. NaN becomes r.Neutral.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Neutral
	}
	return min(max(v, r.Min), r.Max)
}

var (
	bipolar  = Range{Min: -100, Max: 100}
	unipolar = Range{Min: 0, Max: 100}

	// HueShiftRange bounds HSLShift.Hue, in degrees.
	HueShiftRange = Range{Min: -180, Max: 180}
	// ShiftRange bounds HSLShift.Sat and HSLShift.Lum.
	ShiftRange = bipolar
)

// slider binds a JSON parameter name to its field and range.
type slider struct {
	name  string
	rng   Range
	field func(*AdjustmentState) *float64
}

var sliders = []slider{
	{"exposure", bipolar, func(s *AdjustmentState) *float64 { return &s.Exposure }},
	{"contrast", bipolar, func(s *AdjustmentState) *float64 { return &s.Contrast }},
	{"highlights", bipolar, func(s *AdjustmentState) *float64 { return &s.Highlights }},
	{"shadows", bipolar, func(s *AdjustmentState) *float64 { return &s.Shadows }},
	{"whites", bipolar, func(s *AdjustmentState) *float64 { return &s.Whites }},
	{"blacks", bipolar, func(s *AdjustmentState) *float64 { return &s.Blacks }},
	{"temperature", bipolar, func(s *AdjustmentState) *float64 { return &s.Temperature }},
	{"tint", bipolar, func(s *AdjustmentState) *float64 { return &s.Tint }},
	{"vibrance", bipolar, func(s *AdjustmentState) *float64 { return &s.Vibrance }},
	{"saturation", bipolar, func(s *AdjustmentState) *float64 { return &s.Saturation }},
	{"clarity", bipolar, func(s *AdjustmentState) *float64 { return &s.Clarity }},
	{"dehaze", bipolar, func(s *AdjustmentState) *float64 { return &s.Dehaze }},
	{"sharpen", unipolar, func(s *AdjustmentState) *float64 { return &s.Sharpen }},
	{"vignette", bipolar, func(s *AdjustmentState) *float64 { return &s.Vignette }},
	{"grain", unipolar, func(s *AdjustmentState) *float64 { return &s.Grain }},
	{"highlightTone", unipolar, func(s *AdjustmentState) *float64 { return &s.HighlightTone }},
	{"shadowTone", unipolar, func(s *AdjustmentState) *float64 { return &s.ShadowTone }},
	{"toneBalance", bipolar, func(s *AdjustmentState) *float64 { return &s.ToneBalance }},
	{"paletteHue", Range{Min: 0, Max: 360}, func(s *AdjustmentState) *float64 { return &s.PaletteHue }},
	{"paletteSat", unipolar, func(s *AdjustmentState) *float64 { return &s.PaletteSat }},
	{"wheelLightness", Range{Min: 0, Max: 100, Neutral: 50}, func(s *AdjustmentState) *float64 { return &s.WheelLightness }},
	{"intensity", Range{Min: 0, Max: 100, Neutral: 100}, func(s *AdjustmentState) *float64 { return &s.Intensity }},
}

// basicSliders are the sliders cleared by ResetBasic.
var basicSliders = []string{
	"exposure", "contrast", "highlights", "shadows", "whites", "blacks",
	"temperature", "tint", "vibrance", "saturation",
	"clarity", "dehaze", "sharpen", "vignette", "grain",
}

var sliderIndex = func() map[string]*slider {
	m := make(map[string]*slider, len(sliders))
	for i := range sliders {
		m[sliders[i].name] = &sliders[i]
	}
	return m
}()

// SliderRange returns the range of the named slider parameter.
func SliderRange(name string) (Range, bool) {
	s, ok := sliderIndex[name]
	if !ok {
		return Range{}, false
	}
	return s.rng, true
}

// SliderNames returns the JSON names of all slider parameters, sorted.
func SliderNames() []string {
	names := make([]string, len(sliders))
	for i, s := range sliders {
		names[i] = s.name
	}
	slices.Sort(names)
	return names
}
