package grade

import (
	"errors"
	"fmt"
	"maps"

	"github.com/gogpu/grade/curve"
	"github.com/gogpu/grade/internal/color"
	"github.com/gogpu/grade/internal/pipeline"
)

// Default split-toning colors.
const (
	DefaultHighlightColor = "#ffaa00"
	DefaultShadowColor    = "#0066ff"
)

// Errors returned by AdjustmentState.Validate.
var (
	// ErrUnknownBand is returned for an HSL key that names no hue band.
	ErrUnknownBand = errors.New("grade: unknown hsl band")

	// ErrInvalidColor is returned for a color field that is not a hex color.
	ErrInvalidColor = errors.New("grade: invalid color")
)

// HSLShift is a selective edit of one hue band.
type HSLShift struct {
	Hue float64 `json:"hue"` // degrees, [-180, 180]
	Sat float64 `json:"sat"` // [-100, 100]
	Lum float64 `json:"lum"` // [-100, 100]
}

// IsZero reports whether the shift changes nothing.
func (s HSLShift) IsZero() bool {
	return s.Hue == 0 && s.Sat == 0 && s.Lum == 0
}

// AdjustmentState is the complete set of user-tunable grading parameters.
// The JSON form matches the editor's saved adjustment files.
type AdjustmentState struct {
	Exposure   float64 `json:"exposure"`
	Contrast   float64 `json:"contrast"`
	Highlights float64 `json:"highlights"`
	Shadows    float64 `json:"shadows"`
	Whites     float64 `json:"whites"`
	Blacks     float64 `json:"blacks"`

	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"tint"`
	Vibrance    float64 `json:"vibrance"`
	Saturation  float64 `json:"saturation"`

	Clarity  float64 `json:"clarity"`
	Dehaze   float64 `json:"dehaze"`
	Sharpen  float64 `json:"sharpen"`
	Vignette float64 `json:"vignette"`
	Grain    float64 `json:"grain"`

	// HSL is keyed by band name (red, orange, yellow, green, cyan, blue,
	// purple, magenta). A missing key means no shift.
	HSL map[string]HSLShift `json:"hsl"`

	Curves curve.Channels `json:"curves"`

	HighlightColor string  `json:"highlightColor"`
	ShadowColor    string  `json:"shadowColor"`
	HighlightTone  float64 `json:"highlightTone"`
	ShadowTone     float64 `json:"shadowTone"`
	ToneBalance    float64 `json:"toneBalance"`

	PaletteHue     float64 `json:"paletteHue"`
	PaletteSat     float64 `json:"paletteSat"`
	WheelLightness float64 `json:"wheelLightness"`

	// Preset is the active preset, nil for none. Intensity scales how much
	// of the preset's own grade is blended in.
	Preset    *Preset `json:"preset,omitempty"`
	Intensity float64 `json:"intensity"`

	// ColorCard is the last applied color card. It is informational only.
	ColorCard *Preset `json:"colorCard,omitempty"`
}

// DefaultAdjustments returns the neutral state: every slider at its
// neutral value, identity curves, no HSL shifts and no preset.
func DefaultAdjustments() AdjustmentState {
	s := AdjustmentState{
		HSL:            make(map[string]HSLShift),
		Curves:         curve.DefaultChannels(),
		HighlightColor: DefaultHighlightColor,
		ShadowColor:    DefaultShadowColor,
	}
	for i := range sliders {
		*sliders[i].field(&s) = sliders[i].rng.Neutral
	}
	return s
}

// Clone returns a deep copy of s.
func (s AdjustmentState) Clone() AdjustmentState {
	c := s
	c.HSL = maps.Clone(s.HSL)
	if c.HSL == nil {
		c.HSL = make(map[string]HSLShift)
	}
	c.Curves = s.Curves.Clone()
	c.Preset = s.Preset.Clone()
	c.ColorCard = s.ColorCard.Clone()
	return c
}

// Clamp limits every slider and HSL shift to its range, in place.
func (s *AdjustmentState) Clamp() {
	for i := range sliders {
		f := sliders[i].field(s)
		*f = sliders[i].rng.Clamp(*f)
	}
	for k, v := range s.HSL {
		s.HSL[k] = HSLShift{
			Hue: HueShiftRange.Clamp(v.Hue),
			Sat: ShiftRange.Clamp(v.Sat),
			Lum: ShiftRange.Clamp(v.Lum),
		}
	}
}

// Validate checks the curves, the colors and the HSL keys. Slider values
// are not checked because Clamp repairs them. All problems are reported.
func (s *AdjustmentState) Validate() error {
	var errs []error
	if err := s.Curves.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("curves: %w", err))
	}
	for _, c := range []struct{ name, hex string }{
		{"highlightColor", s.HighlightColor},
		{"shadowColor", s.ShadowColor},
	} {
		if _, err := color.ParseHex(c.hex); err != nil {
			errs = append(errs, fmt.Errorf("%w %s: %w", ErrInvalidColor, c.name, err))
		}
	}
	for k := range s.HSL {
		if _, ok := color.ParseBand(k); !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownBand, k))
		}
	}
	if s.Preset != nil && s.Preset.Tint != "" {
		if _, err := color.ParseHex(s.Preset.Tint); err != nil {
			errs = append(errs, fmt.Errorf("%w preset tint: %w", ErrInvalidColor, err))
		}
	}
	return errors.Join(errs...)
}

// IsNeutral reports whether rendering with s leaves every pixel unchanged.
func (s *AdjustmentState) IsNeutral() bool {
	for i := range sliders {
		switch sliders[i].name {
		case "wheelLightness", "paletteHue", "toneBalance", "intensity":
			continue
		}
		if *sliders[i].field(s) != sliders[i].rng.Neutral {
			return false
		}
	}
	for _, v := range s.HSL {
		if !v.IsZero() {
			return false
		}
	}
	return s.Preset == nil && s.Curves.Equal(curve.DefaultChannels())
}

// params resolves s into the numeric form used by the pixel pipeline.
// Unparseable colors fall back to the defaults.
func (s *AdjustmentState) params() pipeline.Params {
	p := pipeline.Neutral()
	p.Exposure = s.Exposure
	p.Contrast = s.Contrast
	p.Highlights = s.Highlights
	p.Shadows = s.Shadows
	p.Whites = s.Whites
	p.Blacks = s.Blacks
	p.Temperature = s.Temperature
	p.Tint = s.Tint
	p.Vibrance = s.Vibrance
	p.Saturation = s.Saturation
	p.Clarity = s.Clarity
	p.Dehaze = s.Dehaze
	p.Sharpen = s.Sharpen
	p.Vignette = s.Vignette
	p.Grain = s.Grain

	for name, v := range s.HSL {
		if b, ok := color.ParseBand(name); ok {
			p.HSL[b] = pipeline.Shift{Hue: v.Hue, Sat: v.Sat, Lum: v.Lum}
		}
	}

	if c, err := color.ParseHex(s.HighlightColor); err == nil {
		p.HighlightColor = c
	}
	if c, err := color.ParseHex(s.ShadowColor); err == nil {
		p.ShadowColor = c
	}
	p.HighlightTone = s.HighlightTone
	p.ShadowTone = s.ShadowTone
	p.ToneBalance = s.ToneBalance

	p.PaletteHue = s.PaletteHue
	p.PaletteSat = s.PaletteSat

	p.Preset = s.Preset.grade()
	p.Intensity = s.Intensity
	return p
}
