package grade

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/gogpu/grade/internal/color"
	"github.com/gogpu/grade/internal/pipeline"
)

// Errors returned by Fragment.ApplyTo.
var (
	// ErrUnknownParameter is returned for a fragment key that names no
	// parameter.
	ErrUnknownParameter = errors.New("grade: unknown parameter")

	// ErrParameterType is returned for a fragment value of the wrong type.
	ErrParameterType = errors.New("grade: wrong parameter type")
)

// Fragment is a partial AdjustmentState keyed by JSON parameter name.
// Slider values are numbers; highlightColor and shadowColor are hex
// strings. Fragments come from presets, color cards and JSON files.
type Fragment map[string]any

// colorFields maps the color parameter names to their fields.
var colorFields = map[string]func(*AdjustmentState) *string{
	"highlightColor": func(s *AdjustmentState) *string { return &s.HighlightColor },
	"shadowColor":    func(s *AdjustmentState) *string { return &s.ShadowColor },
}

// ApplyTo merges f into s, last writer wins per key. Keys are applied in
// sorted order and numeric values are clamped to their range.
//
// Invalid entries are skipped and reported together; every valid entry is
// still applied.
func (f Fragment) ApplyTo(s *AdjustmentState) error {
	keys := maps.Keys(f)
	slices.Sort(keys)

	var errs []error
	for _, k := range keys {
		if err := applyOne(s, k, f[k]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func applyOne(s *AdjustmentState, key string, v any) error {
	if sl, ok := sliderIndex[key]; ok {
		n, ok := number(v)
		if !ok {
			return fmt.Errorf("%w: %s is %T, want number", ErrParameterType, key, v)
		}
		*sl.field(s) = sl.rng.Clamp(n)
		return nil
	}
	if field, ok := colorFields[key]; ok {
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: %s is %T, want string", ErrParameterType, key, v)
		}
		c, err := color.ParseHex(str)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidColor, key, err)
		}
		*field(s) = c.Hex()
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownParameter, key)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Clone returns a copy of f. Values are scalars, so the copy is deep.
func (f Fragment) Clone() Fragment {
	if f == nil {
		return nil
	}
	out := make(Fragment, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// FragmentOf returns the fragment holding every slider and color of s.
// Applying it to any state reproduces the scalar part of s.
func FragmentOf(s *AdjustmentState) Fragment {
	f := make(Fragment, len(sliders)+len(colorFields))
	for i := range sliders {
		f[sliders[i].name] = *sliders[i].field(s)
	}
	for name, field := range colorFields {
		f[name] = *field(s)
	}
	return f
}

// Preset is a named bundle of settings: a filter, film emulation or color
// card.
type Preset struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`

	// Color is a color card's swatch, informational only.
	Color string `json:"color,omitempty"`

	// Settings are merged into the state when the preset is applied.
	Settings Fragment `json:"settings"`

	// Tint, Contrast and Saturation form the preset's own per-pixel grade,
	// blended in by the state's Intensity.
	Tint       string  `json:"tint,omitempty"`
	Contrast   float64 `json:"contrast,omitempty"`
	Saturation float64 `json:"saturation,omitempty"`
}

// Clone returns a deep copy of p. Clone of nil is nil.
func (p *Preset) Clone() *Preset {
	if p == nil {
		return nil
	}
	c := *p
	c.Settings = p.Settings.Clone()
	return &c
}

// grade returns the pipeline sub-grade of p, nil for no preset. Contrast
// and Saturation are clamped to [-100, 100].
func (p *Preset) grade() *pipeline.PresetGrade {
	if p == nil {
		return nil
	}
	g := &pipeline.PresetGrade{
		Contrast:   bipolar.Clamp(p.Contrast),
		Saturation: bipolar.Clamp(p.Saturation),
	}
	if p.Tint != "" {
		if c, err := color.ParseHex(p.Tint); err == nil {
			g.Tint = &c
		}
	}
	return g
}
