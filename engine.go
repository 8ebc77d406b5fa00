package grade

import (
	"fmt"
	"image"
	stdcolor "image/color"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gogpu/grade/curve"
	"github.com/gogpu/grade/history"
	"github.com/gogpu/grade/internal/color"
	"github.com/gogpu/grade/internal/pipeline"
)

// History labels committed by the engine itself.
const (
	LabelLoad         = "load"
	LabelWheel        = "color wheel"
	LabelResetBasic   = "reset basic"
	LabelResetCurves  = "reset curves"
	LabelResetHSL     = "reset hsl"
	LabelResetSplit   = "reset split toning"
	LabelResetPalette = "reset palette"
	LabelResetCard    = "reset color card"

	labelPresetPrefix = "preset: "
	labelCardPrefix   = "color card: "
)

// HistoryEntry describes one undo step for a history panel.
type HistoryEntry struct {
	Label   string
	Time    time.Time
	Current bool
}

// Engine owns a pristine source image, the adjustment state, the curve
// lookup tables derived from it, and the undo history.
//
// Mutations (Update, SetCurve, Apply*, Undo, Redo, Reset*) are cheap and
// never touch pixels. Render grades a copy of the source; it snapshots the
// state under the lock and runs the pixel pipeline outside it, so
// mutations may proceed while a render is in progress.
//
// Engine is safe for concurrent use.
type Engine struct {
	opts engineOptions

	mu       sync.Mutex
	source   *ImageBuffer
	state    AdjustmentState
	lut      *curve.LUT
	lutDirty bool
	history  *history.Stack[AdjustmentState]

	// proxy caches the downscaled source for RenderPreview.
	proxy    *ImageBuffer
	proxyFit image.Point
}

// New creates an engine with neutral adjustments and no image.
func New(opts ...Option) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		opts:    o,
		state:   DefaultAdjustments(),
		lut:     curve.Identity(),
		history: history.New(o.historyCapacity, AdjustmentState.Clone),
	}
	e.history.Commit(e.state, LabelLoad)
	return e
}

func (e *Engine) log() *slog.Logger {
	if e.opts.logger != nil {
		return e.opts.logger
	}
	return Logger()
}

// Load replaces the source image with a copy of src, resets the
// adjustments to neutral and starts a fresh history.
func (e *Engine) Load(src *ImageBuffer) {
	var c *ImageBuffer
	if src != nil {
		c = src.Clone()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.source = c
	e.proxy = nil
	e.state = DefaultAdjustments()
	e.lutDirty = true
	e.history.Reset()
	e.history.Commit(e.state, LabelLoad)

	if c != nil {
		e.log().Info("grade: image loaded", "width", c.Width(), "height", c.Height())
	}
}

// Source returns a copy of the pristine source, or nil if none is loaded.
func (e *Engine) Source() *ImageBuffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.source == nil {
		return nil
	}
	return e.source.Clone()
}

// Adjustments returns a deep copy of the current state.
func (e *Engine) Adjustments() AdjustmentState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Update edits the state through fn without recording history; call
// Commit once the edit is finished (for example on slider release).
//
// fn receives a copy. The result is clamped and validated; if it is
// invalid the state is left unchanged and the validation error returned.
func (e *Engine) Update(fn func(s *AdjustmentState)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.Clone()
	fn(&next)
	next.Clamp()
	if err := next.Validate(); err != nil {
		return err
	}
	e.setLocked(next)
	return nil
}

// SetAdjustments replaces the whole state, as Update does.
func (e *Engine) SetAdjustments(s AdjustmentState) error {
	return e.Update(func(dst *AdjustmentState) { *dst = s.Clone() })
}

// setLocked installs s and marks the LUT dirty if the curves changed.
func (e *Engine) setLocked(s AdjustmentState) {
	if !s.Curves.Equal(e.state.Curves) {
		e.lutDirty = true
	}
	e.state = s
}

// SetCurve replaces the control points of one curve channel. Invalid
// points are rejected and the previous curve stays in use.
func (e *Engine) SetCurve(ch curve.Channel, points []curve.Point) error {
	if err := curve.Validate(points); err != nil {
		return fmt.Errorf("grade: %s curve: %w", ch, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.Clone()
	next.Curves.Set(ch, points)
	e.setLocked(next)
	return nil
}

// ApplyFragment merges f into the state and commits a history entry.
// Invalid keys are skipped and reported; valid keys are still applied.
func (e *Engine) ApplyFragment(f Fragment, label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.mergeLocked(f)
	e.history.Commit(e.state, label)
	return err
}

// ApplyPreset merges the preset's settings, makes it the active preset
// and commits a history entry. An empty label defaults to the preset name.
func (e *Engine) ApplyPreset(p Preset, label string) error {
	if label == "" {
		label = labelPresetPrefix + p.Name
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.mergeLocked(p.Settings)
	e.state.Preset = p.Clone()
	e.history.Commit(e.state, label)
	return err
}

// ApplyColorCard merges the card's settings, records it as the current
// color card and commits a history entry. The card does not become the
// active preset.
func (e *Engine) ApplyColorCard(card Preset, label string) error {
	if label == "" {
		label = labelCardPrefix + card.Name
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.mergeLocked(card.Settings)
	e.state.ColorCard = card.Clone()
	e.history.Commit(e.state, label)
	return err
}

func (e *Engine) mergeLocked(f Fragment) error {
	err := f.ApplyTo(&e.state)
	if err != nil {
		e.log().Warn("grade: fragment keys rejected", "err", err)
	}
	return err
}

// SelectWheelColor sets white balance from a color picked on the color
// wheel: temperature from its red and tint from its green component.
func (e *Engine) SelectWheelColor(c stdcolor.Color) {
	n := stdcolor.NRGBAModel.Convert(c).(stdcolor.NRGBA)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Temperature = bipolar.Clamp((float64(n.R) - 128) / 2)
	e.state.Tint = bipolar.Clamp((float64(n.G) - 128) / 2)
	e.history.Commit(e.state, LabelWheel)
}

// Commit records the current state as a history entry.
func (e *Engine) Commit(label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Commit(e.state, label)
}

// Undo restores the previous history entry. It reports false at the
// oldest entry.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.history.Undo()
	if ok {
		e.state = s
		e.lutDirty = true
	}
	return ok
}

// Redo restores the next history entry. It reports false at the newest
// entry.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.history.Redo()
	if ok {
		e.state = s
		e.lutDirty = true
	}
	return ok
}

// CanUndo reports whether Undo would change the state.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would change the state.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// History returns the committed entries, oldest first.
func (e *Engine) History() []HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.history.Index()
	entries := e.history.Entries()
	out := make([]HistoryEntry, len(entries))
	for i, h := range entries {
		out[i] = HistoryEntry{Label: h.Label, Time: h.Time, Current: i == idx}
	}
	return out
}

// reset applies fn to the state and commits label.
func (e *Engine) reset(label string, fn func(s *AdjustmentState)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.Clone()
	fn(&next)
	e.setLocked(next)
	e.history.Commit(e.state, label)
}

// ResetBasic returns the fifteen basic sliders to zero.
func (e *Engine) ResetBasic() {
	e.reset(LabelResetBasic, func(s *AdjustmentState) {
		for _, name := range basicSliders {
			sl := sliderIndex[name]
			*sl.field(s) = sl.rng.Neutral
		}
	})
}

// ResetCurves restores the four identity curves.
func (e *Engine) ResetCurves() {
	e.reset(LabelResetCurves, func(s *AdjustmentState) {
		s.Curves = curve.DefaultChannels()
	})
}

// ResetHSL clears every band's shift.
func (e *Engine) ResetHSL() {
	e.reset(LabelResetHSL, func(s *AdjustmentState) {
		s.HSL = make(map[string]HSLShift)
	})
}

// ResetSplitToning restores the default tone colors and zeroes the tone
// amounts and balance.
func (e *Engine) ResetSplitToning() {
	e.reset(LabelResetSplit, func(s *AdjustmentState) {
		s.HighlightColor = DefaultHighlightColor
		s.ShadowColor = DefaultShadowColor
		s.HighlightTone = 0
		s.ShadowTone = 0
		s.ToneBalance = 0
	})
}

// ResetPalette clears the palette influence and restores the wheel
// lightness.
func (e *Engine) ResetPalette() {
	e.reset(LabelResetPalette, func(s *AdjustmentState) {
		for _, name := range []string{"paletteHue", "paletteSat", "wheelLightness"} {
			sl := sliderIndex[name]
			*sl.field(s) = sl.rng.Neutral
		}
	})
}

// ResetColorCard forgets the applied color card. Settings it merged stay.
func (e *Engine) ResetColorCard() {
	e.reset(LabelResetCard, func(s *AdjustmentState) {
		s.ColorCard = nil
	})
}

// snapshot captures what one render needs. The returned source is never
// mutated by the engine, so it may be read without the lock.
type snapshot struct {
	params pipeline.Params
	lut    *curve.LUT
}

func (e *Engine) snapshotLocked() snapshot {
	if e.lutDirty {
		lut, err := curve.Build(e.state.Curves)
		if err != nil {
			// Validated states always build; keep the previous tables.
			e.log().Warn("grade: curve rebuild failed", "err", err)
		} else {
			e.lut = lut
			e.lutDirty = false
			e.log().Debug("grade: curve tables rebuilt", "identity", lut.IsIdentity())
		}
	}
	return snapshot{params: e.state.params(), lut: e.lut}
}

// Render grades a copy of the source with the current state and returns
// it. With no image loaded it returns an empty buffer.
func (e *Engine) Render() (*ImageBuffer, error) {
	e.mu.Lock()
	src := e.source
	snap := e.snapshotLocked()
	e.mu.Unlock()

	return e.render(src, snap)
}

// RenderPreview renders a proxy of the source scaled to fit within
// maxWidth×maxHeight, keeping the aspect ratio. Sources that already fit
// are rendered at full size. The proxy is cached until the next Load.
func (e *Engine) RenderPreview(maxWidth, maxHeight int) (*ImageBuffer, error) {
	fit := image.Pt(maxWidth, maxHeight)

	e.mu.Lock()
	src := e.source
	if src != nil {
		if e.proxy == nil || e.proxyFit != fit {
			e.proxy = Downscale(src, maxWidth, maxHeight)
			e.proxyFit = fit
		}
		src = e.proxy
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	return e.render(src, snap)
}

func (e *Engine) render(src *ImageBuffer, snap snapshot) (*ImageBuffer, error) {
	if src.Empty() {
		e.log().Debug("grade: nothing to render")
		return NewImageBuffer(0, 0), nil
	}

	start := time.Now()
	var n Noise
	if snap.params.Grain > 0 {
		n = e.opts.noise()
	}
	out := pipeline.Render(src.data, src.width, src.height, &snap.params, snap.lut, n)

	e.log().Debug("grade: rendered",
		"width", src.width, "height", src.height,
		"elapsed", time.Since(start))
	return &ImageBuffer{width: src.width, height: src.height, data: out}, nil
}

// WheelColor returns the color under point (x, y) of a color wheel drawn
// in a w×h box: hue is the angle around the center, saturation the
// distance from it and lightness is given in percent, zero meaning the
// default of 50. Points outside the wheel report false.
func WheelColor(x, y, w, h, lightness float64) (stdcolor.NRGBA, bool) {
	if lightness == 0 {
		lightness = 50
	}
	cx, cy := w/2, h/2
	radius := min(cx, cy) - 10
	dx, dy := x-cx, y-cy
	dist := math.Hypot(dx, dy)
	if radius <= 0 || dist > radius {
		return stdcolor.NRGBA{}, false
	}

	hue := color.NormalizeHue(math.Atan2(dy, dx) * 180 / math.Pi)
	r, g, b := color.FromHSL(hue, dist/radius, lightness/100)
	return stdcolor.NRGBA{
		R: uint8(math.Round(r)),
		G: uint8(math.Round(g)),
		B: uint8(math.Round(b)),
		A: 255,
	}, true
}
