// Package grade provides a non-destructive photo color-grading engine.
//
// # Overview
//
// An Engine holds a pristine source image and a set of tone and color
// parameters (AdjustmentState). Rendering never modifies the source: each
// call grades a fresh copy through a fixed, ordered pixel pipeline and
// returns a new ImageBuffer.
//
// # Quick Start
//
//	import "github.com/gogpu/grade"
//
//	e := grade.New()
//	e.Load(grade.FromImage(img))
//
//	// Drag a slider, then commit the edit as one undo step.
//	e.Update(func(s *grade.AdjustmentState) { s.Exposure = 35 })
//	e.Commit("exposure")
//
//	out, err := e.Render()
//
// # Pipeline
//
// Per pixel, in order: tone curves, exposure, contrast, white balance,
// highlights and shadows, whites and blacks, selective HSL, vibrance,
// saturation, split toning, palette influence, preset blend, dehaze,
// clarity and grain. Sharpen and vignette then run over the whole image.
// Parameters at their neutral value skip their stage, so a neutral state
// reproduces the source exactly.
//
// # Presets
//
// Presets, film emulations and color cards are Preset values whose
// Settings (a Fragment) are merged into the state, last writer wins. A
// preset also carries a small per-pixel grade of its own, blended in by
// Intensity. The preset package provides a searchable catalog container.
//
// # History
//
// Every Apply*, Reset* and Commit call records an undo step. The history
// is bounded (30 entries by default, see WithHistoryCapacity); committing
// after an undo discards the redo branch.
//
// # Interactive use
//
// Live and LivePreview wrap an Engine with a render scheduler: call
// Invalidate on every change and at most one render runs at a time, with
// bursts of changes collapsed into a single follow-up.
package grade

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
