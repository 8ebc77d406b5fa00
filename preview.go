package grade

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrSizeMismatch is returned by Compare for buffers of different sizes.
var ErrSizeMismatch = errors.New("grade: image sizes differ")

// Comparison divider geometry.
const (
	dividerWidth = 2
	dividerDash  = 5 // on and off run length, in pixels
)

// nrgba views b as an image.NRGBA without copying.
func (b *ImageBuffer) nrgba() *image.NRGBA {
	return &image.NRGBA{Pix: b.data, Stride: b.width * 4, Rect: image.Rect(0, 0, b.width, b.height)}
}

// Downscale returns src scaled to fit within maxWidth×maxHeight, keeping
// the aspect ratio. A non-positive limit is unbounded. If src already fits
// it is cloned unchanged.
//
// Large reductions use Catmull-Rom resampling; small ones use the faster
// approximate bilinear filter.
func Downscale(src *ImageBuffer, maxWidth, maxHeight int) *ImageBuffer {
	if src.Empty() {
		return NewImageBuffer(0, 0)
	}
	w, h := fitSize(src.width, src.height, maxWidth, maxHeight)
	if w == src.width && h == src.height {
		return src.Clone()
	}

	dst := NewImageBuffer(w, h)
	var scaler draw.Scaler = draw.ApproxBiLinear
	if w*2 < src.width || h*2 < src.height {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst.nrgba(), dst.Bounds(), src.nrgba(), src.Bounds(), draw.Src, nil)
	return dst
}

// fitSize shrinks w×h to fit within maxW×maxH, never enlarging and never
// returning a zero dimension.
func fitSize(w, h, maxW, maxH int) (int, int) {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		scale = min(scale, float64(maxH)/float64(h))
	}
	if scale == 1 {
		return w, h
	}
	return max(1, int(float64(w)*scale+0.5)), max(1, int(float64(h)*scale+0.5))
}

// Compare builds a before/after split view: the left half of before, the
// right half of after, and a dashed white divider down the middle.
func Compare(before, after *ImageBuffer) (*ImageBuffer, error) {
	if before.width != after.width || before.height != after.height {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch,
			before.width, before.height, after.width, after.height)
	}
	out := after.Clone()
	if out.Empty() {
		return out, nil
	}

	mid := out.width / 2
	dst := out.nrgba()
	draw.Copy(dst, image.Point{}, before.nrgba(), image.Rect(0, 0, mid, out.height), draw.Src, nil)

	x0 := max(0, mid-dividerWidth/2)
	x1 := min(out.width, x0+dividerWidth)
	for y := 0; y < out.height; y++ {
		if (y/dividerDash)%2 != 0 {
			continue
		}
		for x := x0; x < x1; x++ {
			i := dst.PixOffset(x, y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 255, 255, 255, 255
		}
	}
	return out, nil
}
