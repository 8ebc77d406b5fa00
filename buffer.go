package grade

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ErrDataSize is returned when pixel data does not match the dimensions.
var ErrDataSize = errors.New("grade: pixel data size mismatch")

// ImageBuffer is a rectangular, non-premultiplied RGBA pixel buffer,
// 4 bytes per pixel in row-major order.
type ImageBuffer struct {
	width  int
	height int
	data   []uint8
}

// NewImageBuffer creates a transparent black buffer. Non-positive
// dimensions yield an empty buffer.
func NewImageBuffer(width, height int) *ImageBuffer {
	if width <= 0 || height <= 0 {
		return &ImageBuffer{data: []uint8{}}
	}
	return &ImageBuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// FromRGBA creates a buffer holding a copy of data, which must be exactly
// width*height*4 bytes.
func FromRGBA(width, height int, data []uint8) (*ImageBuffer, error) {
	if width < 0 || height < 0 || len(data) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrDataSize, len(data), width, height)
	}
	b := NewImageBuffer(width, height)
	copy(b.data, data)
	return b, nil
}

// FromImage converts img to a buffer. Premultiplied sources are
// converted to straight alpha.
func FromImage(img image.Image) *ImageBuffer {
	r := img.Bounds()
	b := NewImageBuffer(r.Dx(), r.Dy())
	if b.Empty() {
		return b
	}

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.height; y++ {
			i := src.PixOffset(r.Min.X, r.Min.Y+y)
			copy(b.data[y*b.width*4:(y+1)*b.width*4], src.Pix[i:i+b.width*4])
		}
		return b
	}

	dst := &image.NRGBA{Pix: b.data, Stride: b.width * 4, Rect: image.Rect(0, 0, b.width, b.height)}
	draw.Draw(dst, dst.Rect, img, r.Min, draw.Src)
	return b
}

// Width returns the width in pixels.
func (b *ImageBuffer) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *ImageBuffer) Height() int {
	return b.height
}

// Data returns the raw RGBA bytes. The slice aliases the buffer.
func (b *ImageBuffer) Data() []uint8 {
	return b.data
}

// Empty reports whether the buffer has no pixels.
func (b *ImageBuffer) Empty() bool {
	return b == nil || b.width == 0 || b.height == 0
}

// Clone returns a deep copy.
func (b *ImageBuffer) Clone() *ImageBuffer {
	c := &ImageBuffer{width: b.width, height: b.height, data: make([]uint8, len(b.data))}
	copy(c.data, b.data)
	return c
}

// ToImage returns the buffer as an image.NRGBA sharing no memory with b.
func (b *ImageBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}

// At implements the image.Image interface.
func (b *ImageBuffer) At(x, y int) color.Color {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.NRGBA{}
	}
	i := (y*b.width + x) * 4
	return color.NRGBA{R: b.data[i], G: b.data[i+1], B: b.data[i+2], A: b.data[i+3]}
}

// Bounds implements the image.Image interface.
func (b *ImageBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *ImageBuffer) ColorModel() color.Model {
	return color.NRGBAModel
}
