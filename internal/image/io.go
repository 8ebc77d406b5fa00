package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Registers the WebP decoder with image.Decode.
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// DefaultQuality is the JPEG quality used when Options.Quality is zero.
const DefaultQuality = 92

// Format identifies an image file format.
type Format int

// Supported formats. WebP can be decoded but not encoded.
const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatBMP
	FormatTIFF
	FormatWebP
)

var formatNames = [...]string{"unknown", "png", "jpeg", "bmp", "tiff", "webp"}

// String returns the lower-case format name as reported by image.Decode.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return formatNames[FormatUnknown]
	}
	return formatNames[f]
}

// CanEncode reports whether Encode supports f.
func (f Format) CanEncode() bool {
	switch f {
	case FormatPNG, FormatJPEG, FormatBMP, FormatTIFF:
		return true
	}
	return false
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".webp":
		return FormatWebP, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Options controls encoding.
type Options struct {
	// Quality is the JPEG quality, 1-100. Zero selects DefaultQuality.
	Quality int
}

// Load reads and decodes an image file, detecting the format from its
// content.
func Load(path string) (image.Image, Format, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// LoadBytes decodes an image held in memory.
func LoadBytes(data []byte) (image.Image, Format, error) {
	if len(data) == 0 {
		return nil, FormatUnknown, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("image: decode: %w", err)
	}
	for f, n := range formatNames {
		if n == name {
			return img, Format(f), nil
		}
	}
	return img, FormatUnknown, nil
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format, opts Options) error {
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		q := opts.Quality
		if q == 0 {
			q = DefaultQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: min(max(q, 1), 100)})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", f, err)
	}
	return nil
}

// Save encodes img into the file at path, choosing the format from the
// extension.
func Save(path string, img image.Image, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if !format.CanEncode() {
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, format)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	if err := Encode(f, img, format, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
