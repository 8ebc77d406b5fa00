// Package filter provides the neighbourhood filters of the grading
// pipeline: a separable Gaussian blur over RGBA byte rasters and the
// unsharp mask built on it.
//
// Filters operate on tightly packed RGBA buffers (4 bytes per pixel,
// row-major) and never touch the alpha channel.
package filter
