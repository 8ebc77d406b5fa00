// Package curve converts tone-curve control points into dense lookup tables.
//
// A curve is an ordered list of control points (x, y) with x and y in
// [0, 255]. The first point is pinned at x=0 and the last at x=255. Two
// points interpolate linearly; three or more use a Catmull-Rom spline that
// passes exactly through every control point.
//
// Every curve passed to the table builders is validated first: the engine
// never extrapolates from malformed input.
package curve

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Domain bounds of a control point coordinate.
const (
	MinValue = 0
	MaxValue = 255
)

// Validation errors.
var (
	// ErrTooFewPoints is returned when a curve has fewer than two points.
	ErrTooFewPoints = errors.New("curve: fewer than two control points")

	// ErrNotIncreasing is returned when x coordinates are unsorted or repeated.
	ErrNotIncreasing = errors.New("curve: x coordinates not strictly increasing")

	// ErrBoundary is returned when the first point is not at x=0 or the last
	// point is not at x=255.
	ErrBoundary = errors.New("curve: boundary point not pinned")

	// ErrOutOfRange is returned when a coordinate lies outside [0, 255].
	ErrOutOfRange = errors.New("curve: coordinate out of range")
)

// Point is a single control point. It encodes to JSON as an [x, y] pair,
// the format used by curve editors.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// MarshalJSON encodes the point as a two-element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("curve: decode point: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("curve: decode point: want 2 coordinates, got %d", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// Validate reports whether points form a usable curve.
func Validate(points []Point) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	for i, p := range points {
		if !inRange(p.X) || !inRange(p.Y) {
			return fmt.Errorf("%w: point %d is (%g, %g)", ErrOutOfRange, i, p.X, p.Y)
		}
		if i > 0 && p.X <= points[i-1].X {
			return fmt.Errorf("%w: point %d x=%g after x=%g", ErrNotIncreasing, i, p.X, points[i-1].X)
		}
	}
	if points[0].X != MinValue {
		return fmt.Errorf("%w: first x=%g, want 0", ErrBoundary, points[0].X)
	}
	if last := points[len(points)-1]; last.X != MaxValue {
		return fmt.Errorf("%w: last x=%g, want 255", ErrBoundary, last.X)
	}
	return nil
}

func inRange(v float64) bool {
	return v >= MinValue && v <= MaxValue && !math.IsNaN(v)
}

// Interpolate evaluates the curve at x. Points must satisfy Validate.
//
// Outside the first and last control points the curve is flat.
func Interpolate(points []Point, x float64) uint8 {
	n := len(points)
	if x <= points[0].X {
		return toByte(points[0].Y)
	}
	if x >= points[n-1].X {
		return toByte(points[n-1].Y)
	}
	if n == 2 {
		p0, p1 := points[0], points[1]
		t := (x - p0.X) / (p1.X - p0.X)
		return toByte(p0.Y + t*(p1.Y-p0.Y))
	}

	i := segment(points, x)
	p1 := points[i]
	p2 := points[i+1]
	p0 := p1
	if i > 0 {
		p0 = points[i-1]
	}
	p3 := p2
	if i+2 < n {
		p3 = points[i+2]
	}

	w := p2.X - p1.X
	t := (x - p1.X) / w
	t2 := t * t
	t3 := t2 * t

	// Hermite basis.
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	// Tangents are half the x span of the neighbouring points.
	m1 := (p2.X - p0.X) * 0.5
	m2 := (p3.X - p1.X) * 0.5

	return toByte(h00*p1.Y + h10*m1 + h01*p2.Y + h11*m2)
}

// segment returns the index i such that points[i].X <= x < points[i+1].X.
func segment(points []Point, x float64) int {
	lo, hi := 0, len(points)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if points[mid].X <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// toByte rounds v to the nearest integer and clamps it to [0, 255].
func toByte(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
