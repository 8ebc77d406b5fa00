package curve

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownChannel is returned for a channel name that is not one of
// rgb, red, green or blue.
var ErrUnknownChannel = errors.New("curve: unknown channel")

// Channel identifies one of the four tone curves.
type Channel uint8

const (
	// RGB is the master curve applied to all three channels.
	RGB Channel = iota
	Red
	Green
	Blue
)

var channelNames = [...]string{"rgb", "red", "green", "blue"}

// String returns the lowercase channel name.
func (c Channel) String() string {
	if int(c) < len(channelNames) {
		return channelNames[c]
	}
	return fmt.Sprintf("Channel(%d)", c)
}

// ParseChannel parses a channel name.
func ParseChannel(name string) (Channel, error) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// Channels holds the control points of the four tone curves.
type Channels struct {
	RGB   []Point `json:"rgb"`
	Red   []Point `json:"red"`
	Green []Point `json:"green"`
	Blue  []Point `json:"blue"`
}

// Linear returns the identity control points [(0,0), (255,255)].
func Linear() []Point {
	return []Point{{0, 0}, {255, 255}}
}

// DefaultChannels returns four identity curves.
func DefaultChannels() Channels {
	return Channels{RGB: Linear(), Red: Linear(), Green: Linear(), Blue: Linear()}
}

// Get returns the control points of channel c.
func (ch *Channels) Get(c Channel) []Point {
	switch c {
	case RGB:
		return ch.RGB
	case Red:
		return ch.Red
	case Green:
		return ch.Green
	case Blue:
		return ch.Blue
	}
	return nil
}

// Set replaces the control points of channel c with a copy of points.
func (ch *Channels) Set(c Channel, points []Point) {
	points = slices.Clone(points)
	switch c {
	case RGB:
		ch.RGB = points
	case Red:
		ch.Red = points
	case Green:
		ch.Green = points
	case Blue:
		ch.Blue = points
	}
}

// Clone returns a deep copy.
func (ch Channels) Clone() Channels {
	return Channels{
		RGB:   slices.Clone(ch.RGB),
		Red:   slices.Clone(ch.Red),
		Green: slices.Clone(ch.Green),
		Blue:  slices.Clone(ch.Blue),
	}
}

// Equal reports whether both sets of curves have identical control points.
func (ch Channels) Equal(other Channels) bool {
	return slices.Equal(ch.RGB, other.RGB) &&
		slices.Equal(ch.Red, other.Red) &&
		slices.Equal(ch.Green, other.Green) &&
		slices.Equal(ch.Blue, other.Blue)
}

// Validate validates every channel. The error names the first bad channel.
func (ch Channels) Validate() error {
	for c := RGB; c <= Blue; c++ {
		if err := Validate(ch.Get(c)); err != nil {
			return fmt.Errorf("%s: %w", c, err)
		}
	}
	return nil
}

// Table maps every input byte to an output byte.
type Table [256]uint8

// BuildTable evaluates the curve at every integer input.
func BuildTable(points []Point) (Table, error) {
	var t Table
	if err := Validate(points); err != nil {
		return t, err
	}
	for i := range t {
		t[i] = Interpolate(points, float64(i))
	}
	return t, nil
}

// identityTable is the table of the linear curve.
var identityTable = func() Table {
	var t Table
	for i := range t {
		t[i] = uint8(i)
	}
	return t
}()

// IsIdentity reports whether the table maps every value to itself.
func (t *Table) IsIdentity() bool {
	return *t == identityTable
}

// LUT is the dense form of Channels: one table per channel.
type LUT struct {
	RGB, Red, Green, Blue Table
}

// Identity returns a LUT that leaves every value unchanged.
func Identity() *LUT {
	return &LUT{RGB: identityTable, Red: identityTable, Green: identityTable, Blue: identityTable}
}

// Build validates ch and evaluates every channel into a LUT.
func Build(ch Channels) (*LUT, error) {
	lut := &LUT{}
	tables := [...]*Table{RGB: &lut.RGB, Red: &lut.Red, Green: &lut.Green, Blue: &lut.Blue}
	for c, dst := range tables {
		t, err := BuildTable(ch.Get(Channel(c)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", Channel(c), err)
		}
		*dst = t
	}
	return lut, nil
}

// Apply maps a pixel through the per-channel tables, then the master table.
func (l *LUT) Apply(r, g, b uint8) (uint8, uint8, uint8) {
	return l.RGB[l.Red[r]], l.RGB[l.Green[g]], l.RGB[l.Blue[b]]
}

// IsIdentity reports whether every table in the LUT is the identity.
func (l *LUT) IsIdentity() bool {
	return l.RGB.IsIdentity() && l.Red.IsIdentity() && l.Green.IsIdentity() && l.Blue.IsIdentity()
}
