package color

import "fmt"

// Band is one of eight named hue ranges used for selective color edits.
type Band uint8

// Hue bands in wheel order.
const (
	Red Band = iota
	Orange
	Yellow
	Green
	Cyan
	Blue
	Purple
	Magenta

	// NumBands is the number of hue bands.
	NumBands = 8
)

var bandNames = [NumBands]string{"red", "orange", "yellow", "green", "cyan", "blue", "purple", "magenta"}

// String returns the lowercase band name.
func (b Band) String() string {
	if int(b) < NumBands {
		return bandNames[b]
	}
	return fmt.Sprintf("Band(%d)", b)
}

// BandNames returns the band names in wheel order.
func BandNames() []string {
	names := bandNames
	return names[:]
}

// ParseBand returns the band with the given lowercase name.
func ParseBand(name string) (Band, bool) {
	for i, n := range bandNames {
		if n == name {
			return Band(i), true
		}
	}
	return 0, false
}

// Upper bounds (exclusive, degrees) of each band after red. Red covers
// [345, 360) and [0, 15).
var bandLimits = [...]struct {
	upper float64
	band  Band
}{
	{15, Red},
	{45, Orange},
	{75, Yellow},
	{165, Green},
	{195, Cyan},
	{255, Blue},
	{285, Purple},
	{345, Magenta},
}

// Classify maps a hue angle in degrees to its band. Angles outside
// [0, 360) are wrapped first.
func Classify(hue float64) Band {
	h := NormalizeHue(hue)
	for _, l := range bandLimits {
		if h < l.upper {
			return l.band
		}
	}
	return Red
}
