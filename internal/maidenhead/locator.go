package maidenhead

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Precision selects how many locator pairs are produced or expected.
type Precision int

const (
	Field     Precision = 2
	Square    Precision = 4
	Subsquare Precision = 6
)

func (p Precision) String() string {
	switch p {
	case Field:
		return "field"
	case Square:
		return "square"
	case Subsquare:
		return "subsquare"
	default:
		return "unknown"
	}
}

// ErrInvalidLocator is returned at API boundaries when a locator fails to decode.
var ErrInvalidLocator = errors.New("invalid locator")

const (
	fieldAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	subsquareAlphabet = "abcdefghijklmnopqrstuvwx"

	fieldLon     = 20.0
	fieldLat     = 10.0
	squareLon    = 2.0
	squareLat    = 1.0
	subsquareLon = 1.0 / 12.0
	subsquareLat = 1.0 / 24.0
)

// targetLocatorRe is the stricter policy used by EDI import and the target
// list: fields A-R, subsquares A-X, always six characters.
var targetLocatorRe = regexp.MustCompile(`^[A-R]{2}[0-9]{2}[A-X]{2}$`)

// BoundingBox is a WGS84 lon/lat rectangle.
type BoundingBox struct {
	LonMin float64 `json:"lon_min"`
	LatMin float64 `json:"lat_min"`
	LonMax float64 `json:"lon_max"`
	LatMax float64 `json:"lat_max"`
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() (lon, lat float64) {
	return (b.LonMin + b.LonMax) / 2, (b.LatMin + b.LatMax) / 2
}

// Encode converts a coordinate to a locator at the given precision.
// It reports false when the coordinate falls outside the alphabets.
func Encode(lon, lat float64, p Precision) (string, bool) {
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return "", false
	}
	lonAdj := lon + 180
	latAdj := lat + 90

	var sb strings.Builder
	sb.Grow(int(p))

	fLon := int(math.Floor(lonAdj / fieldLon))
	fLat := int(math.Floor(latAdj / fieldLat))
	if !inRange(fLon, len(fieldAlphabet)) || !inRange(fLat, len(fieldAlphabet)) {
		return "", false
	}

	switch p {
	case Field, Square, Subsquare:
	default:
		return "", false
	}

	sb.WriteByte(fieldAlphabet[fLon])
	sb.WriteByte(fieldAlphabet[fLat])
	if p == Field {
		return sb.String(), true
	}

	sLon := int(math.Floor(math.Mod(lonAdj, fieldLon) / squareLon))
	sLat := int(math.Floor(math.Mod(latAdj, fieldLat) / squareLat))
	if !inRange(sLon, 10) || !inRange(sLat, 10) {
		return "", false
	}
	sb.WriteByte(byte('0' + sLon))
	sb.WriteByte(byte('0' + sLat))
	if p == Square {
		return sb.String(), true
	}

	ssLon := int(math.Floor(math.Mod(lonAdj, squareLon) / subsquareLon))
	ssLat := int(math.Floor(math.Mod(latAdj, squareLat) / subsquareLat))
	if !inRange(ssLon, len(subsquareAlphabet)) || !inRange(ssLat, len(subsquareAlphabet)) {
		return "", false
	}
	sb.WriteByte(subsquareAlphabet[ssLon])
	sb.WriteByte(subsquareAlphabet[ssLat])
	return sb.String(), true
}

// Decode returns the bounding box covered by a 2, 4 or 6 character locator.
// Field letters may be any of A-Z and subsquare letters any of a-x, in either case.
func Decode(locator string) (BoundingBox, bool) {
	loc := strings.TrimSpace(locator)
	if len(loc) != 2 && len(loc) != 4 && len(loc) != 6 {
		return BoundingBox{}, false
	}
	// Case folding must not change the byte length.
	for i := 0; i < len(loc); i++ {
		if loc[i] >= utf8.RuneSelf {
			return BoundingBox{}, false
		}
	}
	up := strings.ToUpper(loc)

	fLon := strings.IndexByte(fieldAlphabet, up[0])
	fLat := strings.IndexByte(fieldAlphabet, up[1])
	if fLon < 0 || fLat < 0 {
		return BoundingBox{}, false
	}
	lon0 := -180 + float64(fLon)*fieldLon
	lat0 := -90 + float64(fLat)*fieldLat
	if len(loc) == 2 {
		return BoundingBox{lon0, lat0, lon0 + fieldLon, lat0 + fieldLat}, true
	}

	sLon, okLon := digit(up[2])
	sLat, okLat := digit(up[3])
	if !okLon || !okLat {
		return BoundingBox{}, false
	}
	lon0 += float64(sLon) * squareLon
	lat0 += float64(sLat) * squareLat
	if len(loc) == 4 {
		return BoundingBox{lon0, lat0, lon0 + squareLon, lat0 + squareLat}, true
	}

	low := strings.ToLower(loc)
	ssLon := strings.IndexByte(subsquareAlphabet, low[4])
	ssLat := strings.IndexByte(subsquareAlphabet, low[5])
	if ssLon < 0 || ssLat < 0 {
		return BoundingBox{}, false
	}
	lon0 += float64(ssLon) * subsquareLon
	lat0 += float64(ssLat) * subsquareLat
	return BoundingBox{lon0, lat0, lon0 + subsquareLon, lat0 + subsquareLat}, true
}

// CenterOf returns the midpoint of the locator's bounding box.
func CenterOf(locator string) (lon, lat float64, ok bool) {
	box, ok := Decode(locator)
	if !ok {
		return 0, 0, false
	}
	lon, lat = box.Center()
	return lon, lat, true
}

// PrecisionOf maps a locator's length to its precision.
func PrecisionOf(locator string) (Precision, bool) {
	switch len(strings.TrimSpace(locator)) {
	case 2:
		return Field, true
	case 4:
		return Square, true
	case 6:
		return Subsquare, true
	default:
		return 0, false
	}
}

// ValidTargetLocator6 applies the narrower six-character policy used for
// contest targets. Input is expected to be uppercased already.
func ValidTargetLocator6(locator string) bool {
	return targetLocatorRe.MatchString(locator)
}

func digit(b byte) (int, bool) {
	if b < '0' || b > '9' {
		return 0, false
	}
	return int(b - '0'), true
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
