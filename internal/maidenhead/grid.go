package maidenhead

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// maxSubsquareCells caps the subsquare grid; wider viewports fall back to squares.
	maxSubsquareCells = 2500

	// worldSpanLon is the viewport width above which the whole world is drawn.
	worldSpanLon = 300.0

	edgeEpsilon = 1e-9
)

// GridCell is one rectangle of a generated grid, labelled with the locator of its centre.
type GridCell struct {
	Label string      `json:"label"`
	Box   BoundingBox `json:"bbox"`
}

// ParseBBox reads a "lonMin,latMin,lonMax,latMax" viewport.
func ParseBBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, errors.New("bbox must be lonMin,latMin,lonMax,latMax")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("bbox: %q is not a number", p)
		}
		v[i] = f
	}
	return BoundingBox{LonMin: v[0], LatMin: v[1], LonMax: v[2], LatMax: v[3]}, nil
}

// ParseLevel accepts "field", "square" or "subsquare" in any case.
func ParseLevel(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "field":
		return Field, nil
	case "square":
		return Square, nil
	case "subsquare":
		return Subsquare, nil
	default:
		return 0, fmt.Errorf("unknown grid level %q", s)
	}
}

// LevelForZoom picks a grid level from a web-map zoom level.
func LevelForZoom(zoom float64) Precision {
	switch {
	case zoom <= 5:
		return Field
	case zoom >= 11.5:
		return Subsquare
	default:
		return Square
	}
}

// EffectiveLevel returns the level BuildGrid will actually render for the
// viewport: subsquare is demoted to square when it would exceed 2500 cells.
func EffectiveLevel(viewport BoundingBox, level Precision) Precision {
	if level != Subsquare {
		return level
	}
	v := clampViewport(viewport)
	lon, lat := cellsPerDegree(Subsquare)
	est := (v.LonMax - v.LonMin) * lon * (v.LatMax - v.LatMin) * lat
	if est > maxSubsquareCells {
		return Square
	}
	return Subsquare
}

// BuildGrid generates every cell of the given level intersecting the viewport.
// Unknown levels render as squares.
func BuildGrid(viewport BoundingBox, level Precision) []GridCell {
	if hasNaN(viewport) {
		return nil
	}
	level = EffectiveLevel(viewport, level)
	v := clampViewport(viewport)

	perLon, perLat := cellsPerDegree(level)

	iLon0 := int(math.Floor((v.LonMin + 180) * perLon))
	iLon1 := int(math.Ceil((v.LonMax + 180) * perLon))
	iLat0 := int(math.Floor((v.LatMin + 90) * perLat))
	iLat1 := int(math.Ceil((v.LatMax + 90) * perLat))

	if iLon1 <= iLon0 || iLat1 <= iLat0 {
		return nil
	}

	cells := make([]GridCell, 0, (iLon1-iLon0)*(iLat1-iLat0))
	for i := iLon0; i < iLon1; i++ {
		lon0 := -180 + float64(i)/perLon
		lon1 := -180 + float64(i+1)/perLon
		for j := iLat0; j < iLat1; j++ {
			lat0 := -90 + float64(j)/perLat
			lat1 := -90 + float64(j+1)/perLat
			box := BoundingBox{LonMin: lon0, LatMin: lat0, LonMax: lon1, LatMax: lat1}
			cLon, cLat := box.Center()
			label, ok := Encode(cLon, cLat, level)
			if !ok {
				continue
			}
			cells = append(cells, GridCell{Label: label, Box: box})
		}
	}
	return cells
}

// cellsPerDegree is the reciprocal of the cell size. Working with whole
// reciprocals keeps 1/12 and 1/24 steps exact at integer degrees.
func cellsPerDegree(level Precision) (lon, lat float64) {
	switch level {
	case Field:
		return 1 / fieldLon, 1 / fieldLat
	case Subsquare:
		return 12, 24
	default:
		return 1 / squareLon, 1 / squareLat
	}
}

// clampViewport orders the corners and keeps the box inside the globe, just
// short of the antimeridian and the north pole.
func clampViewport(b BoundingBox) BoundingBox {
	lonMin := math.Min(b.LonMin, b.LonMax)
	lonMax := math.Max(b.LonMin, b.LonMax)
	latMin := math.Min(b.LatMin, b.LatMax)
	latMax := math.Max(b.LatMin, b.LatMax)

	if lonMax-lonMin > worldSpanLon {
		lonMin, lonMax = -180, 180
	}

	return BoundingBox{
		LonMin: clamp(lonMin, -180, 180-edgeEpsilon),
		LatMin: clamp(latMin, -90, 90-edgeEpsilon),
		LonMax: clamp(lonMax, -180, 180-edgeEpsilon),
		LatMax: clamp(latMax, -90, 90-edgeEpsilon),
	}
}

func hasNaN(b BoundingBox) bool {
	return math.IsNaN(b.LonMin) || math.IsNaN(b.LatMin) || math.IsNaN(b.LonMax) || math.IsNaN(b.LatMax)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
