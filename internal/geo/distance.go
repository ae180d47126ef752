// Package geo provides great-circle helpers for WGS84 coordinates.
package geo

import (
	"math"

	"github.com/couchcryptid/hamgrid/internal/maidenhead"
)

// EarthRadiusKm is the IUGG mean Earth radius.
const EarthRadiusKm = 6371.0088

// HaversineKm returns the great-circle distance between two points in kilometres.
func HaversineKm(lon1, lat1, lon2, lat2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Pow(math.Sin(dLon/2), 2)

	// Rounding can push sqrt(a) just past 1 for antipodal points.
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// InitialBearing returns the forward azimuth from the first point to the
// second, in degrees clockwise from true north, normalised to [0, 360).
func InitialBearing(lon1, lat1, lon2, lat2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dLon := toRad(lon2 - lon1)

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	deg := math.Mod(toDeg(math.Atan2(y, x))+360, 360)
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// LocatorDistance measures centre to centre between two locators.
// It reports false when either locator does not decode.
func LocatorDistance(from, to string) (km, bearing float64, ok bool) {
	lon1, lat1, ok1 := maidenhead.CenterOf(from)
	lon2, lat2, ok2 := maidenhead.CenterOf(to)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return HaversineKm(lon1, lat1, lon2, lat2), InitialBearing(lon1, lat1, lon2, lat2), true
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func toDeg(rad float64) float64 { return rad * 180 / math.Pi }
