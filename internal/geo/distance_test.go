package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lon1, lat1, lon2, lat2 float64
		expected               float64
		delta                  float64
	}{
		{"one degree of latitude", 0, 0, 0, 1, 111.19, 0.01},
		{"one degree of longitude at equator", 0, 0, 1, 0, 111.19, 0.01},
		{"identical points", 14.42, 50.08, 14.42, 50.08, 0, 0},
		{"antipodal", 0, 0, 180, 0, 20015.1, 0.1},
		{"pole to pole", 0, 90, 0, -90, 20015.1, 0.1},
		{"prague to vienna", 14.42, 50.08, 16.37, 48.21, 251.6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lon1, tt.lat1, tt.lon2, tt.lat2)
			assert.InDelta(t, tt.expected, got, tt.delta)
		})
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := HaversineKm(-0.12, 51.5, 139.69, 35.68)
	b := HaversineKm(139.69, 35.68, -0.12, 51.5)
	assert.InDelta(t, a, b, 1e-9)
}

func TestInitialBearing(t *testing.T) {
	assert.InDelta(t, 0.0, InitialBearing(0, 0, 0, 1), 1e-9)
	assert.InDelta(t, 90.0, InitialBearing(0, 0, 1, 0), 1e-9)
	assert.InDelta(t, 180.0, InitialBearing(0, 1, 0, 0), 1e-9)
	assert.InDelta(t, 270.0, InitialBearing(1, 0, 0, 0), 1e-9)
}

func TestLocatorDistance(t *testing.T) {
	km, bearing, ok := LocatorDistance("JN89", "JN99")
	require.True(t, ok)
	// Square centres 2 degrees of longitude apart at 49.5N.
	assert.InDelta(t, 144.4, km, 0.5)
	assert.InDelta(t, 90.0, bearing, 1)

	_, _, ok = LocatorDistance("JN89", "nope")
	assert.False(t, ok)
}
