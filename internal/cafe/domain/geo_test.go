package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	t.Run("identical points are zero", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceKm(33.7731, -84.4044, 33.7731, -84.4044))
	})

	t.Run("symmetric", func(t *testing.T) {
		ab := DistanceKm(33.7731, -84.4044, 33.7536, -84.3621)
		ba := DistanceKm(33.7536, -84.3621, 33.7731, -84.4044)
		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("midtown to downtown atlanta", func(t *testing.T) {
		// reference value from an independent great-circle calculator
		d := DistanceKm(33.7731, -84.4044, 33.7536, -84.3621)
		assert.InEpsilon(t, 4.47, d, 0.01)
	})

	t.Run("antipodal points stay finite", func(t *testing.T) {
		d := DistanceKm(0, 0, 0, 180)
		require.False(t, math.IsNaN(d))
		assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)

		d = DistanceKm(90, 0, -90, 0)
		require.False(t, math.IsNaN(d))
		assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)
	})
}

func TestFilterByRadius(t *testing.T) {
	center := Coordinates{Latitude: 33.77, Longitude: -84.40}
	here := Cafe{ID: "here", Profile: Profile{Location: center}}
	near := Cafe{ID: "near", Profile: Profile{Location: Coordinates{Latitude: 33.7731, Longitude: -84.4044}}}
	far := Cafe{ID: "far", Profile: Profile{Location: Coordinates{Latitude: 34.05, Longitude: -84.40}}}
	cafes := []Cafe{far, near, here}

	t.Run("zero radius keeps only the exact point", func(t *testing.T) {
		got := FilterByRadius(cafes, center, 0)
		require.Len(t, got, 1)
		assert.Equal(t, "here", got[0].ID)
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		radius := center.DistanceTo(near.Location)
		got := FilterByRadius(cafes, center, radius)
		assert.Equal(t, []string{"near", "here"}, ids(got))
	})

	t.Run("input is untouched", func(t *testing.T) {
		_ = FilterByRadius(cafes, center, 1)
		assert.Equal(t, []string{"far", "near", "here"}, ids(cafes))
	})
}

func TestNewCoordinates(t *testing.T) {
	_, err := NewCoordinates(91, 0)
	require.ErrorIs(t, err, ErrValidation)
	_, err = NewCoordinates(0, -181)
	require.ErrorIs(t, err, ErrValidation)
	c, err := NewCoordinates(-33.86, 151.2)
	require.NoError(t, err)
	assert.Equal(t, -33.86, c.Latitude)
}

func ids(cafes []Cafe) []string {
	out := make([]string, 0, len(cafes))
	for _, c := range cafes {
		out = append(out, c.ID)
	}
	return out
}

func TestGeoFilterBounds(t *testing.T) {
	t.Run("contains points on the circle", func(t *testing.T) {
		g := GeoFilter{Center: Coordinates{Latitude: 33.7731, Longitude: -84.4044}, RadiusKm: 10}
		box := g.Bounds()
		require.True(t, box.LngBounded)
		for deg := 0.0; deg < 360; deg += 5 {
			// walk just inside the circle along bearing deg
			p := destination(g.Center, deg, g.RadiusKm*0.999)
			require.LessOrEqual(t, g.Center.DistanceTo(p), g.RadiusKm)
			assert.GreaterOrEqual(t, p.Latitude, box.MinLat)
			assert.LessOrEqual(t, p.Latitude, box.MaxLat)
			assert.GreaterOrEqual(t, p.Longitude, box.MinLng)
			assert.LessOrEqual(t, p.Longitude, box.MaxLng)
		}
	})

	t.Run("antimeridian spans all longitudes", func(t *testing.T) {
		box := GeoFilter{Center: Coordinates{Latitude: 0, Longitude: 179.99}, RadiusKm: 50}.Bounds()
		assert.False(t, box.LngBounded)
	})

	t.Run("pole spans all longitudes", func(t *testing.T) {
		box := GeoFilter{Center: Coordinates{Latitude: 89.99, Longitude: 0}, RadiusKm: 50}.Bounds()
		assert.False(t, box.LngBounded)
		assert.Equal(t, 90.0, box.MaxLat)
	})
}

func destination(from Coordinates, bearingDeg, distKm float64) Coordinates {
	phi1 := from.Latitude * math.Pi / 180
	lambda1 := from.Longitude * math.Pi / 180
	theta := bearingDeg * math.Pi / 180
	delta := distKm / EarthRadiusKm
	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(math.Sin(theta)*math.Sin(delta)*math.Cos(phi1), math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))
	return Coordinates{Latitude: phi2 * 180 / math.Pi, Longitude: lambda2 * 180 / math.Pi}
}
