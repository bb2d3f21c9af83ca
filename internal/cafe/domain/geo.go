package domain

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Coordinates is a WGS84 position in degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Coordinates{}, Validationf("latitude must be between -90 and 90")
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return Coordinates{}, Validationf("longitude must be between -180 and 180")
	}
	return Coordinates{Latitude: lat, Longitude: lng}, nil
}

// DistanceKm returns the haversine distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// rounding can push a just outside [0,1] for identical or antipodal points
	a = math.Max(0, math.Min(1, a))

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// DistanceTo returns the distance in kilometres from c to other.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	return DistanceKm(c.Latitude, c.Longitude, other.Latitude, other.Longitude)
}

// FilterByRadius keeps cafes whose distance to center is at most radiusKm, in input order.
func FilterByRadius(cafes []Cafe, center Coordinates, radiusKm float64) []Cafe {
	result := make([]Cafe, 0, len(cafes))
	for _, cafe := range cafes {
		if center.DistanceTo(cafe.Location) <= radiusKm {
			result = append(result, cafe)
		}
	}
	return result
}

// BoundingBox is a latitude/longitude rectangle. When LngBounded is false the
// box spans every longitude.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	LngBounded     bool
}

// Bounds returns a rectangle containing every point within RadiusKm of Center.
// Stores use it to narrow candidates before the exact distance check.
func (g GeoFilter) Bounds() BoundingBox {
	angular := g.RadiusKm / EarthRadiusKm
	dLat := angular * 180 / math.Pi
	box := BoundingBox{
		MinLat: math.Max(-90, g.Center.Latitude-dLat),
		MaxLat: math.Min(90, g.Center.Latitude+dLat),
		MinLng: -180,
		MaxLng: 180,
	}
	if box.MinLat == -90 || box.MaxLat == 90 || angular >= math.Pi/2 {
		return box
	}

	sinRatio := math.Sin(angular) / math.Cos(g.Center.Latitude*math.Pi/180)
	if sinRatio >= 1 {
		return box
	}
	dLng := math.Asin(sinRatio) * 180 / math.Pi
	minLng, maxLng := g.Center.Longitude-dLng, g.Center.Longitude+dLng
	if minLng < -180 || maxLng > 180 {
		return box
	}
	box.MinLng, box.MaxLng, box.LngBounded = minLng, maxLng, true
	return box
}
