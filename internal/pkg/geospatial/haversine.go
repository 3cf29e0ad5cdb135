package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// ZoomForRadius picks the web-map zoom level that keeps a circle of
// radiusMeters around the centre on a ~400px viewport.
func ZoomForRadius(lat, radiusMeters float64) float64 {
	if radiusMeters <= 0 {
		return 15
	}
	// metres per pixel at zoom 0 on the equator
	const base = 156543.03392
	mpp := (2 * radiusMeters) / 400
	z := math.Log2(base * math.Cos(toRad(lat)) / mpp)
	return math.Max(1, math.Min(18, math.Floor(z)))
}

// ZoomToDelta converts a web-map zoom level into the latitude span a
// vector map camera region uses.
func ZoomToDelta(zoom float64) float64 {
	return 360 / math.Pow(2, zoom)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
