package geospatial

import (
	"math"

	"github.com/simhastha/margdarshak/internal/core/domain"
)

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// positions, by the haversine formula. The catalog spans a few
// kilometres around Ujjain, so spherical accuracy is plenty.
func Distance(a, b domain.Position) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
