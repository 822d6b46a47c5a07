package domain

// Position represents a geographic coordinate (WGS 84).
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsOf returns the smallest box containing both positions.
func BoundsOf(a, b Position) Bounds {
	bounds := Bounds{MinLat: a.Lat, MaxLat: a.Lat, MinLng: a.Lng, MaxLng: a.Lng}
	if b.Lat < bounds.MinLat {
		bounds.MinLat = b.Lat
	}
	if b.Lat > bounds.MaxLat {
		bounds.MaxLat = b.Lat
	}
	if b.Lng < bounds.MinLng {
		bounds.MinLng = b.Lng
	}
	if b.Lng > bounds.MaxLng {
		bounds.MaxLng = b.Lng
	}
	return bounds
}
