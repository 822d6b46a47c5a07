package domain

// Route is an ephemeral request to show a path between two positions.
// It is created by a directions lookup and cleared on new selection.
type Route struct {
	Start       Position `json:"start"`
	Destination Position `json:"destination"`
}

// RouteGeometry is the rendered path for a Route as returned by the
// routing collaborator.
type RouteGeometry struct {
	Points         []Position `json:"points"`
	DistanceMeters float64    `json:"distance_meters"`
	DurationSec    float64    `json:"duration_sec"`
}
