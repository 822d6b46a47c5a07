package usecases

import (
	"context"
	"log/slog"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
)

// Camera defaults for the Ujjain event area.
var (
	DefaultCenter = domain.Position{Lat: 23.1793, Lng: 75.7849}
)

const (
	DefaultZoom    = 13
	selectedZoom   = 15
	userMarkerID   = "user"
	userZIndex     = 1000 // user marker renders above every facility marker
	selectedZIndex = 200
	fitBoundsPad   = 50
)

// markerState is what the synchronizer remembers about a marker it has
// placed on the canvas, keyed by facility ID.
type markerState struct {
	icon   ports.MarkerIcon
	zIndex int
}

// MapSynchronizer keeps a retained-mode canvas consistent with upstream
// facility/selection/route/user state using the minimum set of
// add/update/remove operations. It is driven from a single goroutine
// (the session loop); it is not safe for concurrent use.
type MapSynchronizer struct {
	canvas   ports.MapCanvas
	routing  ports.RouteGeometry
	onSelect func(facilityID string)

	initialized bool
	markers     map[string]markerState
	userShown   bool
	routeShown  bool
	activeRoute *domain.Route
}

// NewMapSynchronizer wires a synchronizer to its canvas and routing
// collaborator. onSelect reports marker clicks upward; it may be nil.
func NewMapSynchronizer(canvas ports.MapCanvas, routing ports.RouteGeometry, onSelect func(facilityID string)) *MapSynchronizer {
	return &MapSynchronizer{
		canvas:   canvas,
		routing:  routing,
		onSelect: onSelect,
		markers:  make(map[string]markerState),
	}
}

// Initialize creates the canvas state exactly once. Calling it again
// while initialized is a no-op.
func (m *MapSynchronizer) Initialize() {
	if m.initialized {
		return
	}
	m.canvas.SetView(DefaultCenter, DefaultZoom)
	m.initialized = true
}

// HandleClick resolves a canvas click on a facility marker. The user
// marker is excluded from click handling.
func (m *MapSynchronizer) HandleClick(facilityID string) {
	if facilityID == userMarkerID {
		return
	}
	if _, shown := m.markers[facilityID]; !shown {
		return
	}
	if m.onSelect != nil {
		m.onSelect(facilityID)
	}
}

// ReconcileFacilities diffs the desired facility list against the
// markers currently shown. Identity is keyed by facility ID, never by
// position: co-located facilities keep distinct markers.
func (m *MapSynchronizer) ReconcileFacilities(facilities []domain.Facility, selectedID string) {
	desired := make(map[string]struct{}, len(facilities))
	for i := range facilities {
		desired[facilities[i].ID] = struct{}{}
	}

	// Remove markers whose facility left the visible set.
	for id := range m.markers {
		if _, keep := desired[id]; !keep {
			m.canvas.RemoveMarker(id)
			delete(m.markers, id)
		}
	}

	for i := range facilities {
		f := &facilities[i]
		selected := f.ID == selectedID
		icon := IconFor(f, selected)
		z := 0
		if selected {
			z = selectedZIndex
		}

		prev, shown := m.markers[f.ID]
		if !shown {
			m.canvas.AddMarker(f.ID, f.Position, icon, z, true)
			m.markers[f.ID] = markerState{icon: icon, zIndex: z}
			continue
		}
		// Update only when the rendered appearance actually changed.
		if prev.icon != icon || prev.zIndex != z {
			m.canvas.UpdateMarker(f.ID, icon, z)
			m.markers[f.ID] = markerState{icon: icon, zIndex: z}
		}
	}
}

// ReconcileUser creates, moves, or removes the single distinguished
// user marker. It renders above all facility markers and ignores clicks.
func (m *MapSynchronizer) ReconcileUser(pos *domain.Position) {
	switch {
	case pos != nil && !m.userShown:
		m.canvas.AddMarker(userMarkerID, *pos, UserIcon(), userZIndex, false)
		m.userShown = true
	case pos != nil && m.userShown:
		m.canvas.MoveMarker(userMarkerID, *pos)
	case pos == nil && m.userShown:
		m.canvas.RemoveMarker(userMarkerID)
		m.userShown = false
	}
}

// ReconcileRoute replaces the rendered path with the given route, or
// clears it when route is nil. A failed geometry lookup clears any prior
// path and reports "no route"; a stale or half-drawn path is never left
// visible.
func (m *MapSynchronizer) ReconcileRoute(ctx context.Context, route *domain.Route) {
	if route == nil {
		m.clearRoute()
		return
	}

	geometry, err := m.routing.Fetch(ctx, route.Start, route.Destination)
	if err != nil {
		slog.Warn("route geometry lookup failed, clearing route",
			"error", err,
			"start_lat", route.Start.Lat, "start_lng", route.Start.Lng)
		m.clearRoute()
		return
	}

	if m.routeShown {
		m.canvas.ClearRoute()
	}
	m.canvas.DrawRoute(geometry)
	m.routeShown = true
	m.activeRoute = route
}

func (m *MapSynchronizer) clearRoute() {
	if m.routeShown {
		m.canvas.ClearRoute()
	}
	m.routeShown = false
	m.activeRoute = nil
}

// Recenter moves the camera. While a route is active the camera fits
// both endpoints with a fixed padding margin instead of using target.
func (m *MapSynchronizer) Recenter(target *domain.Position, zoom int) {
	if m.activeRoute != nil {
		m.canvas.FitBounds(domain.BoundsOf(m.activeRoute.Start, m.activeRoute.Destination), fitBoundsPad)
		return
	}
	if target == nil {
		return
	}
	if zoom <= 0 {
		zoom = selectedZoom
	}
	m.canvas.SetView(*target, zoom)
}

// Teardown releases everything the synchronizer placed on the canvas.
// The route overlay holds a reference into the base canvas, so it is
// released strictly first. Safe to call multiple times.
func (m *MapSynchronizer) Teardown() {
	if !m.initialized {
		return
	}
	m.clearRoute()
	for id := range m.markers {
		delete(m.markers, id)
	}
	m.userShown = false
	m.canvas.Release()
	m.initialized = false
}

// IconFor renders a facility's marker icon: a type glyph, a per-type
// colour, and for parking a status colour.
func IconFor(f *domain.Facility, selected bool) ports.MarkerIcon {
	icon := ports.MarkerIcon{Selected: selected}
	switch f.Type {
	case domain.TypeParking:
		icon.Glyph = "parking"
		icon.Color = parkingColor(f.Parking)
	case domain.TypeHotel:
		icon.Glyph = "hotel"
		icon.Color = "#8b5cf6"
	case domain.TypeEmergency:
		if f.IsPoliceStation() {
			icon.Glyph = "police_station"
		} else {
			icon.Glyph = "emergency"
		}
		icon.Color = "#ef4444"
	case domain.TypeTemple:
		icon.Glyph = "temple"
		icon.Color = "#f59e0b"
	case domain.TypeLostAndFound:
		icon.Glyph = "lost_and_found"
		icon.Color = "#14b8a6"
	case domain.TypeGhat:
		icon.Glyph = "ghat"
		icon.Color = "#0ea5e9"
	case domain.TypeAkhada:
		icon.Glyph = "akhada"
		icon.Color = "#a16207"
	}
	return icon
}

// parkingColor maps the three parking statuses to distinct colours.
func parkingColor(p *domain.ParkingInfo) string {
	if p == nil {
		return "#3b82f6"
	}
	switch p.Status {
	case domain.StatusCrowded:
		return "#dc2626"
	case domain.StatusAlternative:
		return "#16a34a"
	default:
		return "#3b82f6"
	}
}

// UserIcon renders the distinguished user-position marker.
func UserIcon() ports.MarkerIcon {
	return ports.MarkerIcon{Glyph: "user", Color: "#2563eb"}
}
