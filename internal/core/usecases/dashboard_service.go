package usecases

import (
	"context"

	"github.com/simhastha/margdarshak/internal/core/domain"
)

// Dashboard is the per-session state machine behind one map view. It
// owns the filter, selection, route, and user position, applies the
// transition rules between them, and pushes the resulting state through
// the synchronizer after every change.
//
// Like the synchronizer it drives, a Dashboard is confined to its
// session goroutine.
type Dashboard struct {
	facilities *FacilityService
	sync       *MapSynchronizer

	filter     Filter
	selectedID string
	route      *domain.Route
	userPos    *domain.Position
	hadFix     bool
}

// NewDashboard builds a session over the shared registry. The
// synchronizer's click callback must be wired to SelectFacility by the
// caller before Start.
func NewDashboard(facilities *FacilityService, sync *MapSynchronizer) *Dashboard {
	return &Dashboard{
		facilities: facilities,
		sync:       sync,
		filter:     FilterAll,
	}
}

// Start initializes the canvas and renders the opening state: every
// facility visible, no selection, no route, default camera.
func (d *Dashboard) Start(ctx context.Context) {
	d.sync.Initialize()
	d.render(ctx, nil, 0)
}

// Filter returns the active filter.
func (d *Dashboard) Filter() Filter { return d.filter }

// SelectedID returns the selected facility ID, or "" when none.
func (d *Dashboard) SelectedID() string { return d.selectedID }

// Route returns the active route, or nil.
func (d *Dashboard) Route() *domain.Route { return d.route }

// UserPosition returns the last position fix, or nil.
func (d *Dashboard) UserPosition() *domain.Position { return d.userPos }

// SetFilter switches the visible subset. Any filter change clears both
// the selection and the route; unknown filter values are ignored.
func (d *Dashboard) SetFilter(ctx context.Context, filter Filter) {
	if !ValidFilter(filter) || filter == d.filter {
		return
	}
	d.filter = filter
	d.selectedID = ""
	d.route = nil
	d.render(ctx, nil, 0)
}

// SelectFacility focuses one facility: the route is cleared, the filter
// resets to all so the selection is always visible, and the camera
// moves to it. An unknown ID is ignored.
func (d *Dashboard) SelectFacility(ctx context.Context, id string) {
	f, err := d.facilities.GetByID(id)
	if err != nil {
		return
	}
	d.selectedID = id
	d.route = nil
	d.filter = FilterAll
	d.render(ctx, &f.Position, selectedZoom)
}

// ClearSelection drops the selection without touching filter or camera.
func (d *Dashboard) ClearSelection(ctx context.Context) {
	if d.selectedID == "" {
		return
	}
	d.selectedID = ""
	d.render(ctx, nil, 0)
}

// SetRoute activates a route: the selection is cleared and the filter
// resets to all so both endpoints stay visible. The camera fits the
// route via the synchronizer.
func (d *Dashboard) SetRoute(ctx context.Context, route *domain.Route) {
	if route == nil {
		d.ClearRoute(ctx)
		return
	}
	d.route = route
	d.selectedID = ""
	d.filter = FilterAll
	d.render(ctx, nil, 0)
}

// ClearRoute drops the active route.
func (d *Dashboard) ClearRoute(ctx context.Context) {
	if d.route == nil {
		return
	}
	d.route = nil
	d.render(ctx, nil, 0)
}

// UpdatePosition records a geolocation fix. The first fix recenters the
// camera on the user; later fixes only move the marker.
func (d *Dashboard) UpdatePosition(ctx context.Context, pos domain.Position) {
	p := pos
	d.userPos = &p
	if !d.hadFix {
		d.hadFix = true
		d.render(ctx, &p, DefaultZoom)
		return
	}
	d.sync.ReconcileUser(d.userPos)
}

// LocateMe recenters the camera on the user's current position, if any.
func (d *Dashboard) LocateMe(ctx context.Context) {
	if d.userPos == nil {
		return
	}
	d.render(ctx, d.userPos, selectedZoom)
}

// Refresh re-renders after an external change to the registry, such as
// a parking status update.
func (d *Dashboard) Refresh(ctx context.Context) {
	d.render(ctx, nil, 0)
}

// Stop tears the canvas down.
func (d *Dashboard) Stop() {
	d.sync.Teardown()
}

// render pushes the full state through the synchronizer. Facility
// markers first so a selection highlight never references a missing
// marker, then the user marker, then the route, then the camera.
func (d *Dashboard) render(ctx context.Context, target *domain.Position, zoom int) {
	d.sync.ReconcileFacilities(d.facilities.Visible(d.filter), d.selectedID)
	d.sync.ReconcileUser(d.userPos)
	d.sync.ReconcileRoute(ctx, d.route)
	d.sync.Recenter(target, zoom)
}
