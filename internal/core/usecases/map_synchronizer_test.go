package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
	"github.com/simhastha/margdarshak/internal/core/usecases"
)

// --- Recording MapCanvas ---

// recordingCanvas captures every canvas operation as a string so tests
// can assert on exact op sequences.
type recordingCanvas struct {
	ops      []string
	released bool
}

func (c *recordingCanvas) AddMarker(id string, pos domain.Position, icon ports.MarkerIcon, zIndex int, clickable bool) {
	c.ops = append(c.ops, fmt.Sprintf("add %s z=%d clickable=%t", id, zIndex, clickable))
}

func (c *recordingCanvas) UpdateMarker(id string, icon ports.MarkerIcon, zIndex int) {
	c.ops = append(c.ops, fmt.Sprintf("update %s z=%d selected=%t", id, zIndex, icon.Selected))
}

func (c *recordingCanvas) MoveMarker(id string, pos domain.Position) {
	c.ops = append(c.ops, fmt.Sprintf("move %s", id))
}

func (c *recordingCanvas) RemoveMarker(id string) {
	c.ops = append(c.ops, fmt.Sprintf("remove %s", id))
}

func (c *recordingCanvas) DrawRoute(geometry *domain.RouteGeometry) {
	c.ops = append(c.ops, "draw_route")
}

func (c *recordingCanvas) ClearRoute() {
	c.ops = append(c.ops, "clear_route")
}

func (c *recordingCanvas) SetView(pos domain.Position, zoom int) {
	c.ops = append(c.ops, fmt.Sprintf("set_view zoom=%d", zoom))
}

func (c *recordingCanvas) FitBounds(bounds domain.Bounds, padding int) {
	c.ops = append(c.ops, fmt.Sprintf("fit_bounds pad=%d", padding))
}

func (c *recordingCanvas) Release() {
	c.ops = append(c.ops, "release")
	c.released = true
}

func (c *recordingCanvas) reset() { c.ops = nil }

// --- Mock RouteGeometry ---

type mockRouting struct {
	fetchFn func(ctx context.Context, start, destination domain.Position) (*domain.RouteGeometry, error)
}

func (m *mockRouting) Fetch(ctx context.Context, start, destination domain.Position) (*domain.RouteGeometry, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, start, destination)
	}
	return &domain.RouteGeometry{
		Points:         []domain.Position{start, destination},
		DistanceMeters: 1000,
		DurationSec:    600,
	}, nil
}

// --- Tests ---

func TestMapSynchronizer_InitializeIsIdempotent(t *testing.T) {
	canvas := &recordingCanvas{}
	sync := usecases.NewMapSynchronizer(canvas, &mockRouting{}, nil)

	sync.Initialize()
	sync.Initialize()

	if len(canvas.ops) != 1 {
		t.Fatalf("expected 1 op, got %v", canvas.ops)
	}
}

func TestMapSynchronizer_ReconcileIsMinimalDiff(t *testing.T) {
	canvas := &recordingCanvas{}
	sync := usecases.NewMapSynchronizer(canvas, &mockRouting{}, nil)
	sync.Initialize()

	facilities := usecases.Visible(testCatalog(), usecases.FilterAll)
	canvas.reset()

	sync.ReconcileFacilities(facilities, "")
	if len(canvas.ops) != len(facilities) {
		t.Fatalf("expected %d adds, got %v", len(facilities), canvas.ops)
	}

	// Second identical pass must be a no-op.
	canvas.reset()
	sync.ReconcileFacilities(facilities, "")
	if len(canvas.ops) != 0 {
		t.Fatalf("expected no ops on identical pass, got %v", canvas.ops)
	}
}

func TestMapSynchronizer_SelectionChangesExactlyTwoMarkers(t *testing.T) {
	canvas := &recordingCanvas{}
	sync := usecases.NewMapSynchronizer(canvas, &mockRouting{}, nil)
	sync.Initialize()

	facilities := usecases.Visible(testCatalog(), usecases.FilterAll)
	sync.ReconcileFacilities(facilities, "park_1")

	canvas.reset()
	sync.ReconcileFacilities(facilities, "temple_1")

	// Deselect park_1 and select temple_1; everything else untouched.
	if len(canvas.ops) != 2 {
		t.Fatalf("expected 2 updates, got %v", canvas.ops)
	}
	for _, op := range canvas.ops {
		if op != "update park_1 z=0 selected=false" && op != "update temple_1 z=200 selected=true" {
			t.Errorf("unexpected op %q", op)
		}
	}
}

func TestMapSynchronizer_NarrowingFilterRemovesMarkers(t *testing.T) {
	canvas := &recordingCanvas{}
	sync := usecases.NewMapSynchronizer(canvas, &mockRouting{}, nil)
	sync.Initialize()

	catalog := testCatalog()
	sync.ReconcileFacilities(usecases.Visible(catalog, usecases.FilterAll), "")

	canvas.reset()
	sync.ReconcileFacilities(usecases.Visible(catalog, usecases.Filter(domain.TypeParking)), "")

	removes := 0
	for _, op := range canvas.ops {
		if strings.HasPrefix(op, "remove") {
			removes++
		}
	}
	if removes != len(catalog)-1 {
		t.Errorf("expected %d removes, got %v", len(catalog)-1, canvas.ops)
	}
}

func TestMapSynchronizer_UserMarkerAboveAllAndNotClickable(t *testing.T) {
	canvas := &recordingCanvas{}
	clicked := ""
	sync := usecases.NewMapSynchronizer(canvas, &mockRouting{}, func(id string) { clicked = id })
	sync.Initialize()
	sync.ReconcileFacilities(usecases.Visible(testCatalog(), usecases.FilterAll), "")

	canvas.reset()
	pos := domain.Position{Lat: 23.18, Lng: 75.77}
	sync.ReconcileUser(&pos)

	if len(canvas.ops) != 1 || canvas.ops[0] != "add user z=1000 clickable=false" {
		t.Fatalf("unexpected ops: %v", canvas.ops)
	}

	// Later fixes move the same marker; a nil fix removes it.
	canvas.reset()
	moved := domain.Position{Lat: 23.19, Lng: 75.78}
	sync.ReconcileUser(&moved)
	sync.ReconcileUser(nil)
	if len(canvas.ops) != 2 || canvas.ops[0] != "move user" || canvas.ops[1] != "remove user" {
		t.Fatalf("unexpected ops: %v", canvas.ops)
	}

	// Clicks on the user marker never reach the selection callback.
	sync.HandleClick("user")
	if clicked != "" {
		t.Errorf("user marker click should be ignored, got %q", clicked)
	}
	sync.HandleClick("park_1")
	if clicked != "park_1" {
		t.Errorf("expected park_1 click, got %q", clicked)
	}
}

func TestMapSynchronizer_RouteFailureClearsPath(t *testing.T) {
	canvas := &recordingCanvas{}
	routing := &mockRouting{}
	sync := usecases.NewMapSynchronizer(canvas, routing, nil)
	sync.Initialize()

	route := &domain.Route{
		Start:       domain.Position{Lat: 23.1843, Lng: 75.7668},
		Destination: domain.Position{Lat: 23.1828, Lng: 75.7687},
	}
	sync.ReconcileRoute(context.Background(), route)

	routing.fetchFn = func(ctx context.Context, start, destination domain.Position) (*domain.RouteGeometry, error) {
		return nil, errors.New("routing service unavailable")
	}
	canvas.reset()
	sync.ReconcileRoute(context.Background(), route)

	if len(canvas.ops) != 1 || canvas.ops[0] != "clear_route" {
		t.Fatalf("stale path left on canvas: %v", canvas.ops)
	}
}

func TestMapSynchronizer_RecenterFitsActiveRoute(t *testing.T) {
	canvas := &recordingCanvas{}
	sync := usecases.NewMapSynchronizer(canvas, &mockRouting{}, nil)
	sync.Initialize()

	route := &domain.Route{
		Start:       domain.Position{Lat: 23.1843, Lng: 75.7668},
		Destination: domain.Position{Lat: 23.1828, Lng: 75.7687},
	}
	sync.ReconcileRoute(context.Background(), route)

	canvas.reset()
	target := domain.Position{Lat: 23.18, Lng: 75.77}
	sync.Recenter(&target, 15)

	if len(canvas.ops) != 1 || canvas.ops[0] != "fit_bounds pad=50" {
		t.Fatalf("expected fit_bounds while routed, got %v", canvas.ops)
	}

	sync.ReconcileRoute(context.Background(), nil)
	canvas.reset()
	sync.Recenter(&target, 15)
	if len(canvas.ops) != 1 || canvas.ops[0] != "set_view zoom=15" {
		t.Fatalf("expected set_view after route cleared, got %v", canvas.ops)
	}
}

func TestMapSynchronizer_TeardownReleasesRouteFirst(t *testing.T) {
	canvas := &recordingCanvas{}
	sync := usecases.NewMapSynchronizer(canvas, &mockRouting{}, nil)
	sync.Initialize()
	sync.ReconcileFacilities(usecases.Visible(testCatalog(), usecases.FilterAll), "")
	sync.ReconcileRoute(context.Background(), &domain.Route{
		Start:       domain.Position{Lat: 23.1843, Lng: 75.7668},
		Destination: domain.Position{Lat: 23.1828, Lng: 75.7687},
	})

	canvas.reset()
	sync.Teardown()

	if len(canvas.ops) != 2 || canvas.ops[0] != "clear_route" || canvas.ops[1] != "release" {
		t.Fatalf("route must be cleared before release, got %v", canvas.ops)
	}

	// Second teardown is a no-op.
	canvas.reset()
	sync.Teardown()
	if len(canvas.ops) != 0 {
		t.Fatalf("teardown not idempotent: %v", canvas.ops)
	}
}

func TestIconFor_ParkingStatusColours(t *testing.T) {
	cases := []struct {
		status domain.ParkingStatus
		color  string
	}{
		{domain.StatusNormal, "#3b82f6"},
		{domain.StatusCrowded, "#dc2626"},
		{domain.StatusAlternative, "#16a34a"},
	}
	for _, tc := range cases {
		f := &domain.Facility{Type: domain.TypeParking, Parking: &domain.ParkingInfo{Status: tc.status}}
		if icon := usecases.IconFor(f, false); icon.Color != tc.color {
			t.Errorf("status %s: expected %s, got %s", tc.status, tc.color, icon.Color)
		}
	}
}

func TestIconFor_PoliceStationGlyph(t *testing.T) {
	f := &domain.Facility{Type: domain.TypeEmergency,
		Emergency: &domain.EmergencyInfo{ServiceType: domain.KindPoliceStation}}
	if icon := usecases.IconFor(f, false); icon.Glyph != "police_station" {
		t.Errorf("expected police_station glyph, got %s", icon.Glyph)
	}
}
