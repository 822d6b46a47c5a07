package usecases_test

import (
	"strings"
	"testing"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/usecases"
)

func testCatalog() []domain.Facility {
	return []domain.Facility{
		{ID: "park_1", Name: "Ramghat Parking", Type: domain.TypeParking, Position: domain.Position{Lat: 23.1843, Lng: 75.7668},
			Parking: &domain.ParkingInfo{Capacity: 500, Occupancy: 450, Status: domain.StatusNormal}},
		{ID: "temple_1", Name: "Mahakaleshwar Temple", Type: domain.TypeTemple, Position: domain.Position{Lat: 23.1828, Lng: 75.7687},
			Temple: &domain.TempleInfo{Deity: "Lord Shiva"}},
		{ID: "emer_2", Name: "Police Control Room", Type: domain.TypeEmergency, Position: domain.Position{Lat: 23.1820, Lng: 75.7801},
			Emergency: &domain.EmergencyInfo{ServiceType: domain.KindPolice, Contact: "100"}},
		{ID: "emer_5", Name: "Mahakal Police Station", Type: domain.TypeEmergency, Position: domain.Position{Lat: 23.1825, Lng: 75.7675},
			Emergency: &domain.EmergencyInfo{ServiceType: domain.KindPoliceStation, Contact: "100"}},
		{ID: "ghat_1", Name: "Ram Ghat", Type: domain.TypeGhat, Position: domain.Position{Lat: 23.1855, Lng: 75.7659},
			Ghat: &domain.GhatInfo{River: "Shipra"}},
	}
}

func TestVisible_AllReturnsEverything(t *testing.T) {
	catalog := testCatalog()
	got := usecases.Visible(catalog, usecases.FilterAll)
	if len(got) != len(catalog) {
		t.Fatalf("expected %d facilities, got %d", len(catalog), len(got))
	}
	for i := range got {
		if got[i].ID != catalog[i].ID {
			t.Errorf("order changed at %d: expected %s, got %s", i, catalog[i].ID, got[i].ID)
		}
	}
}

func TestVisible_TypeFilterPreservesOrder(t *testing.T) {
	catalog := testCatalog()
	got := usecases.Visible(catalog, usecases.Filter(domain.TypeEmergency))
	if len(got) != 2 {
		t.Fatalf("expected 2 emergency facilities, got %d", len(got))
	}
	if got[0].ID != "emer_2" || got[1].ID != "emer_5" {
		t.Errorf("expected emer_2 then emer_5, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestVisible_PoliceStationIsSubsetOfEmergency(t *testing.T) {
	got := usecases.Visible(testCatalog(), usecases.FilterPoliceStation)
	if len(got) != 1 {
		t.Fatalf("expected 1 police station, got %d", len(got))
	}
	if got[0].ID != "emer_5" {
		t.Errorf("expected emer_5, got %s", got[0].ID)
	}
}

func TestVisible_IsPure(t *testing.T) {
	catalog := testCatalog()
	first := usecases.Visible(catalog, usecases.Filter(domain.TypeGhat))
	second := usecases.Visible(catalog, usecases.Filter(domain.TypeGhat))
	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Errorf("same input gave different output: %v vs %v", first, second)
	}
	if catalog[0].ID != "park_1" {
		t.Errorf("input slice was mutated")
	}
}

func TestValidFilter(t *testing.T) {
	for _, f := range []usecases.Filter{usecases.FilterAll, usecases.FilterPoliceStation, "parking", "ghat"} {
		if !usecases.ValidFilter(f) {
			t.Errorf("expected %q to be valid", f)
		}
	}
	if usecases.ValidFilter("restaurant") {
		t.Errorf("expected restaurant to be invalid")
	}
}

func TestClampOccupancy(t *testing.T) {
	if got := domain.ClampOccupancy(-5, 100); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := domain.ClampOccupancy(105, 100); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
	if got := domain.ClampOccupancy(42, 100); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestFacilityService_GetByID(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())

	f, err := svc.GetByID("temple_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "Mahakaleshwar Temple" {
		t.Errorf("expected Mahakaleshwar Temple, got %s", f.Name)
	}

	if _, err := svc.GetByID("nope"); err == nil {
		t.Errorf("expected error for unknown ID")
	}
}

func TestFacilityService_GetByName_CaseInsensitive(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())
	f, err := svc.GetByName("ramghat parking")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ID != "park_1" {
		t.Errorf("expected park_1, got %s", f.ID)
	}
}

func TestFacilityService_Search(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())
	got := svc.Search("police", 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].ID != "emer_2" {
		t.Errorf("expected catalog order, got %s first", got[0].ID)
	}
}

func TestFacilityService_Nearby_SortedByDistance(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())
	got := svc.Nearby(domain.Position{Lat: 23.1828, Lng: 75.7687}, 2000, 10)
	if len(got) == 0 {
		t.Fatalf("expected nearby results")
	}
	if got[0].ID != "temple_1" {
		t.Errorf("expected temple_1 closest, got %s", got[0].ID)
	}
	for i := 1; i < len(got); i++ {
		if *got[i-1].Distance > *got[i].Distance {
			t.Errorf("results not sorted by distance at %d", i)
		}
	}
}

func TestFacilityService_ApplyParking_OnlyTouchesParking(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())
	svc.ApplyParking(func(f domain.Facility) domain.Facility {
		return f.WithParking(499, domain.StatusCrowded)
	})

	park, err := svc.GetByID("park_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if park.Parking.Occupancy != 499 || park.Parking.Status != domain.StatusCrowded {
		t.Errorf("parking not updated: %+v", park.Parking)
	}

	temple, err := svc.GetByID("temple_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if temple.Temple == nil || temple.Temple.Deity != "Lord Shiva" {
		t.Errorf("non-parking facility was touched: %+v", temple)
	}
}

func TestFacilityService_MergeParking_IgnoresUnknownIDs(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())
	before := len(svc.Snapshot())

	svc.MergeParking([]domain.Facility{
		{ID: "park_1", Parking: &domain.ParkingInfo{Capacity: 500, Occupancy: 300, Status: domain.StatusAlternative}},
		{ID: "ghost_lot", Parking: &domain.ParkingInfo{Capacity: 100, Occupancy: 50, Status: domain.StatusNormal}},
	})

	if got := len(svc.Snapshot()); got != before {
		t.Fatalf("identity set grew: %d -> %d", before, got)
	}
	park, _ := svc.GetByID("park_1")
	if park.Parking.Occupancy != 300 || park.Parking.Status != domain.StatusAlternative {
		t.Errorf("merge not applied: %+v", park.Parking)
	}
}

func TestResolveRoute_NameToName(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())
	route, err := svc.ResolveRoute("Ramghat Parking", "Mahakaleshwar Temple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Start.Lat != 23.1843 || route.Start.Lng != 75.7668 {
		t.Errorf("wrong start: %+v", route.Start)
	}
	if route.Destination.Lat != 23.1828 || route.Destination.Lng != 75.7687 {
		t.Errorf("wrong destination: %+v", route.Destination)
	}
}

func TestResolveRoute_CoordinateStart(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())
	route, err := svc.ResolveRoute("23.18, 75.77", "Ram Ghat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Start.Lat != 23.18 || route.Start.Lng != 75.77 {
		t.Errorf("coordinates not parsed: %+v", route.Start)
	}
}

func TestResolveRoute_UnknownDestinationListsNames(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())
	_, err := svc.ResolveRoute("Ramghat Parking", "Taj Mahal")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "Mahakaleshwar Temple") {
		t.Errorf("error should list valid names, got: %v", err)
	}
}

func TestResolveRoute_CoordinateDestinationRejected(t *testing.T) {
	svc := usecases.NewFacilityService(testCatalog())
	if _, err := svc.ResolveRoute("Ramghat Parking", "23.18,75.77"); err == nil {
		t.Errorf("destination must be a facility name")
	}
}
