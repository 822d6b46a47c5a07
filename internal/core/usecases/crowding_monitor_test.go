package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
)

// --- Mock CrowdingAnalyzer ---

type mockAnalyzer struct {
	analyzeFn func(ctx context.Context, parkingData string) (*ports.CrowdingAnalysis, error)
}

func (m *mockAnalyzer) AnalyzeParking(ctx context.Context, parkingData string) (*ports.CrowdingAnalysis, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, parkingData)
	}
	return &ports.CrowdingAnalysis{}, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	statuses [][]domain.Facility
	alerts   []*ports.CrowdingAnalysis
}

func (m *mockPublisher) PublishParkingStatus(ctx context.Context, facilities []domain.Facility) error {
	m.statuses = append(m.statuses, facilities)
	return nil
}

func (m *mockPublisher) PublishCrowdingAlert(ctx context.Context, analysis *ports.CrowdingAnalysis) error {
	m.alerts = append(m.alerts, analysis)
	return nil
}

// --- Tests ---

func monitorCatalog() []domain.Facility {
	return []domain.Facility{
		{ID: "park_1", Name: "Ramghat Parking", Type: domain.TypeParking, Position: domain.Position{Lat: 23.1843, Lng: 75.7668},
			Parking: &domain.ParkingInfo{Capacity: 500, Occupancy: 500, Status: domain.StatusNormal}},
		{ID: "park_2", Name: "Freeganj Parking", Type: domain.TypeParking, Position: domain.Position{Lat: 23.17, Lng: 75.78},
			Parking: &domain.ParkingInfo{Capacity: 500, Occupancy: 0, Status: domain.StatusNormal}},
	}
}

func setOccupancy(registry *FacilityService, id string, occ int) {
	registry.ApplyParking(func(f domain.Facility) domain.Facility {
		if f.ID == id {
			return f.WithParking(occ, f.Parking.Status)
		}
		return f
	})
}

// A full lot with capacity 500 stays above the 0.95 threshold no matter
// what the ±10 walk does, so crowding is deterministic here.
func TestCrowdingMonitor_OneAnalysisPerCrowdedEpisode(t *testing.T) {
	registry := NewFacilityService(monitorCatalog())
	monitor := NewCrowdingMonitor(registry, &mockAnalyzer{}, nil, DefaultMonitorConfig())

	calls := 0
	monitor.analyze = func(ctx context.Context, parkingData string) { calls++ }

	ctx := context.Background()
	monitor.Tick(ctx)
	if calls != 1 {
		t.Fatalf("expected 1 analysis call after first crowded tick, got %d", calls)
	}

	// Still crowded on the next tick: no duplicate call.
	monitor.Tick(ctx)
	if calls != 1 {
		t.Fatalf("crowded episode must trigger at most one call, got %d", calls)
	}

	// The lot recovers, then fills again: a fresh episode, a fresh call.
	setOccupancy(registry, "park_1", 0)
	monitor.Tick(ctx)
	if calls != 1 {
		t.Fatalf("recovery must not trigger a call, got %d", calls)
	}
	setOccupancy(registry, "park_1", 500)
	monitor.Tick(ctx)
	if calls != 2 {
		t.Fatalf("expected a second call for the new episode, got %d", calls)
	}
}

func TestCrowdingMonitor_OccupancyStaysWithinBounds(t *testing.T) {
	registry := NewFacilityService(monitorCatalog())
	monitor := NewCrowdingMonitor(registry, &mockAnalyzer{}, nil, DefaultMonitorConfig())
	monitor.analyze = func(ctx context.Context, parkingData string) {}

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		monitor.Tick(ctx)
		for _, f := range registry.Parking() {
			if f.Parking.Occupancy < 0 || f.Parking.Occupancy > f.Parking.Capacity {
				t.Fatalf("occupancy out of bounds for %s: %d/%d", f.ID, f.Parking.Occupancy, f.Parking.Capacity)
			}
		}
	}
}

func TestCrowdingMonitor_TickNeverAssignsAlternative(t *testing.T) {
	registry := NewFacilityService(monitorCatalog())
	monitor := NewCrowdingMonitor(registry, &mockAnalyzer{}, nil, DefaultMonitorConfig())
	monitor.analyze = func(ctx context.Context, parkingData string) {}

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		monitor.Tick(ctx)
		for _, f := range registry.Parking() {
			if f.Parking.Status == domain.StatusAlternative {
				t.Fatalf("tick assigned alternative to %s", f.ID)
			}
		}
	}
}

func TestCrowdingMonitor_AnalyzeNowAppliesAlternatives(t *testing.T) {
	registry := NewFacilityService(monitorCatalog())
	analyzer := &mockAnalyzer{
		analyzeFn: func(ctx context.Context, parkingData string) (*ports.CrowdingAnalysis, error) {
			if !strings.Contains(parkingData, "Ramghat Parking: 500/500") {
				t.Errorf("unexpected parking data: %q", parkingData)
			}
			return &ports.CrowdingAnalysis{
				IsCrowded:             true,
				SuggestedAlternatives: []string{"Freeganj Parking"},
			}, nil
		},
	}
	monitor := NewCrowdingMonitor(registry, analyzer, nil, DefaultMonitorConfig())

	analysis, err := monitor.AnalyzeNow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !analysis.IsCrowded {
		t.Fatalf("expected crowded verdict")
	}

	alt, _ := registry.GetByID("park_2")
	if alt.Parking.Status != domain.StatusAlternative {
		t.Errorf("suggested lot not marked alternative: %s", alt.Parking.Status)
	}
	full, _ := registry.GetByID("park_1")
	if full.Parking.Status == domain.StatusAlternative {
		t.Errorf("crowded lot must not become alternative")
	}
}

func TestCrowdingMonitor_AnalyzeNowPropagatesError(t *testing.T) {
	registry := NewFacilityService(monitorCatalog())
	analyzer := &mockAnalyzer{
		analyzeFn: func(ctx context.Context, parkingData string) (*ports.CrowdingAnalysis, error) {
			return nil, errors.New("model overloaded")
		},
	}
	monitor := NewCrowdingMonitor(registry, analyzer, nil, DefaultMonitorConfig())

	if _, err := monitor.AnalyzeNow(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCrowdingMonitor_PublishesEveryTick(t *testing.T) {
	registry := NewFacilityService(monitorCatalog())
	publisher := &mockPublisher{}
	monitor := NewCrowdingMonitor(registry, &mockAnalyzer{}, publisher, DefaultMonitorConfig())
	monitor.analyze = func(ctx context.Context, parkingData string) {}

	ctx := context.Background()
	monitor.Tick(ctx)
	monitor.Tick(ctx)

	if len(publisher.statuses) != 2 {
		t.Fatalf("expected 2 status publications, got %d", len(publisher.statuses))
	}
	if len(publisher.statuses[0]) != 2 {
		t.Errorf("expected both lots in the snapshot, got %d", len(publisher.statuses[0]))
	}
}

func TestSerializeParking(t *testing.T) {
	got := SerializeParking(monitorCatalog())
	want := "Ramghat Parking: 500/500 (normal)\nFreeganj Parking: 0/500 (normal)\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
