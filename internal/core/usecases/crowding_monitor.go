package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
	"github.com/simhastha/margdarshak/internal/pkg/metrics"
)

// MonitorConfig holds the simulation parameters. The walk parameters are
// illustrative, not derived from a real sensor feed, so they stay
// configurable rather than baked in.
type MonitorConfig struct {
	Interval     time.Duration // tick period
	WalkDelta    int           // symmetric occupancy delta bound per tick
	CrowdedRatio float64       // occupancy/capacity above this is crowded
}

// DefaultMonitorConfig matches the original simulation: 10s ticks,
// ±10 occupancy walk, 0.95 crowding threshold.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{Interval: 10 * time.Second, WalkDelta: 10, CrowdedRatio: 0.95}
}

// CrowdingMonitor drives the parking simulation: a bounded random walk
// over occupancy, status derivation, and an LLM analysis pass for lots
// that newly became crowded.
type CrowdingMonitor struct {
	facilities *FacilityService
	analyzer   ports.CrowdingAnalyzer
	publisher  ports.EventPublisher
	cfg        MonitorConfig
	rng        *rand.Rand

	mu       sync.Mutex
	notified map[string]bool // lot IDs with an analysis call already issued

	// analyze is swapped out in tests to run the analysis synchronously.
	analyze func(ctx context.Context, parkingData string)
}

// NewCrowdingMonitor wires the monitor. publisher may be nil (status
// changes are then only visible through the registry).
func NewCrowdingMonitor(facilities *FacilityService, analyzer ports.CrowdingAnalyzer, publisher ports.EventPublisher, cfg MonitorConfig) *CrowdingMonitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.WalkDelta <= 0 {
		cfg.WalkDelta = 10
	}
	if cfg.CrowdedRatio <= 0 || cfg.CrowdedRatio >= 1 {
		cfg.CrowdedRatio = 0.95
	}
	m := &CrowdingMonitor{
		facilities: facilities,
		analyzer:   analyzer,
		publisher:  publisher,
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		notified:   make(map[string]bool),
	}
	m.analyze = m.runAnalysis
	return m
}

// Run ticks until the context is cancelled.
func (m *CrowdingMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	slog.Info("crowding monitor started",
		"interval", m.cfg.Interval.String(),
		"walk_delta", m.cfg.WalkDelta,
		"crowded_ratio", m.cfg.CrowdedRatio)

	for {
		select {
		case <-ticker.C:
			m.Tick(ctx)
		case <-ctx.Done():
			slog.Info("crowding monitor stopped")
			return
		}
	}
}

// Tick applies one simulation step: walk occupancy, derive status,
// detect newly crowded lots, and kick off at most one analysis call.
func (m *CrowdingMonitor) Tick(ctx context.Context) {
	snapshot := m.facilities.ApplyParking(func(f domain.Facility) domain.Facility {
		p := f.Parking
		delta := m.rng.Intn(2*m.cfg.WalkDelta+1) - m.cfg.WalkDelta
		occ := domain.ClampOccupancy(p.Occupancy+delta, p.Capacity)

		status := domain.StatusNormal
		if float64(occ)/float64(p.Capacity) > m.cfg.CrowdedRatio {
			status = domain.StatusCrowded
		}
		// The alternative label is assigned only by the analysis step.
		return f.WithParking(occ, status)
	})
	metrics.MonitorTicks.Inc()

	parking := Visible(snapshot, Filter(domain.TypeParking))

	m.mu.Lock()
	// A lot that recovered can be re-notified if it becomes crowded again.
	for id := range m.notified {
		if !isCrowded(parking, id) {
			delete(m.notified, id)
		}
	}
	var newlyCrowded []string
	for i := range parking {
		p := &parking[i]
		if p.Parking.Status == domain.StatusCrowded && !m.notified[p.ID] {
			newlyCrowded = append(newlyCrowded, p.ID)
		}
	}
	// Record before the call resolves so the next tick does not fire a
	// duplicate request while this one is in flight.
	for _, id := range newlyCrowded {
		m.notified[id] = true
	}
	m.mu.Unlock()

	if m.publisher != nil {
		if err := m.publisher.PublishParkingStatus(ctx, parking); err != nil {
			slog.Warn("publish parking status", "error", err)
		}
	}

	if len(newlyCrowded) == 0 {
		return
	}

	slog.Info("newly crowded lots detected", "count", len(newlyCrowded), "ids", newlyCrowded)
	m.analyze(ctx, SerializeParking(parking))
}

// runAnalysis invokes the external analyzer off the tick goroutine and
// applies suggested alternatives back onto the registry.
func (m *CrowdingMonitor) runAnalysis(ctx context.Context, parkingData string) {
	go func() {
		analysis, err := m.analyzer.AnalyzeParking(ctx, parkingData)
		if err != nil {
			// Skip this cycle; the next tick re-evaluates from scratch.
			metrics.AnalysisErrors.Inc()
			slog.Warn("crowding analysis failed, skipping cycle", "error", err)
			return
		}
		metrics.AnalysisCalls.Inc()
		if !analysis.IsCrowded {
			return
		}
		m.applyAlternatives(analysis.SuggestedAlternatives)
		if m.publisher != nil {
			if err := m.publisher.PublishCrowdingAlert(ctx, analysis); err != nil {
				slog.Warn("publish crowding alert", "error", err)
			}
		}
	}()
}

// applyAlternatives marks every lot named in the suggestions as an
// alternative. This overrides the tick-derived status until the next
// tick recomputes it.
func (m *CrowdingMonitor) applyAlternatives(names []string) {
	suggested := make(map[string]bool, len(names))
	for _, n := range names {
		suggested[strings.ToLower(strings.TrimSpace(n))] = true
	}
	m.facilities.ApplyParking(func(f domain.Facility) domain.Facility {
		if suggested[strings.ToLower(f.Name)] {
			return f.WithParking(f.Parking.Occupancy, domain.StatusAlternative)
		}
		return f
	})
}

// AnalyzeNow runs a one-shot analysis over the current parking table,
// bypassing the newly-crowded gate. Backs the manual analyze endpoint.
func (m *CrowdingMonitor) AnalyzeNow(ctx context.Context) (*ports.CrowdingAnalysis, error) {
	parking := m.facilities.Parking()
	analysis, err := m.analyzer.AnalyzeParking(ctx, SerializeParking(parking))
	if err != nil {
		metrics.AnalysisErrors.Inc()
		return nil, fmt.Errorf("analyze parking: %w", err)
	}
	metrics.AnalysisCalls.Inc()
	if analysis.IsCrowded {
		m.applyAlternatives(analysis.SuggestedAlternatives)
	}
	return analysis, nil
}

// SerializeParking renders the parking table for the analyzer, one
// "Name: occupancy/capacity (status)" line per lot.
func SerializeParking(parking []domain.Facility) string {
	var b strings.Builder
	for i := range parking {
		p := parking[i].Parking
		if p == nil {
			continue
		}
		fmt.Fprintf(&b, "%s: %d/%d (%s)\n", parking[i].Name, p.Occupancy, p.Capacity, p.Status)
	}
	return b.String()
}

func isCrowded(parking []domain.Facility, id string) bool {
	for i := range parking {
		if parking[i].ID == id {
			return parking[i].Parking != nil && parking[i].Parking.Status == domain.StatusCrowded
		}
	}
	return false
}
