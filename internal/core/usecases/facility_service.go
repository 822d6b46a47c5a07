package usecases

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/pkg/geospatial"
)

// Filter selects a subset of the catalog: a concrete facility type,
// FilterAll, or the synthetic police_station pseudo-type.
type Filter string

const (
	FilterAll           Filter = "all"
	FilterPoliceStation Filter = "police_station"
)

// ValidFilter reports whether f is a known filter value.
func ValidFilter(f Filter) bool {
	if f == FilterAll || f == FilterPoliceStation {
		return true
	}
	for _, t := range domain.FacilityTypes {
		if Filter(t) == f {
			return true
		}
	}
	return false
}

// Visible returns the subset of facilities matching the filter,
// preserving relative order. Pure function: no side effects, same
// inputs give the same output.
func Visible(facilities []domain.Facility, filter Filter) []domain.Facility {
	if filter == FilterAll {
		return facilities
	}
	var out []domain.Facility
	for i := range facilities {
		f := &facilities[i]
		switch filter {
		case FilterPoliceStation:
			if f.IsPoliceStation() {
				out = append(out, *f)
			}
		default:
			if f.Type == domain.FacilityType(filter) {
				out = append(out, *f)
			}
		}
	}
	return out
}

// FacilityService owns the in-memory facility registry. The catalog
// identity is fixed at construction; only parking occupancy and status
// mutate afterwards, and every mutation replaces the backing slice so
// readers always see a consistent snapshot.
type FacilityService struct {
	mu         sync.RWMutex
	facilities []domain.Facility
}

// NewFacilityService builds a registry from the seed catalog.
func NewFacilityService(seed []domain.Facility) *FacilityService {
	facilities := make([]domain.Facility, len(seed))
	copy(facilities, seed)
	return &FacilityService{facilities: facilities}
}

// Snapshot returns the current facility list. The returned slice must
// not be mutated by callers.
func (s *FacilityService) Snapshot() []domain.Facility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.facilities
}

// Visible returns the facilities matching the filter.
func (s *FacilityService) Visible(filter Filter) []domain.Facility {
	return Visible(s.Snapshot(), filter)
}

// GetByID looks a facility up by its stable ID.
func (s *FacilityService) GetByID(id string) (*domain.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.facilities {
		if s.facilities[i].ID == id {
			f := s.facilities[i]
			return &f, nil
		}
	}
	return nil, fmt.Errorf("facility %q not found", id)
}

// GetByName looks a facility up by name, case-insensitively.
func (s *FacilityService) GetByName(name string) (*domain.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.facilities {
		if strings.EqualFold(s.facilities[i].Name, name) {
			f := s.facilities[i]
			return &f, nil
		}
	}
	return nil, fmt.Errorf("facility %q not found", name)
}

// Names returns every facility name in catalog order. This is the closed
// vocabulary handed to the chat completion collaborator.
func (s *FacilityService) Names() []string {
	snapshot := s.Snapshot()
	names := make([]string, len(snapshot))
	for i := range snapshot {
		names[i] = snapshot[i].Name
	}
	return names
}

// Search returns facilities whose name contains the query,
// case-insensitively, preserving catalog order.
func (s *FacilityService) Search(query string, limit int) []domain.Facility {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	query = strings.ToLower(query)
	var out []domain.Facility
	for _, f := range s.Snapshot() {
		if strings.Contains(strings.ToLower(f.Name), query) {
			out = append(out, f)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Nearby returns facilities within radiusMeters of pos, closest first,
// with the Distance field populated.
func (s *FacilityService) Nearby(pos domain.Position, radiusMeters float64, limit int) []domain.Facility {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	var out []domain.Facility
	for _, f := range s.Snapshot() {
		d := geospatial.Distance(pos, f.Position)
		if d <= radiusMeters {
			f.Distance = &d
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Distance < *out[j].Distance
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Parking returns the parking facilities in catalog order.
func (s *FacilityService) Parking() []domain.Facility {
	return s.Visible(Filter(domain.TypeParking))
}

// ApplyParking derives a new catalog by running transform over every
// parking facility and atomically replaces the registry slice with it.
// Non-parking facilities pass through untouched. The returned slice is
// the new snapshot.
func (s *FacilityService) ApplyParking(transform func(f domain.Facility) domain.Facility) []domain.Facility {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.Facility, len(s.facilities))
	for i, f := range s.facilities {
		if f.Type == domain.TypeParking && f.Parking != nil {
			next[i] = transform(f)
		} else {
			next[i] = f
		}
	}
	s.facilities = next
	return next
}

// MergeParking folds a published parking snapshot into the registry,
// matching by ID. Unknown IDs are ignored; the identity set never grows.
func (s *FacilityService) MergeParking(updates []domain.Facility) []domain.Facility {
	byID := make(map[string]*domain.ParkingInfo, len(updates))
	for i := range updates {
		if updates[i].Parking != nil {
			byID[updates[i].ID] = updates[i].Parking
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.Facility, len(s.facilities))
	for i, f := range s.facilities {
		if p, ok := byID[f.ID]; ok && f.Parking != nil {
			next[i] = f.WithParking(p.Occupancy, p.Status)
		} else {
			next[i] = f
		}
	}
	s.facilities = next
	return next
}
