package usecases

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simhastha/margdarshak/internal/core/domain"
)

// ResolveRoute turns the textual from/to of a directions request into a
// Route. The start may be a facility name or a "lat,lng" coordinate
// pair; the destination must be a facility name. An unknown name fails
// with the full list of valid names so the caller can self-correct.
func (s *FacilityService) ResolveRoute(from, to string) (*domain.Route, error) {
	start, err := s.resolveEndpoint(from)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	dest, err := s.GetByName(to)
	if err != nil {
		return nil, fmt.Errorf("to: unknown facility %q, valid names are: %s", to, strings.Join(s.Names(), ", "))
	}
	return &domain.Route{Start: *start, Destination: dest.Position}, nil
}

// resolveEndpoint accepts either a "lat,lng" pair or a facility name.
func (s *FacilityService) resolveEndpoint(value string) (*domain.Position, error) {
	if pos, ok := parseCoords(value); ok {
		return pos, nil
	}
	f, err := s.GetByName(value)
	if err != nil {
		return nil, fmt.Errorf("unknown facility %q, valid names are: %s", value, strings.Join(s.Names(), ", "))
	}
	return &f.Position, nil
}

// parseCoords parses "lat,lng". A facility name never parses: any part
// that is not a valid float rejects the whole value.
func parseCoords(value string) (*domain.Position, bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return nil, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, false
	}
	return &domain.Position{Lat: lat, Lng: lng}, true
}
