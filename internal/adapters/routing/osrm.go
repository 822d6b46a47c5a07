// Package routing fetches drivable route geometry from an
// OSRM-compatible HTTP service.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
	"github.com/simhastha/margdarshak/internal/pkg/metrics"
)

// Client implements ports.RouteGeometry against the OSRM route API.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    ports.CacheService
	cacheTTL int
}

// New builds a routing client. cache may be nil; geometry is then
// fetched on every call.
func New(baseURL string, cache ports.CacheService, cacheTTLSeconds int) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		cache:    cache,
		cacheTTL: cacheTTLSeconds,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Fetch returns the geometry of the fastest route between two points.
func (c *Client) Fetch(ctx context.Context, start, destination domain.Position) (*domain.RouteGeometry, error) {
	key := fmt.Sprintf("route:%.5f,%.5f:%.5f,%.5f", start.Lat, start.Lng, destination.Lat, destination.Lng)
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, key); err == nil {
			var cached domain.RouteGeometry
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	metrics.RouteLookups.Inc()
	geometry, err := c.fetch(ctx, start, destination)
	if err != nil {
		metrics.RouteLookupErrors.Inc()
		return nil, err
	}

	if c.cache != nil {
		if data, err := json.Marshal(geometry); err == nil {
			_ = c.cache.Set(ctx, key, data, c.cacheTTL)
		}
	}
	return geometry, nil
}

func (c *Client) fetch(ctx context.Context, start, destination domain.Position) (*domain.RouteGeometry, error) {
	// OSRM wants lng,lat order.
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, start.Lng, start.Lat, destination.Lng, destination.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build route request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch route: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("routing service returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("no route found (code %s)", parsed.Code)
	}

	route := parsed.Routes[0]
	points := make([]domain.Position, 0, len(route.Geometry.Coordinates))
	for _, coord := range route.Geometry.Coordinates {
		points = append(points, domain.Position{Lat: coord[1], Lng: coord[0]})
	}
	return &domain.RouteGeometry{
		Points:         points,
		DistanceMeters: route.Distance,
		DurationSec:    route.Duration,
	}, nil
}
