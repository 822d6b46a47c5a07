package ports

import (
	"context"

	"github.com/simhastha/margdarshak/internal/core/domain"
)

// CompletionService is the external chat completion collaborator. It
// returns a finite, forward-only stream of fragments; the channel is
// closed when the stream ends. A fragment with Err set is always the
// last one delivered.
type CompletionService interface {
	StreamChat(ctx context.Context, history []domain.ChatMessage, message string, userPos *domain.Position) (<-chan domain.ChatFragment, error)
}

// CrowdingAnalysis is the verdict of the external parking analysis.
type CrowdingAnalysis struct {
	IsCrowded             bool     `json:"isCrowded"`
	SuggestedAlternatives []string `json:"suggestedAlternatives"`
}

// CrowdingAnalyzer inspects a serialized parking snapshot and suggests
// alternative lots when unusual crowding is detected.
type CrowdingAnalyzer interface {
	AnalyzeParking(ctx context.Context, parkingData string) (*CrowdingAnalysis, error)
}

// RouteGeometry is the external routing collaborator used to render the
// on-map path between two positions.
type RouteGeometry interface {
	Fetch(ctx context.Context, start, destination domain.Position) (*domain.RouteGeometry, error)
}

// MapCanvas is the retained-mode map surface driven by the synchronizer.
// Implementations are not required to be safe for concurrent use; the
// synchronizer serializes all calls.
type MapCanvas interface {
	AddMarker(id string, pos domain.Position, icon MarkerIcon, zIndex int, clickable bool)
	UpdateMarker(id string, icon MarkerIcon, zIndex int)
	MoveMarker(id string, pos domain.Position)
	RemoveMarker(id string)
	DrawRoute(geometry *domain.RouteGeometry)
	ClearRoute()
	SetView(pos domain.Position, zoom int)
	FitBounds(bounds domain.Bounds, padding int)
	Release()
}

// MarkerIcon describes how a marker is rendered: a per-type glyph and
// colour, selection highlight, and for parking a status colour.
type MarkerIcon struct {
	Glyph    string `json:"glyph"`
	Color    string `json:"color"`
	Selected bool   `json:"selected"`
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishParkingStatus(ctx context.Context, facilities []domain.Facility) error
	PublishCrowdingAlert(ctx context.Context, analysis *CrowdingAnalysis) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeParkingStatus(ctx context.Context, handler func(ctx context.Context, facilities []domain.Facility) error) error
	SubscribeCrowdingAlerts(ctx context.Context, handler func(ctx context.Context, analysis *CrowdingAnalysis) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
