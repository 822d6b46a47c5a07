package http

import (
	"github.com/nats-io/nats.go"

	"github.com/simhastha/margdarshak/internal/adapters/valkey"
	"github.com/simhastha/margdarshak/internal/core/ports"
	"github.com/simhastha/margdarshak/internal/core/usecases"
)

// Dependencies holds all collaborators needed by HTTP handlers.
type Dependencies struct {
	Facilities *usecases.FacilityService
	Monitor    *usecases.CrowdingMonitor
	Routing    ports.RouteGeometry
	Chat       ports.CompletionService
	NATS       *nats.Conn
	Cache      *valkey.Cache
}
