package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/usecases"
)

// ListFacilitiesHandler returns the facility catalog, optionally
// narrowed by a filter, with offset/limit pagination.
func ListFacilitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := usecases.Filter(c.Query("filter", string(usecases.FilterAll)))
		if !usecases.ValidFilter(filter) {
			return errBadRequest(c, "unknown filter: "+string(filter))
		}

		facilities := deps.Facilities.Visible(filter)

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(facilities)
		if offset >= total {
			facilities = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			facilities = facilities[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: facilities, Pagination: pg})
	}
}

// NearbyFacilitiesHandler returns facilities within a radius of a point,
// closest first.
func NearbyFacilitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lng := c.QueryFloat("lng", 0)
		radius := c.QueryFloat("radius", 1000)
		limit := c.QueryInt("limit", 50)

		if lat == 0 || lng == 0 {
			return errBadRequest(c, "lat and lng are required")
		}
		if radius <= 0 || radius > 20000 {
			return errBadRequest(c, "radius must be between 1 and 20000 meters")
		}

		facilities := deps.Facilities.Nearby(domain.Position{Lat: lat, Lng: lng}, radius, limit)

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(facilities)
	}
}

// SearchFacilitiesHandler matches facility names case-insensitively.
func SearchFacilitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 20)

		return c.JSON(deps.Facilities.Search(query, limit))
	}
}

// GetFacilityHandler returns a single facility by ID.
func GetFacilityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "facility id is required")
		}
		facility, err := deps.Facilities.GetByID(id)
		if err != nil {
			return errNotFound(c, "facility not found")
		}
		return c.JSON(facility)
	}
}

// ListParkingHandler returns the live parking table.
func ListParkingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-cache")
		return c.JSON(deps.Facilities.Parking())
	}
}

// AnalyzeParkingHandler triggers a one-shot crowding analysis.
func AnalyzeParkingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Monitor == nil {
			return errInternal(c, "crowding analysis not available")
		}
		analysis, err := deps.Monitor.AnalyzeNow(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}
		LoggerFromCtx(c.UserContext()).Info("manual crowding analysis",
			"crowded", analysis.IsCrowded,
			"alternatives", len(analysis.SuggestedAlternatives))
		return c.JSON(analysis)
	}
}

// DirectionsHandler resolves a route between two endpoints and returns
// its geometry.
// GET /v1/directions?from=Ramghat%20Parking&to=Mahakaleshwar%20Temple
// GET /v1/directions?from=23.18,75.77&to=Ram%20Ghat
func DirectionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := c.Query("from")
		to := c.Query("to")
		if from == "" || to == "" {
			return errBadRequest(c, "from and to are required")
		}

		route, err := deps.Facilities.ResolveRoute(from, to)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		geometry, err := deps.Routing.Fetch(c.UserContext(), route.Start, route.Destination)
		if err != nil {
			LoggerFromCtx(c.UserContext()).Warn("route geometry fetch failed", "error", err)
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(fiber.Map{
			"route":    route,
			"geometry": geometry,
		})
	}
}
