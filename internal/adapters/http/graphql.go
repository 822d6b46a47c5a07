package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	positionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Position",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	parkingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ParkingInfo",
		Fields: graphql.Fields{
			"capacity":  &graphql.Field{Type: graphql.Int},
			"occupancy": &graphql.Field{Type: graphql.Int},
			"status":    &graphql.Field{Type: graphql.String},
		},
	})

	facilityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Facility",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.String},
			"name": &graphql.Field{Type: graphql.String},
			"type": &graphql.Field{Type: graphql.String},
			"position": &graphql.Field{
				Type: positionType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := p.Source.(domain.Facility)
					return f.Position, nil
				},
			},
			"parking": &graphql.Field{
				Type: parkingType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := p.Source.(domain.Facility)
					if f.Parking == nil {
						return nil, nil
					}
					return *f.Parking, nil
				},
			},
			"distance": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := p.Source.(domain.Facility)
					if f.Distance == nil {
						return nil, nil
					}
					return *f.Distance, nil
				},
			},
		},
	})

	geometryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteGeometry",
		Fields: graphql.Fields{
			"points":          &graphql.Field{Type: graphql.NewList(positionType)},
			"distance_meters": &graphql.Field{Type: graphql.Float},
			"duration_sec":    &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"facilities": &graphql.Field{
				Type:        graphql.NewList(facilityType),
				Description: "List facilities, optionally narrowed by a filter",
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "all"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := usecases.Filter(p.Args["filter"].(string))
					if !usecases.ValidFilter(filter) {
						return nil, fmt.Errorf("unknown filter %q", filter)
					}
					return deps.Facilities.Visible(filter), nil
				},
			},
			"facility": &graphql.Field{
				Type:        facilityType,
				Description: "Get a facility by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f, err := deps.Facilities.GetByID(p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return *f, nil
				},
			},
			"facilitiesNearby": &graphql.Field{
				Type:        graphql.NewList(facilityType),
				Description: "Find facilities near a location, closest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pos := domain.Position{
						Lat: p.Args["lat"].(float64),
						Lng: p.Args["lng"].(float64),
					}
					return deps.Facilities.Nearby(pos, p.Args["radius"].(float64), p.Args["limit"].(int)), nil
				},
			},
			"searchFacilities": &graphql.Field{
				Type:        graphql.NewList(facilityType),
				Description: "Search facilities by name",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Facilities.Search(p.Args["query"].(string), p.Args["limit"].(int)), nil
				},
			},
			"parkingStatus": &graphql.Field{
				Type:        graphql.NewList(facilityType),
				Description: "Live parking table",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Facilities.Parking(), nil
				},
			},
			"directions": &graphql.Field{
				Type:        geometryType,
				Description: "Route geometry between a start and a destination facility",
				Args: graphql.FieldConfigArgument{
					"from": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"to":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					route, err := deps.Facilities.ResolveRoute(p.Args["from"].(string), p.Args["to"].(string))
					if err != nil {
						return nil, err
					}
					geometry, err := deps.Routing.Fetch(p.Context, route.Start, route.Destination)
					if err != nil {
						return nil, err
					}
					return *geometry, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
