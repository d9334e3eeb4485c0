package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/railwatch/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	reportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HazardReport",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"role":          &graphql.Field{Type: graphql.String},
			"reporter_name": &graphql.Field{Type: graphql.String},
			"location":      &graphql.Field{Type: geoPointType},
			"note":          &graphql.Field{Type: graphql.String},
			"status":        &graphql.Field{Type: graphql.String},
			"reported_at":   &graphql.Field{Type: graphql.DateTime},
			"expires_at":    &graphql.Field{Type: graphql.DateTime},
			"resolved_at":   &graphql.Field{Type: graphql.DateTime},
			"distance":      &graphql.Field{Type: graphql.Float},
		},
	})

	detectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Detection",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"camera_id":   &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"confidence":  &graphql.Field{Type: graphql.Float},
			"image_url":   &graphql.Field{Type: graphql.String},
			"observed_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"device_id":  &graphql.Field{Type: graphql.String},
			"started_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"reports": &graphql.Field{
				Type:        graphql.NewList(reportType),
				Description: "Active hazard reports",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Reports.ListActive(p.Context)
				},
			},
			"report": &graphql.Field{
				Type:        reportType,
				Description: "Get a hazard report by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Reports.Get(p.Context, p.Args["id"].(string))
				},
			},
			"reportsNearby": &graphql.Field{
				Type:        graphql.NewList(reportType),
				Description: "Active reports near a location, closest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					at := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Reports.FindNearby(p.Context, at, p.Args["radius"].(float64), p.Args["limit"].(int))
				},
			},
			"detections": &graphql.Field{
				Type:        graphql.NewList(detectionType),
				Description: "Recent camera detections",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Detections.ListRecent(p.Context)
				},
			},
			"sessions": &graphql.Field{
				Type:        graphql.NewList(sessionType),
				Description: "Running monitoring sessions",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Sessions.List(), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"reportHazard": &graphql.Field{
				Type:        reportType,
				Description: "File an elephant sighting",
				Args: graphql.FieldConfigArgument{
					"role": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lat":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"note": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Reports.Create(p.Context, &domain.HazardReport{
						Role:     domain.ReporterRole(p.Args["role"].(string)),
						Location: domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)},
						Note:     p.Args["note"].(string),
					})
				},
			},
			"resolveReport": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Mark a report resolved",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := deps.Reports.Resolve(p.Context, p.Args["id"].(string)); err != nil {
						return false, err
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
