package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services. Resolvers
// read the caller's session from the context.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinatesType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinates",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.String},
			"name":              &graphql.Field{Type: graphql.String},
			"formatted_address": &graphql.Field{Type: graphql.String},
			"address_line1":     &graphql.Field{Type: graphql.String},
			"address_line2":     &graphql.Field{Type: graphql.String},
			"city":              &graphql.Field{Type: graphql.String},
			"country":           &graphql.Field{Type: graphql.String},
			"coordinates":       &graphql.Field{Type: coordinatesType},
			"categories":        &graphql.Field{Type: graphql.NewList(graphql.String)},
			"distance_meters":   &graphql.Field{Type: graphql.Float},
		},
	})

	originType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Origin",
		Fields: graphql.Fields{
			"source":      &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: coordinatesType},
			"label":       &graphql.Field{Type: graphql.String},
			"version":     &graphql.Field{Type: graphql.Int},
		},
	})

	suggestionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Suggestion",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.String},
			"text": &graphql.Field{Type: graphql.String},
			"kind": &graphql.Field{Type: graphql.String},
		},
	})

	radiusArg := &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: domain.DefaultRadius}

	sessionOf := func(p graphql.ResolveParams) (*Session, error) {
		sess, ok := p.Context.Value(sessionKey).(*Session)
		if !ok {
			return nil, fmt.Errorf("no session")
		}
		return sess, nil
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Category names in display order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var names []string
					for _, c := range deps.Categories.Categories() {
						names = append(names, c.Name)
					}
					return names, nil
				},
			},
			"origin": &graphql.Field{
				Type:        originType,
				Description: "The session's current search origin",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := sessionOf(p)
					if err != nil {
						return nil, err
					}
					return sess.Resolver.CurrentOrigin(), nil
				},
			},
			"places": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Search places around the session origin by text and/or category",
				Args: graphql.FieldConfigArgument{
					"text":     &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"radius":   radiusArg,
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := sessionOf(p)
					if err != nil {
						return nil, err
					}
					text := p.Args["text"].(string)
					category := p.Args["category"].(string)
					radius := p.Args["radius"].(int)
					if !domain.ValidRadius(radius) {
						return nil, fmt.Errorf("radius must be one of %v meters", domain.Radii)
					}

					origin := sess.Resolver.CurrentOrigin()
					switch {
					case category != "":
						return deps.Categories.SearchCategory(p.Context, category, origin.Coordinates, radius)
					case text != "":
						return deps.Places.Search(p.Context, sess.ID, origin, domain.SearchQuery{Text: text, RadiusMeters: radius})
					}
					return nil, fmt.Errorf("text or category is required")
				},
			},
			"suggestions": &graphql.Field{
				Type:        graphql.NewList(suggestionType),
				Description: "Recent and trending search suggestions",
				Args: graphql.FieldConfigArgument{
					"text": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := sessionOf(p)
					if err != nil {
						return nil, err
					}
					return deps.Suggestions.Suggest(p.Context, sess.ID, p.Args["text"].(string))
				},
			},
			"reverseGeocode": &graphql.Field{
				Type:        graphql.String,
				Description: "Display address for a coordinate pair",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt := domain.Coordinates{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					if !pt.Valid() {
						return nil, fmt.Errorf("coordinates out of range")
					}
					return deps.Provider.ReverseGeocode(p.Context, pt), nil
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
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        context.WithValue(c.UserContext(), sessionKey, sessionFrom(c)),
		})

		return c.JSON(result)
	}
}
