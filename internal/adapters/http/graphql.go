package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/c2cexplorer/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	routeSummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteSummary",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.Int},
			"title":            &graphql.Field{Type: graphql.String},
			"activities":       &graphql.Field{Type: graphql.NewList(graphql.String)},
			"activities_label": &graphql.Field{Type: graphql.String},
			"summary":          &graphql.Field{Type: graphql.String},
			"truncated":        &graphql.Field{Type: graphql.Boolean},
		},
	})

	routeDetailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteDetail",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.Int},
			"title":            &graphql.Field{Type: graphql.String},
			"activities":       &graphql.Field{Type: graphql.NewList(graphql.String)},
			"activities_label": &graphql.Field{Type: graphql.String},
			"elevation_min":    &graphql.Field{Type: graphql.Int},
			"elevation_max":    &graphql.Field{Type: graphql.Int},
			"elevation":        &graphql.Field{Type: graphql.String},
			"description":      &graphql.Field{Type: graphql.String},
			"lang":             &graphql.Field{Type: graphql.String},
		},
	})

	noticeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Notice",
		Fields: graphql.Fields{
			"kind":    &graphql.Field{Type: graphql.String},
			"message": &graphql.Field{Type: graphql.String},
		},
	})

	pageWindowType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageWindow",
		Fields: graphql.Fields{
			"offset":      &graphql.Field{Type: graphql.Int},
			"limit":       &graphql.Field{Type: graphql.Int},
			"total":       &graphql.Field{Type: graphql.Int},
			"page":        &graphql.Field{Type: graphql.Int},
			"start":       &graphql.Field{Type: graphql.Int},
			"end":         &graphql.Field{Type: graphql.Int},
			"has_prev":    &graphql.Field{Type: graphql.Boolean},
			"has_next":    &graphql.Field{Type: graphql.Boolean},
			"prev_offset": &graphql.Field{Type: graphql.Int},
			"next_offset": &graphql.Field{Type: graphql.Int},
		},
	})

	searchPageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchPage",
		Fields: graphql.Fields{
			"documents":      &graphql.Field{Type: graphql.NewList(routeSummaryType)},
			"total":          &graphql.Field{Type: graphql.Int},
			"limit":          &graphql.Field{Type: graphql.Int},
			"offset":         &graphql.Field{Type: graphql.Int},
			"strategy":       &graphql.Field{Type: graphql.String},
			"area_ids":       &graphql.Field{Type: graphql.NewList(graphql.String)},
			"explicit_areas": &graphql.Field{Type: graphql.Boolean},
			"query":          &graphql.Field{Type: graphql.String},
			"fallback_query": &graphql.Field{Type: graphql.String},
			"activities":     &graphql.Field{Type: graphql.String},
			"notices":        &graphql.Field{Type: graphql.NewList(noticeType)},
			"pagination":     &graphql.Field{Type: pageWindowType},
		},
	})

	areaType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Area",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"label":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"default":     &graphql.Field{Type: graphql.Boolean},
		},
	})

	activityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ActivityPreset",
		Fields: graphql.Fields{
			"label": &graphql.Field{Type: graphql.String},
			"value": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"routes": &graphql.Field{
				Type:        searchPageType,
				Description: "Search routes in the region",
				Args: graphql.FieldConfigArgument{
					"q":                 &graphql.ArgumentConfig{Type: graphql.String},
					"act":               &graphql.ArgumentConfig{Type: graphql.String},
					"limit":             &graphql.ArgumentConfig{Type: graphql.Int},
					"offset":            &graphql.ArgumentConfig{Type: graphql.Int},
					"areas":             &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
					"fallbackToBbox":    &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: true},
					"fallbackWhenEmpty": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw := usecases.RawSearchParams{}
					raw.Query, _ = p.Args["q"].(string)
					raw.Activities, _ = p.Args["act"].(string)
					if v, ok := p.Args["limit"].(int); ok {
						raw.Limit = strconv.Itoa(v)
					}
					if v, ok := p.Args["offset"].(int); ok {
						raw.Offset = strconv.Itoa(v)
					}
					if list, ok := p.Args["areas"].([]interface{}); ok {
						raw.Areas = usecases.NormalizeAreaIDs(list)
					}

					req := usecases.NormalizeSearchRequest(raw, deps.Search.Areas())
					policy := usecases.DefaultPolicy()
					if v, ok := p.Args["fallbackToBbox"].(bool); ok {
						policy.FallbackToBbox = v
					}
					if v, ok := p.Args["fallbackWhenEmpty"].(bool); ok {
						policy.FallbackWhenEmpty = &v
					}

					outcome, err := deps.Search.Search(p.Context, req, policy)
					if err != nil {
						return nil, err
					}
					return newSearchPage(outcome), nil
				},
			},
			"route": &graphql.Field{
				Type:        routeDetailType,
				Description: "Get a route by document id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Routes.GetDetail(p.Context, id)
				},
			},
			"areas": &graphql.Field{
				Type:        graphql.NewList(areaType),
				Description: "Area catalog in display order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var out []map[string]interface{}
					for _, a := range areaItems(deps.Search.Areas()) {
						out = append(out, map[string]interface{}{
							"id":          a.ID,
							"label":       a.Label,
							"description": a.Description,
							"default":     a.Default,
						})
					}
					return out, nil
				},
			},
			"activities": &graphql.Field{
				Type:        graphql.NewList(activityType),
				Description: "Activity filter presets",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return usecases.ActivityPresets(), nil
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
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
