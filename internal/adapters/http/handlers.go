package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/usecases"
)

// SearchPage is the JSON body of a route listing.
type SearchPage struct {
	Documents     []domain.RouteSummary `json:"documents"`
	Total         int                   `json:"total"`
	Limit         int                   `json:"limit"`
	Offset        int                   `json:"offset"`
	Strategy      domain.Strategy       `json:"strategy"`
	AreaIDs       []string              `json:"area_ids"`
	ExplicitAreas bool                  `json:"explicit_areas"`
	Query         string                `json:"query,omitempty"`
	FallbackQuery string                `json:"fallback_query,omitempty"`
	Activities    string                `json:"activities"`
	Notices       []domain.Notice       `json:"notices"`
	Pagination    domain.PageWindow     `json:"pagination"`
}

// AreaItem is an entry of the area catalog.
type AreaItem struct {
	domain.AreaOption
	Default bool `json:"default"`
}

// ListRoutesHandler searches routes in the region.
//
// Query parameters: q, act, limit, offset, areas (repeatable or comma-separated),
// fallback_to_bbox (default true), fallback_when_empty (optional).
// Malformed values are normalized rather than rejected.
func ListRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := usecases.NormalizeSearchRequest(usecases.RawSearchParams{
			Query:      c.Query("q"),
			Activities: c.Query("act"),
			Limit:      c.Query("limit"),
			Offset:     c.Query("offset"),
			Areas:      queryValues(c, "areas"),
		}, deps.Search.Areas())

		outcome, err := deps.Search.Search(c.UserContext(), req, searchPolicy(c))
		if err != nil {
			return errFromService(c, err)
		}

		SetLinkHeaders(c, req, outcome.Window)
		return c.JSON(newSearchPage(outcome))
	}
}

// GetRouteHandler returns a route detail by document id.
func GetRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "route id is required")
		}
		detail, err := deps.Routes.GetDetail(c.UserContext(), id)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(detail)
	}
}

// ListAreasHandler returns the area catalog in display order.
func ListAreasHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(areaItems(deps.Search.Areas()))
	}
}

// ListActivitiesHandler returns the activity filter presets.
func ListActivitiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(fiber.Map{
			"default": usecases.DefaultActivities,
			"presets": usecases.ActivityPresets(),
		})
	}
}

func newSearchPage(o *domain.SearchOutcome) SearchPage {
	docs := make([]domain.RouteSummary, 0, len(o.Result.Documents))
	for _, r := range o.Result.Documents {
		docs = append(docs, domain.Summarize(r))
	}
	areaIDs := o.Result.AreaIDs
	if areaIDs == nil {
		areaIDs = []string{}
	}
	return SearchPage{
		Documents:     docs,
		Total:         o.Result.Total,
		Limit:         o.Window.Limit,
		Offset:        o.Result.Offset,
		Strategy:      o.Result.Strategy,
		AreaIDs:       areaIDs,
		ExplicitAreas: o.Request.ExplicitAreas,
		Query:         o.Request.Query,
		FallbackQuery: o.FallbackQuery,
		Activities:    o.Request.Activities,
		Notices:       o.Notices,
		Pagination:    o.Window,
	}
}

func areaItems(reg *usecases.AreaRegistry) []AreaItem {
	areas := reg.Areas()
	items := make([]AreaItem, 0, len(areas))
	for _, a := range areas {
		items = append(items, AreaItem{AreaOption: a, Default: reg.IsDefault(a.ID)})
	}
	return items
}

// searchPolicy reads the fallback switches. Unparseable values keep the defaults.
func searchPolicy(c *fiber.Ctx) domain.SearchPolicy {
	policy := usecases.DefaultPolicy()
	if v, ok := queryBool(c, "fallback_to_bbox"); ok {
		policy.FallbackToBbox = v
	}
	if v, ok := queryBool(c, "fallback_when_empty"); ok {
		policy.FallbackWhenEmpty = &v
	}
	return policy
}

func queryBool(c *fiber.Ctx, key string) (bool, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// queryValues returns every value of a repeated query parameter.
func queryValues(c *fiber.Ctx, key string) []string {
	raw := c.Context().QueryArgs().PeekMulti(key)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, string(v))
	}
	return out
}
