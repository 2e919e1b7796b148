package usecases

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
)

// DefaultLimit is the page size used when the caller asks for an unsupported one.
const DefaultLimit = 20

// LimitOptions are the page sizes a caller may request.
var LimitOptions = []int{10, 20, 30, 50}

// RawSearchParams carries caller input before normalization, as read from a URL.
type RawSearchParams struct {
	Query      string
	Activities string
	Limit      string
	Offset     string
	Areas      []string
}

// SanitizeLimit parses raw and returns it when it is one of LimitOptions,
// DefaultLimit otherwise.
func SanitizeLimit(raw string) int {
	v, ok := parseNumber(raw)
	if !ok || v <= 0 {
		return DefaultLimit
	}
	if v != math.Trunc(v) {
		return DefaultLimit
	}
	if limit := int(v); slices.Contains(LimitOptions, limit) {
		return limit
	}
	return DefaultLimit
}

// SanitizeOffset parses raw and snaps it down to a multiple of limit.
// Missing, malformed or negative values yield 0.
func SanitizeOffset(raw string, limit int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if strings.TrimSpace(raw) == "" {
		return 0
	}
	v, ok := parseNumber(raw)
	if !ok || v < 0 {
		return 0
	}
	if v > math.MaxInt32 {
		v = math.MaxInt32
	}
	return SnapOffset(int(math.Floor(v)), limit)
}

// SnapOffset returns the start of the page containing offset.
func SnapOffset(offset, limit int) int {
	if offset <= 0 || limit <= 0 {
		return 0
	}
	return (offset / limit) * limit
}

// NormalizeSearchRequest turns raw caller input into a SearchRequest. It never fails:
// malformed values fall back to defaults, explicit areas are put in catalog order,
// and no areas selects the registry defaults.
func NormalizeSearchRequest(raw RawSearchParams, areas *AreaRegistry) domain.SearchRequest {
	limit := SanitizeLimit(raw.Limit)
	req := domain.SearchRequest{
		Query:      strings.TrimSpace(raw.Query),
		Activities: strings.TrimSpace(raw.Activities),
		Limit:      limit,
		Offset:     SanitizeOffset(raw.Offset, limit),
	}
	if req.Activities == "" {
		req.Activities = DefaultActivities
	}

	parsed := ParseAreasParam(raw.Areas...)
	switch {
	case len(parsed) > 0 && areas != nil:
		req.AreaIDs = areas.OrderAreas(parsed)
		req.ExplicitAreas = true
	case len(parsed) > 0:
		req.AreaIDs = parsed
		req.ExplicitAreas = true
	case areas != nil:
		req.AreaIDs = areas.DefaultAreaIDs()
	}
	return req
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
