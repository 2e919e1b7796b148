package domain

import "errors"

var (
	// ErrNotFound is returned when the upstream database has no document for an id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for caller input that cannot be normalized.
	ErrInvalidInput = errors.New("invalid input")
)

// Locale is one language version of a route document.
type Locale struct {
	Lang        string  `json:"lang,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Summary     *string `json:"summary,omitempty"`
	TitlePrefix *string `json:"title_prefix,omitempty"`
}

// Route is a route document as returned by the upstream route database.
type Route struct {
	DocumentID   int64    `json:"document_id"`
	Activities   []string `json:"activities,omitempty"`
	Locales      []Locale `json:"locales,omitempty"`
	ElevationMin *int     `json:"elevation_min,omitempty"`
	ElevationMax *int     `json:"elevation_max,omitempty"`
}

// RoutePage is one page of the upstream /routes listing.
type RoutePage struct {
	Documents []Route `json:"documents"`
	Total     int     `json:"total"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

// AreaOption is a named geographic area (massif) the upstream API can filter by.
type AreaOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ActivityOption is a preset for the activity filter.
type ActivityOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Strategy names the geographic filter that produced a result.
type Strategy string

const (
	StrategyAreas Strategy = "areas"
	StrategyBBox  Strategy = "bbox"
)

// ListParams is the parameter set of a single upstream /routes call.
// Exactly one of AreaIDs and BBox is set.
type ListParams struct {
	Limit      int
	Offset     int
	Activities string
	Query      string
	AreaIDs    []string
	BBox       string
}

// SearchRequest is the normalized user intent for one listing.
type SearchRequest struct {
	Query         string
	Activities    string
	Limit         int
	Offset        int
	AreaIDs       []string
	ExplicitAreas bool
}

// ListOptions configures a single resolution.
type ListOptions struct {
	Query          string
	Activities     string
	Limit          int
	Offset         int
	Areas          []string
	FallbackToBbox bool
	// FallbackWhenEmpty overrides the default empty-result policy when non-nil.
	FallbackWhenEmpty *bool
}

// ResolvedResult is the outcome of one resolution. It is never mutated after construction.
type ResolvedResult struct {
	Documents []Route  `json:"documents"`
	Total     int      `json:"total"`
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
	Strategy  Strategy `json:"strategy"`
	AreaIDs   []string `json:"area_ids,omitempty"`
}

// AreaFallback reports whether area ids were attempted but bbox filtering was used.
func (r *ResolvedResult) AreaFallback() bool {
	return r.Strategy == StrategyBBox && len(r.AreaIDs) > 0
}

// SearchEvent describes how a listing was resolved.
type SearchEvent struct {
	Query         string   `json:"query,omitempty"`
	FallbackQuery string   `json:"fallback_query,omitempty"`
	Activities    string   `json:"activities"`
	AreaIDs       []string `json:"area_ids,omitempty"`
	Strategy      Strategy `json:"strategy"`
	Total         int      `json:"total"`
	Relaxed       bool     `json:"relaxed"`
}
