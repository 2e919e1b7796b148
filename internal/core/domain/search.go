package domain

// NoticeKind identifies an informational banner attached to a search outcome.
type NoticeKind string

const (
	NoticeQueryRelaxed NoticeKind = "query_relaxed"
	NoticeAreaFallback NoticeKind = "area_fallback"
	NoticeEmpty        NoticeKind = "empty"
)

// Notice is a user-facing message describing how results were obtained.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// SearchPolicy controls the geographic fallback of a search.
type SearchPolicy struct {
	FallbackToBbox bool
	// FallbackWhenEmpty overrides the default of falling back only for
	// searches without a text query.
	FallbackWhenEmpty *bool
}

// PageWindow describes the position of a result page for navigation.
type PageWindow struct {
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Start      int  `json:"start"`
	End        int  `json:"end"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
	PrevOffset int  `json:"prev_offset"`
	NextOffset int  `json:"next_offset"`
}

// SearchOutcome is the end-to-end result of a search, after any relaxation.
type SearchOutcome struct {
	Request       SearchRequest   `json:"-"`
	Result        *ResolvedResult `json:"result"`
	FallbackQuery string          `json:"fallback_query,omitempty"`
	Notices       []Notice        `json:"notices"`
	Window        PageWindow      `json:"pagination"`
}

// Relaxed reports whether a relaxed query superseded the original one.
func (o *SearchOutcome) Relaxed() bool {
	return o.FallbackQuery != ""
}
