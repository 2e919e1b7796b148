package domain

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const (
	summaryMaxRunes   = 220
	noDescription     = "No description available."
	unknownActivity   = "Activity unknown"
	activitySeparator = " · "
	missingElevation  = "?"
)

// PreferredLocales is the language order used to pick a locale for display.
var PreferredLocales = []string{"en", "fr", "it", "es"}

var (
	textPolicy   = bluemonday.StrictPolicy()
	trailingWord = regexp.MustCompile(`\s+\S*$`)
)

// RouteSummary is the list-item view of a route.
type RouteSummary struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
	Label      string   `json:"activities_label"`
	Summary    string   `json:"summary,omitempty"`
	Truncated  bool     `json:"truncated"`
}

// RouteDetail is the detail view of a single route.
type RouteDetail struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Activities   []string `json:"activities"`
	Label        string   `json:"activities_label"`
	ElevationMin *int     `json:"elevation_min,omitempty"`
	ElevationMax *int     `json:"elevation_max,omitempty"`
	Elevation    string   `json:"elevation"`
	Description  string   `json:"description"`
	Lang         string   `json:"lang,omitempty"`
}

// PickLocale returns the first locale matching the preferred languages in order,
// falling back to the first locale. It returns nil when there are none.
func PickLocale(locales []Locale, preferred ...string) *Locale {
	if len(locales) == 0 {
		return nil
	}
	if len(preferred) == 0 {
		preferred = PreferredLocales
	}
	for _, lang := range preferred {
		for i := range locales {
			if locales[i].Lang == lang {
				return &locales[i]
			}
		}
	}
	return &locales[0]
}

// FormatLocaleTitle joins the title prefix and title as "prefix : title".
func FormatLocaleTitle(l *Locale) string {
	if l == nil {
		return ""
	}
	title := strings.TrimSpace(l.Title)
	prefix := ""
	if l.TitlePrefix != nil {
		prefix = strings.TrimSpace(*l.TitlePrefix)
	}
	switch {
	case prefix != "" && title != "":
		return prefix + " : " + title
	case title != "":
		return title
	default:
		return prefix
	}
}

// PlainText strips markup from a free-text description.
func PlainText(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}

// Summarize builds the list-item view of a route.
func Summarize(r Route) RouteSummary {
	locale := PickLocale(r.Locales)
	out := RouteSummary{
		ID:         r.DocumentID,
		Title:      displayTitle(locale, strconv.FormatInt(r.DocumentID, 10)),
		Activities: activitiesOf(r),
		Label:      activitiesLabel(r, activitySeparator),
	}
	if locale == nil {
		return out
	}

	if locale.Summary != nil {
		if s := strings.TrimSpace(*locale.Summary); s != "" {
			out.Summary = s
			return out
		}
	}
	if locale.Description == "" {
		return out
	}

	raw := PlainText(locale.Description)
	runes := []rune(raw)
	if len(runes) == 0 {
		return out
	}
	if len(runes) <= summaryMaxRunes {
		out.Summary = strings.TrimSpace(raw)
		return out
	}
	// cut back to the last whole word
	cut := string(runes[:summaryMaxRunes])
	out.Summary = strings.TrimSpace(trailingWord.ReplaceAllString(cut, ""))
	out.Truncated = out.Summary != ""
	return out
}

// Detail builds the detail view of a route. id is used for the title fallback.
func Detail(r Route, id string) RouteDetail {
	locale := PickLocale(r.Locales)
	out := RouteDetail{
		ID:           r.DocumentID,
		Title:        displayTitle(locale, id),
		Activities:   activitiesOf(r),
		Label:        activitiesLabel(r, activitySeparator),
		ElevationMin: r.ElevationMin,
		ElevationMax: r.ElevationMax,
		Elevation:    elevationRange(r.ElevationMin, r.ElevationMax),
		Description:  noDescription,
	}
	if locale == nil {
		return out
	}
	out.Lang = locale.Lang
	if d := strings.TrimSpace(PlainText(locale.Description)); d != "" {
		out.Description = d
	}
	return out
}

func displayTitle(l *Locale, id string) string {
	if t := FormatLocaleTitle(l); t != "" {
		return t
	}
	return "Route " + id
}

func activitiesOf(r Route) []string {
	if r.Activities == nil {
		return []string{}
	}
	return r.Activities
}

func activitiesLabel(r Route, sep string) string {
	if r.Activities == nil {
		return unknownActivity
	}
	return strings.Join(r.Activities, sep)
}

func elevationRange(lo, hi *int) string {
	format := func(v *int) string {
		if v == nil {
			return missingElevation
		}
		return strconv.Itoa(*v)
	}
	return format(lo) + "–" + format(hi) + " m"
}
