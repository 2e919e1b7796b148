package usecases

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
)

// defaultAreaCount is how many leading catalog entries form the default selection.
const defaultAreaCount = 2

// chamonixAreas is the fixed catalog of massifs around the Chamonix valley.
var chamonixAreas = []domain.AreaOption{
	{
		ID:          "14410",
		Label:       "Mont-Blanc Massif",
		Description: "Mont-Blanc range and satellites",
	},
	{
		ID:          "14404",
		Label:       "Haut Giffre · Aiguilles Rouges · Fiz",
		Description: "North of Chamonix valley",
	},
	{
		ID:          "14411",
		Label:       "Chablais",
		Description: "Western Alps between Léman and Mont-Blanc",
	},
}

// AreaRegistry is the read-only catalog of known areas.
type AreaRegistry struct {
	options  []domain.AreaOption
	defaults []string
	position map[string]int
}

// NewAreaRegistry builds a registry whose defaults are the first defaultCount options.
func NewAreaRegistry(options []domain.AreaOption, defaultCount int) *AreaRegistry {
	opts := make([]domain.AreaOption, len(options))
	copy(opts, options)

	if defaultCount > len(opts) {
		defaultCount = len(opts)
	}
	if defaultCount < 0 {
		defaultCount = 0
	}

	r := &AreaRegistry{
		options:  opts,
		defaults: make([]string, 0, defaultCount),
		position: make(map[string]int, len(opts)),
	}
	for i, o := range opts {
		r.position[o.ID] = i
		if i < defaultCount {
			r.defaults = append(r.defaults, o.ID)
		}
	}
	return r
}

// DefaultAreaRegistry returns the Chamonix catalog.
func DefaultAreaRegistry() *AreaRegistry {
	return NewAreaRegistry(chamonixAreas, defaultAreaCount)
}

// Areas returns the catalog in its stable order.
func (r *AreaRegistry) Areas() []domain.AreaOption {
	out := make([]domain.AreaOption, len(r.options))
	copy(out, r.options)
	return out
}

// DefaultAreaIDs returns the ids used when the caller selects no area.
func (r *AreaRegistry) DefaultAreaIDs() []string {
	out := make([]string, len(r.defaults))
	copy(out, r.defaults)
	return out
}

// IsDefault reports whether id belongs to the default selection.
func (r *AreaRegistry) IsDefault(id string) bool {
	for _, d := range r.defaults {
		if d == id {
			return true
		}
	}
	return false
}

// OrderAreas normalizes ids and sorts them by catalog position. Unknown ids keep
// their relative order after the known ones.
func (r *AreaRegistry) OrderAreas(ids []string) []string {
	out := NormalizeAreaIDs(ids)
	rank := func(id string) int {
		if i, ok := r.position[id]; ok {
			return i
		}
		return len(r.options)
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

// NormalizeAreaIDs trims each value, drops blanks and duplicates, and keeps the
// order of first occurrence. Values may be strings, integers or anything
// printable; nil entries are dropped.
func NormalizeAreaIDs[T any](raw []T) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := areaIDString(v)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func areaIDString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

// ParseAreasParam splits comma-joined query values into normalized area ids.
func ParseAreasParam(values ...string) []string {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, ",")...)
	}
	return NormalizeAreaIDs(parts)
}
