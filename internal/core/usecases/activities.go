package usecases

import "github.com/samirrijal/c2cexplorer/internal/core/domain"

// DefaultActivities is the activity filter applied when the caller sets none.
const DefaultActivities = "alpine_climbing,rock_climbing,skitouring"

var activityPresets = []domain.ActivityOption{
	{Label: "Alpine · Rock · Ski", Value: DefaultActivities},
	{Label: "Alpine climbing", Value: "alpine_climbing"},
	{Label: "Rock climbing", Value: "rock_climbing"},
	{Label: "Ski touring", Value: "skitouring"},
}

// ActivityPresets returns the activity filter presets offered to users.
func ActivityPresets() []domain.ActivityOption {
	out := make([]domain.ActivityOption, len(activityPresets))
	copy(out, activityPresets)
	return out
}
