package usecases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/usecases"
)

func TestNormalizeAreaIDs(t *testing.T) {
	assert.Equal(t, []string{"14410", "14404"},
		usecases.NormalizeAreaIDs([]string{" 14410 ", "14410", "", "14404"}))

	assert.Equal(t, []string{"14410", "14404"},
		usecases.NormalizeAreaIDs([]any{14410, nil, "14404", " ", "14410"}))

	assert.Empty(t, usecases.NormalizeAreaIDs([]string{}))
	assert.Empty(t, usecases.NormalizeAreaIDs[string](nil))
}

func TestParseAreasParam(t *testing.T) {
	assert.Equal(t, []string{"14410", "14404", "14411"},
		usecases.ParseAreasParam("14410, 14404", "14411,14410"))
	assert.Empty(t, usecases.ParseAreasParam(",", ""))
}

func TestAreaRegistry_Defaults(t *testing.T) {
	reg := usecases.DefaultAreaRegistry()

	assert.Equal(t, []string{"14410", "14404"}, reg.DefaultAreaIDs())
	assert.True(t, reg.IsDefault("14404"))
	assert.False(t, reg.IsDefault("14411"))

	areas := reg.Areas()
	assert.Len(t, areas, 3)
	assert.Equal(t, "Mont-Blanc Massif", areas[0].Label)

	// returned slices are copies
	areas[0].Label = "changed"
	ids := reg.DefaultAreaIDs()
	ids[0] = "changed"
	assert.Equal(t, "Mont-Blanc Massif", reg.Areas()[0].Label)
	assert.Equal(t, "14410", reg.DefaultAreaIDs()[0])
}

func TestAreaRegistry_OrderAreas(t *testing.T) {
	reg := usecases.DefaultAreaRegistry()
	assert.Equal(t, []string{"14410", "14404", "14411", "999", "1"},
		reg.OrderAreas([]string{"999", "14411", "14404", "1", "14410", "14404"}))
}

func TestNewAreaRegistry_ClampsDefaultCount(t *testing.T) {
	opts := []domain.AreaOption{{ID: "1"}, {ID: "2"}}
	assert.Equal(t, []string{"1", "2"}, usecases.NewAreaRegistry(opts, 5).DefaultAreaIDs())
	assert.Empty(t, usecases.NewAreaRegistry(opts, -1).DefaultAreaIDs())
}

func TestActivityPresets(t *testing.T) {
	presets := usecases.ActivityPresets()
	assert.Len(t, presets, 4)
	assert.Equal(t, usecases.DefaultActivities, presets[0].Value)
}
