package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maurelya/simplefs/layout"
)

func TestListPresets_NonEmpty(t *testing.T) {
	slugs := layout.ListPresets()
	assert.NotEmpty(t, slugs)
}

func TestGetPreset_KnownSlug(t *testing.T) {
	slugs := layout.ListPresets()
	require.NotEmpty(t, slugs)

	p, err := layout.GetPreset(slugs[0])
	require.NoError(t, err)
	assert.Equal(t, slugs[0], p.Slug)
	assert.Greater(t, p.SectorSize, 0)
	assert.Greater(t, p.TotalSectors, 0)
}

func TestGetPreset_UnknownSlug(t *testing.T) {
	_, err := layout.GetPreset("does-not-exist")
	assert.Error(t, err)
}
