package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maurelya/simplefs/layout"
)

func TestNew_RegionsAreContiguousAndOrdered(t *testing.T) {
	geo := layout.New(512, 2048, 256, 64, 37, 20)

	assert.Equal(t, 1, geo.InodeBitmapStart)
	assert.Equal(t, geo.InodeBitmapStart+geo.InodeBitmapLen, geo.SectorBitmapStart)
	assert.Equal(t, geo.SectorBitmapStart+geo.SectorBitmapLen, geo.InodeTableStart)
	assert.Equal(t, geo.InodeTableStart+geo.InodeTableLen, geo.DataRegionStart)
	assert.Equal(t, geo.DataRegionStart+geo.DataRegionLen, geo.TotalSectors)
}

func TestNew_BitmapsCoverEveryBit(t *testing.T) {
	geo := layout.New(512, 2048, 256, 64, 37, 20)

	assert.GreaterOrEqual(t, geo.InodeBitmapLen*512*8, geo.MaxFiles)
	assert.GreaterOrEqual(t, geo.SectorBitmapLen*512*8, geo.TotalSectors)
}

func TestInodeLocation_PacksDensely(t *testing.T) {
	geo := layout.New(512, 2048, 256, 64, 37, 20)

	sector0, offset0 := geo.InodeLocation(0)
	sector1, offset1 := geo.InodeLocation(1)

	assert.Equal(t, geo.InodeTableStart, sector0)
	assert.Equal(t, 0, offset0)
	assert.Equal(t, sector0, sector1)
	assert.Equal(t, 37, offset1)
}

func TestInodeLocation_CrossesSectorBoundary(t *testing.T) {
	geo := layout.New(512, 2048, 256, 64, 37, 20)
	require.Greater(t, geo.InodesPerSector, 0)

	sector, offset := geo.InodeLocation(geo.InodesPerSector)
	assert.Equal(t, geo.InodeTableStart+1, sector)
	assert.Equal(t, 0, offset)
}

func TestMetadataSectorCount_EqualsDataRegionStart(t *testing.T) {
	geo := layout.New(512, 2048, 256, 64, 37, 20)
	assert.Equal(t, geo.DataRegionStart, geo.MetadataSectorCount())
}
