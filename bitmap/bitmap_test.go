package bitmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maurelya/simplefs/bitmap"
	"github.com/maurelya/simplefs/disk"
)

func TestInitialize_MSBFirstBitOrder(t *testing.T) {
	d := disk.New(512, 4)
	e := bitmap.New(d, 0, 1, 32)

	require.Nil(t, e.Initialize(3))

	buf := make([]byte, 512)
	require.Nil(t, d.ReadSector(0, buf))

	// Bits 0,1,2 set MSB-first means the top three bits of byte 0 are set:
	// 0b11100000 == 0xE0.
	assert.Equal(t, byte(0xE0), buf[0])
	assert.Equal(t, byte(0), buf[1])
}

func TestAllocate_ScansAscendingAndSkipsPrefix(t *testing.T) {
	d := disk.New(512, 4)
	e := bitmap.New(d, 0, 1, 32)
	require.Nil(t, e.Initialize(3))

	idx, ok, err := e.Allocate()
	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, idx)
}

func TestAllocate_FullBitmapReturnsNotOK(t *testing.T) {
	d := disk.New(512, 4)
	e := bitmap.New(d, 0, 1, 4)
	require.Nil(t, e.Initialize(0))

	for i := 0; i < 4; i++ {
		_, ok, err := e.Allocate()
		require.Nil(t, err)
		require.True(t, ok)
	}

	_, ok, err := e.Allocate()
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestFreeThenAllocate_ReusesBit(t *testing.T) {
	d := disk.New(512, 4)
	e := bitmap.New(d, 0, 1, 8)
	require.Nil(t, e.Initialize(0))

	idx, _, err := e.Allocate()
	require.Nil(t, err)
	require.Nil(t, e.Free(idx))

	set, err := e.Get(idx)
	require.Nil(t, err)
	assert.False(t, set)

	idx2, ok, err := e.Allocate()
	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, idx, idx2)
}

func TestAllocate_CapacityShorterThanSectorBits(t *testing.T) {
	// BitCapacity smaller than a full sector's worth of bits: the tail
	// beyond capacity must never be allocated.
	d := disk.New(512, 4)
	e := bitmap.New(d, 0, 1, 4)
	require.Nil(t, e.Initialize(0))

	for i := 0; i < 4; i++ {
		idx, ok, err := e.Allocate()
		require.Nil(t, err)
		require.True(t, ok)
		assert.Less(t, idx, 4)
	}

	_, ok, err := e.Allocate()
	require.Nil(t, err)
	assert.False(t, ok)
}
