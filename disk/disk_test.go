package disk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maurelya/simplefs/disk"
)

func TestReadWriteSector_RoundTrip(t *testing.T) {
	d := disk.New(512, 16)

	want := make([]byte, 512)
	for i := range want {
		want[i] = byte(i)
	}

	require.Nil(t, d.WriteSector(3, want))

	got := make([]byte, 512)
	require.Nil(t, d.ReadSector(3, got))
	assert.Equal(t, want, got)
}

func TestReadSector_OutOfBounds(t *testing.T) {
	d := disk.New(512, 16)
	buf := make([]byte, 512)

	assert.NotNil(t, d.ReadSector(-1, buf))
	assert.NotNil(t, d.ReadSector(16, buf))
}

func TestWriteSector_WrongBufferSize(t *testing.T) {
	d := disk.New(512, 16)
	assert.NotNil(t, d.WriteSector(0, make([]byte, 10)))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	d := disk.New(512, 4)
	buf := make([]byte, 512)
	for i := range buf {
		buf[i] = 0xAB
	}
	require.Nil(t, d.WriteSector(2, buf))

	path := filepath.Join(t.TempDir(), "image.bin")
	require.Nil(t, d.Save(path))

	assert.True(t, disk.Exists(path))

	loaded, err := disk.Load(path, 512, 4)
	require.Nil(t, err)

	got := make([]byte, 512)
	require.Nil(t, loaded.ReadSector(2, got))
	assert.Equal(t, buf, got)
}

func TestLoad_WrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	_, err := disk.Load(path, 512, 4)
	assert.NotNil(t, err)
}

func TestExists_MissingFile(t *testing.T) {
	assert.False(t, disk.Exists(filepath.Join(t.TempDir(), "nope.bin")))
}
