package dirent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maurelya/simplefs/dirent"
	"github.com/maurelya/simplefs/layout"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	d := dirent.Dirent{Name: "hello.txt", Inode: 42}
	buf := make([]byte, dirent.Size)

	require.Nil(t, dirent.Encode(buf, 0, d))

	got, err := dirent.Decode(buf, 0)
	require.Nil(t, err)
	assert.Equal(t, d, got)
}

func TestEncode_NameIsNullPadded(t *testing.T) {
	d := dirent.Dirent{Name: "a", Inode: 1}
	buf := make([]byte, dirent.Size)
	require.Nil(t, dirent.Encode(buf, 0, d))

	assert.Equal(t, byte('a'), buf[0])
	for i := 1; i < layout.MaxName; i++ {
		assert.Equal(t, byte(0), buf[i], "byte %d should be null padding", i)
	}
}

func TestEncode_NameTooLong(t *testing.T) {
	name := make([]byte, layout.MaxName)
	for i := range name {
		name[i] = 'a'
	}
	d := dirent.Dirent{Name: string(name), Inode: 1}
	buf := make([]byte, dirent.Size)
	assert.NotNil(t, dirent.Encode(buf, 0, d))
}

func TestZero_ClearsSlot(t *testing.T) {
	d := dirent.Dirent{Name: "gone", Inode: 9}
	buf := make([]byte, dirent.Size)
	require.Nil(t, dirent.Encode(buf, 0, d))
	require.Nil(t, dirent.Zero(buf, 0))

	for i, b := range buf {
		assert.Equal(t, byte(0), b, "byte %d should be zero", i)
	}
}
