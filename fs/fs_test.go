package fs_test

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maurelya/simplefs/dirent"
	fserrors "github.com/maurelya/simplefs/errors"
	"github.com/maurelya/simplefs/fs"
	"github.com/maurelya/simplefs/layout"
	"github.com/maurelya/simplefs/simplefstest"
)

func smallGeometry() layout.Geometry {
	return simplefstest.TinyGeometry()
}

func bootFresh(t *testing.T) *fs.FS {
	t.Helper()
	return simplefstest.Boot(t, smallGeometry())
}

func TestBoot_FormatsFreshImageWithRootDirectory(t *testing.T) {
	fsys := bootFresh(t)

	size, err := fsys.DirSize("/")
	require.Nil(t, err)
	assert.Equal(t, 0, size)
}

func TestBoot_ReopensExistingImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")
	geo := smallGeometry()

	first, err := fs.Boot(path, geo)
	require.Nil(t, err)
	require.Nil(t, first.FileCreate("/hello"))
	require.Nil(t, first.Sync())

	second, err := fs.Boot(path, geo)
	require.Nil(t, err)

	fd, ferr := second.FileOpen("/hello")
	require.Nil(t, ferr)
	require.Nil(t, second.FileClose(fd))
}

func TestBoot_RejectsImageWithBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")
	geo := smallGeometry()

	require.NoError(t, os.WriteFile(path, make([]byte, geo.SectorSize*geo.TotalSectors), 0o644))

	_, err := fs.Boot(path, geo)
	assert.NotNil(t, err)
}

func TestFileCreate_DuplicateFails(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/a.txt"))
	assert.NotNil(t, fsys.FileCreate("/a.txt"))
}

func TestFileCreate_IllegalNameFails(t *testing.T) {
	fsys := bootFresh(t)
	assert.NotNil(t, fsys.FileCreate("/bad name!"))
}

func TestFileCreate_MissingParentFails(t *testing.T) {
	fsys := bootFresh(t)
	assert.NotNil(t, fsys.FileCreate("/no-such-dir/a.txt"))
}

func TestWriteThenRead_RoundTrip(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/data.bin"))

	fd, err := fsys.FileOpen("/data.bin")
	require.Nil(t, err)

	payload := make([]byte, 1500)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	n, werr := fsys.FileWrite(fd, payload, len(payload))
	require.Nil(t, werr)
	assert.Equal(t, len(payload), n)

	_, serr := fsys.FileSeek(fd, 0)
	require.Nil(t, serr)

	readBack := make([]byte, len(payload))
	n, rerr := fsys.FileRead(fd, readBack, len(readBack))
	require.Nil(t, rerr)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, readBack)

	require.Nil(t, fsys.FileClose(fd))
}

func TestWrite_SpansMultipleSectorsOfAllocation(t *testing.T) {
	// SectorSize is 512; this write needs 3 sectors and exercises the
	// ceil-division allocation-count fix directly.
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/three.bin"))

	fd, err := fsys.FileOpen("/three.bin")
	require.Nil(t, err)

	payload := make([]byte, 1025)
	n, werr := fsys.FileWrite(fd, payload, len(payload))
	require.Nil(t, werr)
	assert.Equal(t, len(payload), n)
}

func TestFileWrite_TooBigFails(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/big.bin"))
	fd, err := fsys.FileOpen("/big.bin")
	require.Nil(t, err)

	geo := smallGeometry()
	tooBig := make([]byte, geo.MaxSectorsPerFile*geo.SectorSize+1)
	_, werr := fsys.FileWrite(fd, tooBig, len(tooBig))
	assert.NotNil(t, werr)
}

func TestFileSeek_OutOfBoundsFails(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/s.bin"))
	fd, err := fsys.FileOpen("/s.bin")
	require.Nil(t, err)

	_, serr := fsys.FileSeek(fd, -1)
	assert.NotNil(t, serr)

	_, serr = fsys.FileSeek(fd, 1)
	assert.NotNil(t, serr)
}

func TestFileUnlink_WhileOpenFails(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/held.bin"))
	fd, err := fsys.FileOpen("/held.bin")
	require.Nil(t, err)

	assert.NotNil(t, fsys.FileUnlink("/held.bin"))

	require.Nil(t, fsys.FileClose(fd))
	assert.Nil(t, fsys.FileUnlink("/held.bin"))
}

func TestDirCreateAndUnlink(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.DirCreate("/sub"))
	require.Nil(t, fsys.FileCreate("/sub/child.txt"))

	assert.NotNil(t, fsys.DirUnlink("/sub"))

	require.Nil(t, fsys.FileUnlink("/sub/child.txt"))
	assert.Nil(t, fsys.DirUnlink("/sub"))
}

func TestDirUnlink_RootFails(t *testing.T) {
	fsys := bootFresh(t)
	assert.NotNil(t, fsys.DirUnlink("/"))
}

func TestDirRead_ListsEntriesInStorageOrder(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/one"))
	require.Nil(t, fsys.FileCreate("/two"))
	require.Nil(t, fsys.FileCreate("/three"))

	size, err := fsys.DirSize("/")
	require.Nil(t, err)
	assert.Equal(t, 3*dirent.Size, size)

	buf := make([]byte, size)
	count, rerr := fsys.DirRead("/", buf)
	require.Nil(t, rerr)
	assert.Equal(t, 3, count)

	names := map[string]bool{}
	order := make([]string, 0, count)
	for slot := 0; slot < count; slot++ {
		d, derr := dirent.Decode(buf, slot*dirent.Size)
		require.Nil(t, derr)
		names[d.Name] = true
		order = append(order, d.Name)
	}
	assert.Equal(t, map[string]bool{"one": true, "two": true, "three": true}, names)
	assert.Equal(t, []string{"one", "two", "three"}, order)
}

func TestDirRead_BufferTooSmallFails(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/one"))

	buf := make([]byte, 1)
	_, err := fsys.DirRead("/", buf)
	assert.NotNil(t, err)
}

func TestRemove_SwapsWithLastEntry(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/a"))
	require.Nil(t, fsys.FileCreate("/b"))
	require.Nil(t, fsys.FileCreate("/c"))

	require.Nil(t, fsys.FileUnlink("/a"))

	size, err := fsys.DirSize("/")
	require.Nil(t, err)
	assert.Equal(t, 2*dirent.Size, size)

	buf := make([]byte, size)
	_, rerr := fsys.DirRead("/", buf)
	require.Nil(t, rerr)

	names := map[string]bool{}
	order := make([]string, 0, 2)
	for slot := 0; slot < 2; slot++ {
		d, derr := dirent.Decode(buf, slot*dirent.Size)
		require.Nil(t, derr)
		names[d.Name] = true
		order = append(order, d.Name)
	}
	assert.True(t, names["b"])
	assert.True(t, names["c"])
	assert.False(t, names["a"])
	// "c", the last entry, moves into the slot "a" vacated.
	assert.Equal(t, []string{"c", "b"}, order)
}

func TestFileOpen_TooManyOpenFilesFails(t *testing.T) {
	fsys := bootFresh(t)
	require.Nil(t, fsys.FileCreate("/f"))

	fds := make([]int, 0, layout.MaxOpenFiles)
	for i := 0; i < layout.MaxOpenFiles; i++ {
		fd, err := fsys.FileOpen("/f")
		require.Nil(t, err)
		fds = append(fds, fd)
	}

	_, err := fsys.FileOpen("/f")
	assert.NotNil(t, err)
	assert.True(t, stderrors.Is(err, fserrors.TooManyOpenFiles))

	for _, fd := range fds {
		require.Nil(t, fsys.FileClose(fd))
	}
}

func TestFileClose_BadDescriptorFails(t *testing.T) {
	fsys := bootFresh(t)
	assert.NotNil(t, fsys.FileClose(999))
}

func TestLastError_TracksMostRecentOutcome(t *testing.T) {
	fsys := bootFresh(t)

	require.Nil(t, fsys.FileCreate("/ok"))
	assert.Nil(t, fsys.LastError())

	_ = fsys.FileCreate("/ok")
	assert.NotNil(t, fsys.LastError())
}
