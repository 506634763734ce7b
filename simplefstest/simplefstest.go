// Package simplefstest provides test-only helpers for booting disposable
// simplefs images, grounded on the teacher's testing/images.go use of
// bytesextra-backed streams and testing/blockcache.go's "build a fresh
// fixture per test" style.
package simplefstest

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maurelya/simplefs/dirent"
	"github.com/maurelya/simplefs/fs"
	"github.com/maurelya/simplefs/inode"
	"github.com/maurelya/simplefs/layout"
)

// TinyGeometry is a small geometry for throwaway test images: 256 sectors of
// 512 bytes, 32 inodes, and at most 8 data sectors per file.
func TinyGeometry() layout.Geometry {
	const maxSectorsPerFile = 8
	return layout.New(512, 256, 32, maxSectorsPerFile, inode.Size(maxSectorsPerFile), dirent.Size)
}

// Boot formats a fresh image backed by a temp file that testing.T cleans up
// automatically, and returns the mounted FS.
func Boot(t *testing.T, geo layout.Geometry) *fs.FS {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "simplefs-*.img")
	require.NoError(t, err)
	path := f.Name()
	require.NoError(t, f.Close())
	require.NoError(t, os.Remove(path))

	fsys, ferr := fs.Boot(path, geo)
	require.Nil(t, ferr)
	return fsys
}
