package fs

import (
	"github.com/maurelya/simplefs/dirent"
	fserrors "github.com/maurelya/simplefs/errors"
	"github.com/maurelya/simplefs/inode"
)

// DirCreate creates a new, empty directory at path, per spec.md section 4.5.
func (fsys *FS) DirCreate(path string) fserrors.FSError {
	if err := fsys.createObject(path, inode.TypeDirectory); err != nil {
		return fsys.fail(err)
	}
	return fsys.ok()
}

// DirUnlink removes an empty directory, per spec.md section 4.6/4.8.
func (fsys *FS) DirUnlink(path string) fserrors.FSError {
	if path == "/" {
		return fsys.fail(fserrors.RootDir.WithMessage("cannot unlink the root directory"))
	}
	if err := fsys.removeObject(path, inode.TypeDirectory, fserrors.NoSuchDir); err != nil {
		return fsys.fail(err)
	}
	return fsys.ok()
}

// DirSize returns the byte size of a directory's dirent array -- child.size
// * sizeof(dirent), not the number of entries -- per spec.md section 4.8.
func (fsys *FS) DirSize(path string) (int, fserrors.FSError) {
	result, err := fsys.resolve(path, fserrors.NoSuchDir, fserrors.NoSuchDir)
	if err != nil {
		return 0, fsys.fail(err)
	}
	if !result.Found {
		return 0, fsys.fail(fserrors.NoSuchDir.WithMessage(path))
	}

	childInode, rerr := readInodeAt(fsys.Img, fsys.Geo, result.Child)
	if rerr != nil {
		return 0, fsys.fail(rerr)
	}
	if !childInode.IsDirectory() {
		return 0, fsys.fail(fserrors.NoSuchDir.WithMessage(path + " is not a directory"))
	}

	fsys.ok()
	return childInode.Size * dirent.Size, nil
}

// DirRead copies every live dirent of the directory at path into buf, in
// storage order, and returns the count copied. buf must be large enough to
// hold the whole array at once -- this is not a streaming interface, per
// spec.md section 9's open question.
func (fsys *FS) DirRead(path string, buf []byte) (int, fserrors.FSError) {
	result, err := fsys.resolve(path, fserrors.NoSuchDir, fserrors.NoSuchDir)
	if err != nil {
		return 0, fsys.fail(err)
	}
	if !result.Found {
		return 0, fsys.fail(fserrors.NoSuchDir.WithMessage(path))
	}

	childInode, rerr := readInodeAt(fsys.Img, fsys.Geo, result.Child)
	if rerr != nil {
		return 0, fsys.fail(rerr)
	}
	if !childInode.IsDirectory() {
		return 0, fsys.fail(fserrors.NoSuchDir.WithMessage(path + " is not a directory"))
	}

	needed := childInode.Size * dirent.Size
	if len(buf) < needed {
		return 0, fsys.fail(fserrors.BufferTooSmall.WithMessage(path))
	}

	for slot := 0; slot < childInode.Size; slot++ {
		d, derr := readDirentAt(fsys.Img, fsys.Geo, childInode, slot)
		if derr != nil {
			return 0, fsys.fail(derr)
		}
		if eerr := dirent.Encode(buf, slot*dirent.Size, d); eerr != nil {
			return 0, fsys.fail(eerr)
		}
	}

	fsys.ok()
	return childInode.Size, nil
}
