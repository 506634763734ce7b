package fs

import (
	"github.com/maurelya/simplefs/dirent"
	fserrors "github.com/maurelya/simplefs/errors"
	"github.com/maurelya/simplefs/inode"
)

// createObject implements spec.md section 4.5: resolve the path, allocate
// an inode of the requested type, and append a dirent for it to the parent
// directory. Every bitmap bit it allocates is staged in a txn and rolled
// back if any later sub-step fails (spec.md section 9's "Transactional
// allocation" note), rather than leaked as the reference tolerates.
func (fsys *FS) createObject(path string, typ uint8) fserrors.FSError {
	result, err := fsys.resolve(path, fserrors.CREATE, fserrors.CREATE)
	if err != nil {
		return err
	}
	if result.Found {
		return fserrors.CREATE.WithMessage("already exists")
	}

	t := fsys.newTxn()

	newInodeNum, ok, aerr := t.allocInode()
	if aerr != nil {
		t.rollback()
		return fserrors.CREATE.WrapError(aerr)
	}
	if !ok {
		t.rollback()
		return fserrors.CREATE.WithMessage("no free inodes")
	}

	newInode := inode.New(fsys.Geo.MaxSectorsPerFile, typ)
	if werr := writeInodeAt(fsys.Img, fsys.Geo, newInodeNum, newInode); werr != nil {
		t.rollback()
		return fserrors.CREATE.WrapError(werr)
	}

	parentInode, rerr := readInodeAt(fsys.Img, fsys.Geo, result.Parent)
	if rerr != nil {
		t.rollback()
		return fserrors.CREATE.WrapError(rerr)
	}

	group := parentInode.Size / fsys.Geo.DirentsPerSector
	if group >= len(parentInode.Data) {
		t.rollback()
		return fserrors.CREATE.WithMessage("parent directory is full")
	}

	if parentInode.Size%fsys.Geo.DirentsPerSector == 0 {
		sectorIdx, sok, serr := t.allocSector()
		if serr != nil {
			t.rollback()
			return fserrors.CREATE.WrapError(serr)
		}
		if !sok {
			t.rollback()
			return fserrors.CREATE.WithMessage("no free sectors")
		}
		parentInode.Data[group] = uint32(sectorIdx)
	}

	slot := parentInode.Size % fsys.Geo.DirentsPerSector
	newDirent := dirent.Dirent{Name: result.Name, Inode: newInodeNum}
	if derr := writeDirentAt(fsys.Img, fsys.Geo, parentInode, slot, newDirent); derr != nil {
		t.rollback()
		return fserrors.CREATE.WrapError(derr)
	}

	parentInode.Size++
	if werr := writeInodeAt(fsys.Img, fsys.Geo, result.Parent, parentInode); werr != nil {
		t.rollback()
		return fserrors.CREATE.WrapError(werr)
	}

	t.commit()
	return nil
}

// removeObject implements spec.md section 4.6. notFoundCode is the error
// reported when the child doesn't exist or the parent chain is broken.
func (fsys *FS) removeObject(path string, wantType uint8, notFoundCode fserrors.Code) fserrors.FSError {
	result, err := fsys.resolve(path, notFoundCode, notFoundCode)
	if err != nil {
		return err
	}
	if !result.Found {
		return notFoundCode.WithMessage("no such object: " + path)
	}

	childInode, rerr := readInodeAt(fsys.Img, fsys.Geo, result.Child)
	if rerr != nil {
		return rerr
	}
	if childInode.Type != wantType {
		return fserrors.GENERAL.WithMessage("object is not the expected type")
	}
	if childInode.IsDirectory() && childInode.Size != 0 {
		return fserrors.DirNotEmpty.WithMessage(path)
	}
	if childInode.IsFile() && fsys.countOpenReferencesTo(result.Child) > 0 {
		return fserrors.FileInUse.WithMessage(path)
	}

	if childInode.IsFile() {
		for _, sector := range childInode.Data {
			if sector != 0 {
				if ferr := fsys.SectorBitmap.Free(int(sector)); ferr != nil {
					return ferr
				}
			}
		}
	}

	empty := inode.New(fsys.Geo.MaxSectorsPerFile, childInode.Type)
	if werr := writeInodeAt(fsys.Img, fsys.Geo, result.Child, empty); werr != nil {
		return werr
	}
	if ferr := fsys.InodeBitmap.Free(result.Child); ferr != nil {
		return ferr
	}

	return fsys.detachFromParent(result.Parent, result.Child)
}

// detachFromParent implements the swap-with-last compaction of spec.md
// section 4.6 step 4, plus the directory-shrink REDESIGN FLAG fix from
// section 9: when the removal empties the final group's sector entirely,
// that trailing data sector is freed instead of leaked.
func (fsys *FS) detachFromParent(parentNum, childNum int) fserrors.FSError {
	parentInode, err := readInodeAt(fsys.Img, fsys.Geo, parentNum)
	if err != nil {
		return err
	}

	foundSlot := -1
	for slot := 0; slot < parentInode.Size; slot++ {
		d, derr := readDirentAt(fsys.Img, fsys.Geo, parentInode, slot)
		if derr != nil {
			return derr
		}
		if d.Inode == childNum {
			foundSlot = slot
			break
		}
	}
	if foundSlot < 0 {
		return fserrors.GENERAL.WithMessage("dirent for removed child not found in parent")
	}

	lastSlot := parentInode.Size - 1
	if foundSlot != lastSlot {
		lastDirent, lerr := readDirentAt(fsys.Img, fsys.Geo, parentInode, lastSlot)
		if lerr != nil {
			return lerr
		}
		if werr := writeDirentAt(fsys.Img, fsys.Geo, parentInode, foundSlot, lastDirent); werr != nil {
			return werr
		}
	}
	if zerr := zeroDirentAt(fsys.Img, fsys.Geo, parentInode, lastSlot); zerr != nil {
		return zerr
	}

	newSize := parentInode.Size - 1
	lastGroup := lastSlot / fsys.Geo.DirentsPerSector
	if newSize <= lastGroup*fsys.Geo.DirentsPerSector {
		freedSector := parentInode.Data[lastGroup]
		if ferr := fsys.SectorBitmap.Free(int(freedSector)); ferr != nil {
			return ferr
		}
		parentInode.Data[lastGroup] = 0
	}

	parentInode.Size = newSize
	return writeInodeAt(fsys.Img, fsys.Geo, parentNum, parentInode)
}
