package fs

import (
	fserrors "github.com/maurelya/simplefs/errors"
	"github.com/maurelya/simplefs/inode"
)

// FileCreate creates a new, empty regular file at path, per spec.md
// section 4.5.
func (fsys *FS) FileCreate(path string) fserrors.FSError {
	if err := fsys.createObject(path, inode.TypeFile); err != nil {
		return fsys.fail(err)
	}
	return fsys.ok()
}

// FileUnlink removes a file, failing with FILE_IN_USE if any descriptor
// still references it, per spec.md section 4.6.
func (fsys *FS) FileUnlink(path string) fserrors.FSError {
	if err := fsys.removeObject(path, inode.TypeFile, fserrors.NoSuchFile); err != nil {
		return fsys.fail(err)
	}
	return fsys.ok()
}

// FileOpen resolves path and installs a new Open File Table entry for it,
// per spec.md section 4.7.
func (fsys *FS) FileOpen(path string) (int, fserrors.FSError) {
	result, err := fsys.resolve(path, fserrors.NoSuchFile, fserrors.NoSuchFile)
	if err != nil {
		return 0, fsys.fail(err)
	}
	if !result.Found {
		return 0, fsys.fail(fserrors.NoSuchFile.WithMessage(path))
	}

	childInode, rerr := readInodeAt(fsys.Img, fsys.Geo, result.Child)
	if rerr != nil {
		return 0, fsys.fail(rerr)
	}
	if childInode.IsDirectory() {
		return 0, fsys.fail(fserrors.GENERAL.WithMessage(path + " is a directory"))
	}

	fd, ok := fsys.allocOpenSlot()
	if !ok {
		return 0, fsys.fail(fserrors.TooManyOpenFiles)
	}

	fsys.open[fd] = openFileSlot{inodeNum: result.Child, size: childInode.Size, pos: 0}
	fsys.ok()
	return fd, nil
}

// FileClose invalidates a descriptor, per spec.md section 4.7.
func (fsys *FS) FileClose(fd int) fserrors.FSError {
	if !fsys.isOpenSlotValid(fd) {
		return fsys.fail(fserrors.BadFD)
	}
	fsys.freeOpenSlot(fd)
	return fsys.ok()
}

// FileSeek repositions fd's cursor, requiring 0 <= offset <= size, per
// spec.md section 4.7.
func (fsys *FS) FileSeek(fd int, offset int) (int, fserrors.FSError) {
	if !fsys.isOpenSlotValid(fd) {
		return 0, fsys.fail(fserrors.BadFD)
	}

	slot := &fsys.open[fd]
	if offset < 0 || offset > slot.size {
		return 0, fsys.fail(fserrors.SeekOutOfBounds)
	}

	slot.pos = offset
	fsys.ok()
	return slot.pos, nil
}

// FileRead copies at most min(n, size-pos) bytes starting at the current
// position into buf, walking every data sector the read range touches
// (unlike the reference, which stops after the first sector -- the
// REDESIGN FLAG "Read-loop bug" in spec.md section 9).
func (fsys *FS) FileRead(fd int, buf []byte, n int) (int, fserrors.FSError) {
	if !fsys.isOpenSlotValid(fd) {
		return 0, fsys.fail(fserrors.BadFD)
	}

	slot := &fsys.open[fd]
	childInode, rerr := readInodeAt(fsys.Img, fsys.Geo, slot.inodeNum)
	if rerr != nil {
		return 0, fsys.fail(rerr)
	}

	remaining := slot.size - slot.pos
	if remaining < 0 {
		remaining = 0
	}
	toRead := min(n, remaining, len(buf))

	pos := slot.pos
	delivered := 0
	sectorSize := fsys.Geo.SectorSize

	for delivered < toRead {
		sectorIdx := pos / sectorSize
		sectorOffset := pos % sectorSize
		chunk := min(toRead-delivered, sectorSize-sectorOffset)

		sectorBuf := make([]byte, sectorSize)
		if err := fsys.Img.ReadSector(int(childInode.Data[sectorIdx]), sectorBuf); err != nil {
			return delivered, fsys.fail(err)
		}
		copy(buf[delivered:delivered+chunk], sectorBuf[sectorOffset:sectorOffset+chunk])

		pos += chunk
		delivered += chunk
	}

	slot.pos = pos
	fsys.ok()
	return delivered, nil
}

// FileWrite writes n bytes from buf starting at the current position,
// extending the file and allocating data sectors as needed, per spec.md
// section 4.7. The number of sectors to allocate is computed directly as
// ceil((pos+n)/SECTOR_SIZE) - currently_allocated_sectors, clamped at 0 --
// the REDESIGN FLAG fix for the reference's "Write-allocation arithmetic"
// bug in spec.md section 9.
func (fsys *FS) FileWrite(fd int, buf []byte, n int) (int, fserrors.FSError) {
	if !fsys.isOpenSlotValid(fd) {
		return 0, fsys.fail(fserrors.BadFD)
	}

	slot := &fsys.open[fd]
	maxFileBytes := fsys.Geo.MaxSectorsPerFile * fsys.Geo.SectorSize
	if slot.pos+n > maxFileBytes {
		return 0, fsys.fail(fserrors.FileTooBig)
	}

	childInode, rerr := readInodeAt(fsys.Img, fsys.Geo, slot.inodeNum)
	if rerr != nil {
		return 0, fsys.fail(rerr)
	}

	allocated := childInode.AllocatedSectorCount()
	neededTotal := ceilDiv(slot.pos+n, fsys.Geo.SectorSize)
	toAllocate := neededTotal - allocated
	if toAllocate < 0 {
		toAllocate = 0
	}

	t := fsys.newTxn()
	for k := 0; k < toAllocate; k++ {
		idx, ok, aerr := t.allocSector()
		if aerr != nil {
			t.rollback()
			return 0, fsys.fail(aerr)
		}
		if !ok {
			t.rollback()
			return 0, fsys.fail(fserrors.NoSpace)
		}
		childInode.Data[allocated+k] = uint32(idx)
	}

	childInode.Size = slot.pos + n
	if werr := writeInodeAt(fsys.Img, fsys.Geo, slot.inodeNum, childInode); werr != nil {
		t.rollback()
		return 0, fsys.fail(werr)
	}
	t.commit()
	slot.size = childInode.Size

	pos := slot.pos
	written := 0
	sectorSize := fsys.Geo.SectorSize

	for written < n {
		sectorIdx := pos / sectorSize
		sectorOffset := pos % sectorSize
		chunk := min(n-written, sectorSize-sectorOffset)

		sectorBuf := make([]byte, sectorSize)
		sector := int(childInode.Data[sectorIdx])
		if err := fsys.Img.ReadSector(sector, sectorBuf); err != nil {
			return written, fsys.fail(err)
		}
		copy(sectorBuf[sectorOffset:sectorOffset+chunk], buf[written:written+chunk])
		if err := fsys.Img.WriteSector(sector, sectorBuf); err != nil {
			return written, fsys.fail(err)
		}

		pos += chunk
		written += chunk
	}

	slot.pos = pos
	fsys.ok()
	return written, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
