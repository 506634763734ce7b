// Package fs implements the namespace layer of simplefs: path resolution,
// file and directory operations, the open file table, and boot/sync. It is
// grounded on the teacher's drivers/unixv1 driver (Mount/GetFSInfo shape,
// the pathToInode/openFileUsingInode stubs this package actually
// implements) generalized from the Unix v1 on-disk format to the flat
// format spec.md describes.
package fs

import (
	"encoding/binary"

	gobitmap "github.com/boljen/go-bitmap"

	"github.com/maurelya/simplefs/bitmap"
	"github.com/maurelya/simplefs/disk"
	fserrors "github.com/maurelya/simplefs/errors"
	"github.com/maurelya/simplefs/inode"
	"github.com/maurelya/simplefs/layout"
)

// openFileSlot is one entry of the process-wide Open File Table.
//
// Unlike the reference implementation this module is grounded on (which
// used inode==0 as a "free slot" sentinel -- fragile, since inode 0 is the
// root directory, see DESIGN.md / spec.md section 9), occupancy is tracked
// explicitly in FS.openUsed.
type openFileSlot struct {
	inodeNum int
	size     int
	pos      int
}

// FS is a booted, mounted file system image. It is not safe for concurrent
// use: the spec's concurrency model is single-threaded, non-reentrant, and
// no operation suspends or yields.
type FS struct {
	Geo         layout.Geometry
	Img         *disk.Disk
	BackingPath string

	InodeBitmap  bitmap.Engine
	SectorBitmap bitmap.Engine

	open     []openFileSlot
	openUsed gobitmap.Bitmap

	lastErr fserrors.FSError
}

// LastError returns the taxonomy code of the most recently failed
// operation, or nil if the last operation succeeded. It is the
// compatibility shim spec.md section 9 calls for: state lives on the FS
// value, not in a package-level global, so independently booted images
// never stomp on each other's last error.
func (fsys *FS) LastError() fserrors.FSError {
	return fsys.lastErr
}

func (fsys *FS) fail(err fserrors.FSError) fserrors.FSError {
	fsys.lastErr = err
	return err
}

func (fsys *FS) ok() fserrors.FSError {
	fsys.lastErr = nil
	return nil
}

// Boot mounts the image at backingPath, formatting a fresh one with the
// given geometry if none exists yet, per spec.md section 4.9.
func Boot(backingPath string, geo layout.Geometry) (*FS, fserrors.FSError) {
	existed := disk.Exists(backingPath)

	var img *disk.Disk
	if !existed {
		img = disk.New(geo.SectorSize, geo.TotalSectors)
		if err := formatImage(img, backingPath, geo); err != nil {
			return nil, err
		}
	} else {
		loaded, err := disk.Load(backingPath, geo.SectorSize, geo.TotalSectors)
		if err != nil {
			return nil, err
		}
		img = loaded

		sb := make([]byte, geo.SectorSize)
		if err := img.ReadSector(0, sb); err != nil {
			return nil, err
		}
		if binary.LittleEndian.Uint32(sb[:4]) != layout.Magic {
			return nil, fserrors.GENERAL.WithMessage("superblock magic mismatch")
		}
	}

	fsys := &FS{
		Geo:          geo,
		Img:          img,
		BackingPath:  backingPath,
		InodeBitmap:  bitmap.New(img, geo.InodeBitmapStart, geo.InodeBitmapLen, geo.MaxFiles),
		SectorBitmap: bitmap.New(img, geo.SectorBitmapStart, geo.SectorBitmapLen, geo.TotalSectors),
		open:         make([]openFileSlot, layout.MaxOpenFiles),
		openUsed:     gobitmap.New(layout.MaxOpenFiles),
	}
	return fsys, nil
}

// formatImage writes a fresh superblock, both bitmaps, and a zeroed inode
// table with a freshly-initialized root directory, then persists the image.
func formatImage(img *disk.Disk, backingPath string, geo layout.Geometry) fserrors.FSError {
	sb := make([]byte, geo.SectorSize)
	binary.LittleEndian.PutUint32(sb[:4], layout.Magic)
	if err := img.WriteSector(0, sb); err != nil {
		return err
	}

	inodeBM := bitmap.New(img, geo.InodeBitmapStart, geo.InodeBitmapLen, geo.MaxFiles)
	if err := inodeBM.Initialize(1); err != nil {
		return err
	}

	sectorBM := bitmap.New(img, geo.SectorBitmapStart, geo.SectorBitmapLen, geo.TotalSectors)
	if err := sectorBM.Initialize(geo.MetadataSectorCount()); err != nil {
		return err
	}

	zeroSector := make([]byte, geo.SectorSize)
	for s := 0; s < geo.InodeTableLen; s++ {
		if err := img.WriteSector(geo.InodeTableStart+s, zeroSector); err != nil {
			return err
		}
	}

	root := inode.New(geo.MaxSectorsPerFile, inode.TypeDirectory)
	if err := writeInodeAt(img, geo, 0, root); err != nil {
		return err
	}

	return img.Save(backingPath)
}

// Sync flushes the in-memory image to the backing file.
func (fsys *FS) Sync() fserrors.FSError {
	if err := fsys.Img.Save(fsys.BackingPath); err != nil {
		return fsys.fail(err)
	}
	return fsys.ok()
}
