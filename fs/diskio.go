package fs

import (
	"github.com/maurelya/simplefs/dirent"
	"github.com/maurelya/simplefs/disk"
	fserrors "github.com/maurelya/simplefs/errors"
	"github.com/maurelya/simplefs/inode"
	"github.com/maurelya/simplefs/layout"
)

// inodeTableCache is the one-sector inode cache described in spec.md
// section 4.3/4.4. It is scoped to a single path-resolution call: callers
// construct one on the stack and thread it through, and it is discarded
// when that call returns. Nothing is ever shared across calls.
type inodeTableCache struct {
	sector int
	valid  bool
	buf    []byte
}

func readInodeCached(img *disk.Disk, geo layout.Geometry, cache *inodeTableCache, i int) (inode.Inode, fserrors.FSError) {
	sector, offset := geo.InodeLocation(i)

	if !cache.valid || cache.sector != sector {
		if cache.buf == nil {
			cache.buf = make([]byte, geo.SectorSize)
		}
		if err := img.ReadSector(sector, cache.buf); err != nil {
			return inode.Inode{}, err
		}
		cache.sector = sector
		cache.valid = true
	}

	return inode.Decode(cache.buf, offset, geo.MaxSectorsPerFile)
}

// readInodeAt reads a single inode without participating in any cache; use
// it for one-off reads outside of path resolution.
func readInodeAt(img *disk.Disk, geo layout.Geometry, i int) (inode.Inode, fserrors.FSError) {
	var cache inodeTableCache
	return readInodeCached(img, geo, &cache, i)
}

// writeInodeAt always goes straight to disk: it reads the inode-table
// sector fresh (to avoid clobbering neighboring inodes packed into the same
// sector), patches in the new record, and writes the sector back.
func writeInodeAt(img *disk.Disk, geo layout.Geometry, i int, ino inode.Inode) fserrors.FSError {
	sector, offset := geo.InodeLocation(i)

	buf := make([]byte, geo.SectorSize)
	if err := img.ReadSector(sector, buf); err != nil {
		return err
	}
	if err := inode.Encode(buf, offset, ino); err != nil {
		return err
	}
	return img.WriteSector(sector, buf)
}

func readDirentAt(img *disk.Disk, geo layout.Geometry, dirInode inode.Inode, slot int) (dirent.Dirent, fserrors.FSError) {
	group := slot / geo.DirentsPerSector
	if group >= len(dirInode.Data) {
		return dirent.Dirent{}, fserrors.GENERAL.WithMessage("dirent slot exceeds inode capacity")
	}

	buf := make([]byte, geo.SectorSize)
	if err := img.ReadSector(int(dirInode.Data[group]), buf); err != nil {
		return dirent.Dirent{}, err
	}

	offset := (slot % geo.DirentsPerSector) * dirent.Size
	return dirent.Decode(buf, offset)
}

func writeDirentAt(img *disk.Disk, geo layout.Geometry, dirInode inode.Inode, slot int, d dirent.Dirent) fserrors.FSError {
	group := slot / geo.DirentsPerSector
	if group >= len(dirInode.Data) {
		return fserrors.GENERAL.WithMessage("dirent slot exceeds inode capacity")
	}

	sector := int(dirInode.Data[group])
	buf := make([]byte, geo.SectorSize)
	if err := img.ReadSector(sector, buf); err != nil {
		return err
	}
	if err := dirent.Encode(buf, offset(geo, slot), d); err != nil {
		return err
	}
	return img.WriteSector(sector, buf)
}

func zeroDirentAt(img *disk.Disk, geo layout.Geometry, dirInode inode.Inode, slot int) fserrors.FSError {
	group := slot / geo.DirentsPerSector
	sector := int(dirInode.Data[group])

	buf := make([]byte, geo.SectorSize)
	if err := img.ReadSector(sector, buf); err != nil {
		return err
	}
	if err := dirent.Zero(buf, offset(geo, slot)); err != nil {
		return err
	}
	return img.WriteSector(sector, buf)
}

func offset(geo layout.Geometry, slot int) int {
	return (slot % geo.DirentsPerSector) * dirent.Size
}
