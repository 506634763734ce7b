// Package fsck independently re-derives and cross-checks the invariants of
// spec.md section 3 against a live image: it never calls into package fs,
// so a bug shared between the namespace code and its checker can't hide a
// real corruption. This is a domain-stack supplement (SPEC_FULL.md section
// 4.10), not part of THE CORE's control flow -- a read-only auditing tool
// layered on top of it.
package fsck

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/maurelya/simplefs/bitmap"
	"github.com/maurelya/simplefs/dirent"
	"github.com/maurelya/simplefs/disk"
	"github.com/maurelya/simplefs/inode"
	"github.com/maurelya/simplefs/layout"
)

// Checker audits one image against a fixed geometry.
type Checker struct {
	Img *disk.Disk
	Geo layout.Geometry
}

func New(img *disk.Disk, geo layout.Geometry) Checker {
	return Checker{Img: img, Geo: geo}
}

// Check is a convenience wrapper around New(img, geo).Check() for callers
// that don't need to reuse the Checker value.
func Check(img *disk.Disk, geo layout.Geometry) error {
	return New(img, geo).Check()
}

// Check walks the whole image and returns every invariant violation it
// finds, aggregated with go-multierror instead of stopping at the first.
// A nil return means the image is consistent.
func (c Checker) Check() error {
	inodeBM := bitmap.New(c.Img, c.Geo.InodeBitmapStart, c.Geo.InodeBitmapLen, c.Geo.MaxFiles)
	sectorBM := bitmap.New(c.Img, c.Geo.SectorBitmapStart, c.Geo.SectorBitmapLen, c.Geo.TotalSectors)

	var result *multierror.Error

	rootSet, err := inodeBM.Get(0)
	if err != nil {
		result = multierror.Append(result, err)
	} else if !rootSet {
		result = multierror.Append(result, fmt.Errorf("invariant 1: root inode bit is not set"))
	}

	root, err := readInode(c.Img, c.Geo, 0)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("invariant 1: cannot read root inode: %w", err))
		return result.ErrorOrNil()
	}
	if !root.IsDirectory() {
		result = multierror.Append(result, fmt.Errorf("invariant 1: root inode is not a directory"))
	}

	seenInodes := map[int]bool{0: true}
	sectorRefs := map[int]int{}

	var walk func(dirNum int)
	walk = func(dirNum int) {
		dirInode, rerr := readInode(c.Img, c.Geo, dirNum)
		if rerr != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: cannot read: %w", dirNum, rerr))
			return
		}
		for _, s := range dirInode.Data {
			if s != 0 {
				sectorRefs[int(s)]++
			}
		}

		for slot := 0; slot < dirInode.Size; slot++ {
			d, derr := readDirentAt(c.Img, c.Geo, dirInode, slot)
			if derr != nil {
				result = multierror.Append(result, fmt.Errorf("inode %d slot %d: cannot read dirent: %w", dirNum, slot, derr))
				continue
			}

			if seenInodes[d.Inode] {
				result = multierror.Append(result, fmt.Errorf(
					"invariant 3: inode %d referenced by more than one directory entry (%q)", d.Inode, d.Name))
				continue
			}
			seenInodes[d.Inode] = true

			childSet, gerr := inodeBM.Get(d.Inode)
			if gerr != nil {
				result = multierror.Append(result, gerr)
				continue
			}
			if !childSet {
				result = multierror.Append(result, fmt.Errorf(
					"invariant 3: dirent %q points to inode %d whose bitmap bit is clear", d.Name, d.Inode))
				continue
			}

			child, cerr := readInode(c.Img, c.Geo, d.Inode)
			if cerr != nil {
				result = multierror.Append(result, fmt.Errorf("inode %d: cannot read: %w", d.Inode, cerr))
				continue
			}

			if child.IsDirectory() {
				walk(d.Inode)
				continue
			}

			for _, s := range child.Data {
				if s != 0 {
					sectorRefs[int(s)]++
				}
			}

			wantSectors := ceilDiv(child.Size, c.Geo.SectorSize)
			if child.AllocatedSectorCount() != wantSectors {
				result = multierror.Append(result, fmt.Errorf(
					"invariant 5: inode %d has size %d (wants %d sectors) but owns %d",
					d.Inode, child.Size, wantSectors, child.AllocatedSectorCount()))
			}
		}
	}
	walk(0)

	for i := 0; i < c.Geo.MaxFiles; i++ {
		set, gerr := inodeBM.Get(i)
		if gerr != nil {
			result = multierror.Append(result, gerr)
			continue
		}
		if set && i != 0 && !seenInodes[i] {
			result = multierror.Append(result, fmt.Errorf(
				"invariant 3: inode %d bit is set but not referenced by any directory entry", i))
		}
	}

	metadataEnd := c.Geo.DataRegionStart
	for s := 0; s < c.Geo.TotalSectors; s++ {
		set, gerr := sectorBM.Get(s)
		if gerr != nil {
			result = multierror.Append(result, gerr)
			continue
		}
		refs := sectorRefs[s]

		if s < metadataEnd {
			if !set {
				result = multierror.Append(result, fmt.Errorf(
					"invariant 2: metadata sector %d bit is clear", s))
			}
			continue
		}

		if refs > 1 {
			result = multierror.Append(result, fmt.Errorf(
				"invariant 2: sector %d is referenced by %d inodes", s, refs))
		}
		if set && refs == 0 {
			result = multierror.Append(result, fmt.Errorf(
				"invariant 2: sector %d bit is set but not referenced by any live inode", s))
		}
		if !set && refs > 0 {
			result = multierror.Append(result, fmt.Errorf(
				"invariant 2: sector %d is referenced by a live inode but its bit is clear", s))
		}
	}

	return result.ErrorOrNil()
}

func readInode(img *disk.Disk, geo layout.Geometry, i int) (inode.Inode, error) {
	sector, offset := geo.InodeLocation(i)
	buf := make([]byte, geo.SectorSize)
	if err := img.ReadSector(sector, buf); err != nil {
		return inode.Inode{}, err
	}
	return inode.Decode(buf, offset, geo.MaxSectorsPerFile)
}

func readDirentAt(img *disk.Disk, geo layout.Geometry, dirInode inode.Inode, slot int) (dirent.Dirent, error) {
	group := slot / geo.DirentsPerSector
	buf := make([]byte, geo.SectorSize)
	if err := img.ReadSector(int(dirInode.Data[group]), buf); err != nil {
		return dirent.Dirent{}, err
	}
	return dirent.Decode(buf, (slot%geo.DirentsPerSector)*dirent.Size)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
