// Package bitmap implements the spec's Bitmap Engine: an on-disk, MSB-first
// bit vector with initialize/allocate/free semantics. It is deliberately not
// cached in memory -- every operation reads and writes through the disk
// layer, keeping crash semantics simple (see SPEC_FULL.md and DESIGN.md for
// why this is hand-rolled byte math rather than github.com/boljen/go-bitmap).
package bitmap

import (
	"github.com/maurelya/simplefs/disk"
	fserrors "github.com/maurelya/simplefs/errors"
)

// Engine operates over a bitmap stored in StartSector..StartSector+SectorCount
// and covering BitCapacity bits.
type Engine struct {
	Image       *disk.Disk
	StartSector int
	SectorCount int
	BitCapacity int
}

func New(img *disk.Disk, startSector, sectorCount, bitCapacity int) Engine {
	return Engine{Image: img, StartSector: startSector, SectorCount: sectorCount, BitCapacity: bitCapacity}
}

// bitMask returns the mask for bit k within a byte under MSB-first ordering:
// bit 0 is 0x80, bit 7 is 0x01.
func bitMask(k int) byte {
	return 0x80 >> uint(k%8)
}

// Initialize writes SectorCount sectors such that the first prefixOnes bits
// are 1 (MSB-first within each byte) and the rest, through the end of the
// allocated region, are 0.
func (e Engine) Initialize(prefixOnes int) fserrors.FSError {
	bitsPerSector := e.Image.SectorSize * 8
	buf := make([]byte, e.Image.SectorSize)

	for s := 0; s < e.SectorCount; s++ {
		for i := range buf {
			buf[i] = 0
		}

		sectorBitStart := s * bitsPerSector
		sectorBitEnd := sectorBitStart + bitsPerSector
		onesEnd := prefixOnes
		if onesEnd > sectorBitEnd {
			onesEnd = sectorBitEnd
		}
		for bit := sectorBitStart; bit < onesEnd; bit++ {
			localBit := bit - sectorBitStart
			buf[localBit/8] |= bitMask(localBit)
		}

		if err := e.Image.WriteSector(e.StartSector+s, buf); err != nil {
			return err
		}
	}
	return nil
}

// Allocate scans the bitmap in ascending bit order, sets the first 0 bit it
// finds within [0, BitCapacity), writes back only the sector it modified,
// and returns the bit index. It returns ok=false if the bitmap is full.
func (e Engine) Allocate() (index int, ok bool, ferr fserrors.FSError) {
	bitsPerSector := e.Image.SectorSize * 8
	buf := make([]byte, e.Image.SectorSize)

	for s := 0; s < e.SectorCount; s++ {
		if err := e.Image.ReadSector(e.StartSector+s, buf); err != nil {
			return 0, false, err
		}

		sectorBitStart := s * bitsPerSector
		limit := bitsPerSector
		if sectorBitStart+limit > e.BitCapacity {
			limit = e.BitCapacity - sectorBitStart
		}
		if limit <= 0 {
			break
		}

		for localBit := 0; localBit < limit; localBit++ {
			mask := bitMask(localBit)
			if buf[localBit/8]&mask == 0 {
				buf[localBit/8] |= mask
				if err := e.Image.WriteSector(e.StartSector+s, buf); err != nil {
					return 0, false, err
				}
				return sectorBitStart + localBit, true, nil
			}
		}
	}
	return 0, false, nil
}

// Free clears the given bit and writes its sector back. No validation is
// done that the bit was previously set.
func (e Engine) Free(bitIndex int) fserrors.FSError {
	bitsPerSector := e.Image.SectorSize * 8
	sector := bitIndex / bitsPerSector
	localBit := bitIndex % bitsPerSector

	buf := make([]byte, e.Image.SectorSize)
	if err := e.Image.ReadSector(e.StartSector+sector, buf); err != nil {
		return err
	}
	buf[localBit/8] &^= bitMask(localBit)
	return e.Image.WriteSector(e.StartSector+sector, buf)
}

// Get reads the current value of a single bit, for use by the fsck auditor.
func (e Engine) Get(bitIndex int) (bool, fserrors.FSError) {
	bitsPerSector := e.Image.SectorSize * 8
	sector := bitIndex / bitsPerSector
	localBit := bitIndex % bitsPerSector

	buf := make([]byte, e.Image.SectorSize)
	if err := e.Image.ReadSector(e.StartSector+sector, buf); err != nil {
		return false, err
	}
	return buf[localBit/8]&bitMask(localBit) != 0, nil
}
