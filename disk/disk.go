// Package disk implements the block device abstraction consumed by the rest
// of simplefs: a fixed array of fixed-size sectors with sector-granularity
// read/write and host-file load/save. It knows nothing about inodes,
// bitmaps, or paths -- it is the swappable collaborator every higher layer
// is built on top of, grounded on the teacher's BlockStream sector
// addressing but backed by an in-memory image rather than a live file.
package disk

import (
	"fmt"
	"io"
	"os"

	"github.com/xaionaro-go/bytesextra"

	fserrors "github.com/maurelya/simplefs/errors"
)

// Disk is a fixed-size array of SectorSize-byte sectors, addressed by
// index in [0, TotalSectors). All state lives in memory; only Save persists
// it to a host file.
type Disk struct {
	SectorSize   int
	TotalSectors int
	stream       io.ReadWriteSeeker
	backing      []byte
}

// New allocates a fresh, zeroed in-memory disk of the given geometry.
func New(sectorSize, totalSectors int) *Disk {
	backing := make([]byte, sectorSize*totalSectors)
	return &Disk{
		SectorSize:   sectorSize,
		TotalSectors: totalSectors,
		stream:       bytesextra.NewReadWriteSeeker(backing),
		backing:      backing,
	}
}

func (d *Disk) checkBounds(sector int) fserrors.FSError {
	if sector < 0 || sector >= d.TotalSectors {
		return fserrors.GENERAL.WithMessage(
			fmt.Sprintf("sector %d not in [0, %d)", sector, d.TotalSectors))
	}
	return nil
}

// ReadSector copies exactly SectorSize bytes from the given sector into buf.
func (d *Disk) ReadSector(sector int, buf []byte) fserrors.FSError {
	if err := d.checkBounds(sector); err != nil {
		return err
	}
	if len(buf) != d.SectorSize {
		return fserrors.GENERAL.WithMessage("buffer is not one sector long")
	}

	if _, err := d.stream.Seek(int64(sector)*int64(d.SectorSize), io.SeekStart); err != nil {
		return fserrors.GENERAL.WrapError(err)
	}
	if _, err := io.ReadFull(d.stream, buf); err != nil {
		return fserrors.GENERAL.WrapError(err)
	}
	return nil
}

// WriteSector writes exactly SectorSize bytes from buf to the given sector.
func (d *Disk) WriteSector(sector int, buf []byte) fserrors.FSError {
	if err := d.checkBounds(sector); err != nil {
		return err
	}
	if len(buf) != d.SectorSize {
		return fserrors.GENERAL.WithMessage("buffer is not one sector long")
	}

	if _, err := d.stream.Seek(int64(sector)*int64(d.SectorSize), io.SeekStart); err != nil {
		return fserrors.GENERAL.WrapError(err)
	}
	if _, err := d.stream.Write(buf); err != nil {
		return fserrors.GENERAL.WrapError(err)
	}
	return nil
}

// Exists reports whether a backing image file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load populates a Disk of the given geometry from a host file. The file
// must be exactly SectorSize*TotalSectors bytes; any other size, or a
// missing file, is an error.
func Load(path string, sectorSize, totalSectors int) (*Disk, fserrors.FSError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fserrors.GENERAL.WrapError(err)
	}

	wantSize := sectorSize * totalSectors
	if len(data) != wantSize {
		return nil, fserrors.GENERAL.WithMessage(
			fmt.Sprintf("image %s is %d bytes, expected %d", path, len(data), wantSize))
	}

	return &Disk{
		SectorSize:   sectorSize,
		TotalSectors: totalSectors,
		stream:       bytesextra.NewReadWriteSeeker(data),
		backing:      data,
	}, nil
}

// Save persists the entire in-memory image to a host file, truncating or
// creating it as needed.
func (d *Disk) Save(path string) fserrors.FSError {
	if err := os.WriteFile(path, d.backing, 0o644); err != nil {
		return fserrors.GENERAL.WrapError(err)
	}
	return nil
}
