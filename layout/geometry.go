// Package layout computes the on-disk region map from the four compile-time
// geometry constants, grounded on the teacher's formattingdriver.go geometry
// arithmetic (block bitmap size, first data block, minimum image size).
// Nothing downstream is allowed to hard-code a sector number; everything is
// derived here.
package layout

const (
	// MaxName is the maximum length of a path component including its
	// trailing null terminator.
	MaxName = 16
	// MaxPath is the maximum length of a full path including its trailing
	// null terminator.
	MaxPath = 256
	// MaxOpenFiles is the capacity of the process-wide open file table.
	MaxOpenFiles = 256
	// Magic is the 4-byte superblock tag identifying a formatted image.
	Magic uint32 = 0xDEADBEEF
)

// Geometry is the set of compile-time constants the spec requires every
// layout computation be derived from, plus the derived region map.
type Geometry struct {
	SectorSize         int
	TotalSectors       int
	MaxFiles           int
	MaxSectorsPerFile  int
	InodeSize          int
	DirentSize         int
	InodeBitmapStart   int
	InodeBitmapLen     int
	SectorBitmapStart  int
	SectorBitmapLen    int
	InodeTableStart    int
	InodeTableLen      int
	DataRegionStart    int
	DataRegionLen      int
	InodesPerSector    int
	DirentsPerSector   int
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// New computes the full region map for a disk of the given geometry and
// fixed-width on-disk record sizes.
func New(sectorSize, totalSectors, maxFiles, maxSectorsPerFile, inodeSize, direntSize int) Geometry {
	g := Geometry{
		SectorSize:        sectorSize,
		TotalSectors:       totalSectors,
		MaxFiles:          maxFiles,
		MaxSectorsPerFile: maxSectorsPerFile,
		InodeSize:         inodeSize,
		DirentSize:        direntSize,
	}

	// Superblock occupies sector 0.
	g.InodeBitmapStart = 1
	g.InodeBitmapLen = ceilDiv(ceilDiv(maxFiles, 8), sectorSize)

	g.SectorBitmapStart = g.InodeBitmapStart + g.InodeBitmapLen
	g.SectorBitmapLen = ceilDiv(ceilDiv(totalSectors, 8), sectorSize)

	g.InodesPerSector = sectorSize / inodeSize
	g.InodeTableStart = g.SectorBitmapStart + g.SectorBitmapLen
	g.InodeTableLen = ceilDiv(maxFiles, g.InodesPerSector)

	g.DirentsPerSector = sectorSize / direntSize

	g.DataRegionStart = g.InodeTableStart + g.InodeTableLen
	g.DataRegionLen = totalSectors - g.DataRegionStart

	return g
}

// InodeLocation returns the inode-table sector and in-sector byte offset
// for inode number i.
func (g Geometry) InodeLocation(i int) (sector int, offset int) {
	sector = g.InodeTableStart + i/g.InodesPerSector
	offset = (i % g.InodesPerSector) * g.InodeSize
	return
}

// MetadataSectorCount is the number of sectors reserved for the superblock
// and both bitmaps and the inode table -- i.e. the prefix of the sector
// bitmap that must be pre-allocated at format time.
func (g Geometry) MetadataSectorCount() int {
	return g.DataRegionStart
}
