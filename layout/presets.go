package layout

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// Preset is a named, ready-to-format disk size, grounded on the teacher's
// disks.DiskGeometry CSV-driven catalog. It exists purely as a convenience
// for cmd/mkimage and tests -- it changes nothing about how a Geometry is
// computed from its four compile-time constants.
type Preset struct {
	Slug              string `csv:"slug"`
	Name              string `csv:"name"`
	SectorSize        int    `csv:"sector_size"`
	TotalSectors      int    `csv:"total_sectors"`
	MaxFiles          int    `csv:"max_files"`
	MaxSectorsPerFile int    `csv:"max_sectors_per_file"`
}

//go:embed presets.csv
var presetsRawCSV string

var presets map[string]Preset

func init() {
	presets = make(map[string]Preset)
	reader := strings.NewReader(presetsRawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Preset) error {
		if _, exists := presets[row.Slug]; exists {
			return fmt.Errorf("duplicate preset slug %q", row.Slug)
		}
		presets[row.Slug] = row
		return nil
	})
	if err != nil && err != io.EOF {
		panic(err)
	}
}

// GetPreset looks up a named geometry preset such as "floppy" or "small".
func GetPreset(slug string) (Preset, error) {
	preset, ok := presets[slug]
	if ok {
		return preset, nil
	}
	return Preset{}, fmt.Errorf("no predefined geometry preset named %q", slug)
}

// ListPresets returns the slugs of every known preset.
func ListPresets() []string {
	slugs := make([]string, 0, len(presets))
	for slug := range presets {
		slugs = append(slugs, slug)
	}
	return slugs
}
