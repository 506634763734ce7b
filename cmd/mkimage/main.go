package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/maurelya/simplefs/dirent"
	"github.com/maurelya/simplefs/fs"
	"github.com/maurelya/simplefs/inode"
	"github.com/maurelya/simplefs/layout"
)

func main() {
	app := cli.App{
		Usage: "Create and inspect simplefs disk images",
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "Create a fresh image, formatting it if it doesn't already exist",
				ArgsUsage: "IMAGE_FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "preset", Usage: "named geometry preset, see 'presets'"},
					&cli.IntFlag{Name: "sector-size", Value: 512},
					&cli.IntFlag{Name: "total-sectors", Value: 2048},
					&cli.IntFlag{Name: "max-files", Value: 256},
					&cli.IntFlag{Name: "max-sectors-per-file", Value: 64},
				},
				Action: formatImage,
			},
			{
				Name:   "presets",
				Usage:  "List the named geometry presets",
				Action: listPresets,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func formatImage(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("missing IMAGE_FILE argument", 1)
	}

	geo, err := resolveGeometry(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fsys, ferr := fs.Boot(path, geo)
	if ferr != nil {
		return cli.Exit(ferr.Error(), 1)
	}
	if serr := fsys.Sync(); serr != nil {
		return cli.Exit(serr.Error(), 1)
	}

	fmt.Printf("formatted %s: %d sectors of %d bytes, %d inodes\n", path, geo.TotalSectors, geo.SectorSize, geo.MaxFiles)
	return nil
}

func listPresets(c *cli.Context) error {
	for _, slug := range layout.ListPresets() {
		p, err := layout.GetPreset(slug)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Printf("%-10s %-16s sector_size=%-6d total_sectors=%-8d max_files=%-6d max_sectors_per_file=%d\n",
			p.Slug, p.Name, p.SectorSize, p.TotalSectors, p.MaxFiles, p.MaxSectorsPerFile)
	}
	return nil
}

func resolveGeometry(c *cli.Context) (layout.Geometry, error) {
	if slug := c.String("preset"); slug != "" {
		p, err := layout.GetPreset(slug)
		if err != nil {
			return layout.Geometry{}, err
		}
		return presetGeometry(p), nil
	}

	maxSectorsPerFile := c.Int("max-sectors-per-file")
	return layout.New(
		c.Int("sector-size"),
		c.Int("total-sectors"),
		c.Int("max-files"),
		maxSectorsPerFile,
		inode.Size(maxSectorsPerFile),
		dirent.Size,
	), nil
}

func presetGeometry(p layout.Preset) layout.Geometry {
	return layout.New(
		p.SectorSize,
		p.TotalSectors,
		p.MaxFiles,
		p.MaxSectorsPerFile,
		inode.Size(p.MaxSectorsPerFile),
		dirent.Size,
	)
}
