package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/maurelya/simplefs/dirent"
	"github.com/maurelya/simplefs/disk"
	"github.com/maurelya/simplefs/fsck"
	"github.com/maurelya/simplefs/inode"
	"github.com/maurelya/simplefs/layout"
)

func main() {
	app := cli.App{
		Usage:     "Check a simplefs image for invariant violations",
		ArgsUsage: "IMAGE_FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "preset", Usage: "named geometry preset the image was formatted with"},
			&cli.IntFlag{Name: "sector-size", Value: 512},
			&cli.IntFlag{Name: "total-sectors", Value: 2048},
			&cli.IntFlag{Name: "max-files", Value: 256},
			&cli.IntFlag{Name: "max-sectors-per-file", Value: 64},
		},
		Action: check,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func check(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("missing IMAGE_FILE argument", 1)
	}

	geo, err := resolveGeometry(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	img, derr := disk.Load(path, geo.SectorSize, geo.TotalSectors)
	if derr != nil {
		return cli.Exit(derr.Error(), 1)
	}

	if cerr := fsck.Check(img, geo); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
		return cli.Exit("image is inconsistent", 1)
	}

	fmt.Println("ok")
	return nil
}

func resolveGeometry(c *cli.Context) (layout.Geometry, error) {
	if slug := c.String("preset"); slug != "" {
		p, err := layout.GetPreset(slug)
		if err != nil {
			return layout.Geometry{}, err
		}
		return layout.New(p.SectorSize, p.TotalSectors, p.MaxFiles, p.MaxSectorsPerFile,
			inode.Size(p.MaxSectorsPerFile), dirent.Size), nil
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
