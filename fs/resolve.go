package fs

import (
	"strings"

	"github.com/maurelya/simplefs/disk"
	fserrors "github.com/maurelya/simplefs/errors"
	"github.com/maurelya/simplefs/inode"
	"github.com/maurelya/simplefs/layout"
)

// isLegalName implements the legal name predicate of spec.md section 4.4:
// non-empty, length < MaxName, characters drawn from [A-Za-z0-9._-].
func isLegalName(name string) bool {
	if name == "" || len(name) >= layout.MaxName {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// splitPath breaks an absolute path into its non-empty components,
// collapsing consecutive separators exactly as spec.md section 4.4
// requires.
func splitPath(path string) (components []string, absolute bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			components = append(components, part)
		}
	}
	return components, true
}

// resolved is the path resolver's return contract from spec.md section 4.4:
// the parent directory's inode number, the last component's inode number
// (if it exists), and the last component's name.
type resolved struct {
	Parent int
	Child  int
	Found  bool
	Name   string
}

// resolve walks path from the root, consulting a one-sector inode cache
// scoped to this single call. notFoundCode and badNameCode let each public
// operation choose how a broken parent chain or an illegal name surfaces in
// the error taxonomy, per spec.md section 7.
func (fsys *FS) resolve(path string, notFoundCode, badNameCode fserrors.Code) (resolved, fserrors.FSError) {
	components, absolute := splitPath(path)
	if !absolute {
		return resolved{}, notFoundCode.WithMessage("path must be absolute")
	}
	if len(components) == 0 {
		return resolved{Parent: 0, Child: 0, Found: true, Name: ""}, nil
	}

	var cache inodeTableCache
	current := 0

	for i, name := range components {
		if !isLegalName(name) {
			return resolved{}, badNameCode.WithMessage("illegal path component: " + name)
		}

		currentInode, err := readInodeCached(fsys.Img, fsys.Geo, &cache, current)
		if err != nil {
			return resolved{}, err
		}
		if !currentInode.IsDirectory() {
			return resolved{}, notFoundCode.WithMessage("not a directory")
		}

		childInode, found, ferr := lookupChild(fsys.Img, fsys.Geo, currentInode, name)
		if ferr != nil {
			return resolved{}, ferr
		}

		if i == len(components)-1 {
			return resolved{Parent: current, Child: childInode, Found: found, Name: name}, nil
		}

		if !found {
			return resolved{}, notFoundCode.WithMessage("no such directory: " + name)
		}
		current = childInode
	}

	// Unreachable: the loop always returns on its last iteration.
	return resolved{}, notFoundCode
}

// lookupChild does a linear scan of a directory's live dirents (the first
// Size slots only, per spec.md section 4.4) looking for name.
func lookupChild(img *disk.Disk, geo layout.Geometry, dirInode inode.Inode, name string) (int, bool, fserrors.FSError) {
	for slot := 0; slot < dirInode.Size; slot++ {
		d, err := readDirentAt(img, geo, dirInode, slot)
		if err != nil {
			return 0, false, err
		}
		if d.Name == name {
			return d.Inode, true, nil
		}
	}
	return 0, false, nil
}
