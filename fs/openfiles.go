package fs

import "github.com/maurelya/simplefs/layout"

// allocOpenSlot finds a free Open File Table slot in [0, MaxOpenFiles) and
// marks it occupied, grounded on the occupancy-bitmap shape of
// file_systems/common/blockcache/blockcache.go's loadedBlocks tracking.
func (fsys *FS) allocOpenSlot() (int, bool) {
	for i := 0; i < layout.MaxOpenFiles; i++ {
		if !fsys.openUsed.Get(i) {
			fsys.openUsed.Set(i, true)
			return i, true
		}
	}
	return 0, false
}

func (fsys *FS) freeOpenSlot(fd int) {
	fsys.openUsed.Set(fd, false)
	fsys.open[fd] = openFileSlot{}
}

func (fsys *FS) isOpenSlotValid(fd int) bool {
	return fd >= 0 && fd < layout.MaxOpenFiles && fsys.openUsed.Get(fd)
}

// countOpenReferencesTo reports how many Open File Table entries currently
// reference the given inode, for FileUnlink's FILE_IN_USE precondition.
func (fsys *FS) countOpenReferencesTo(inodeNum int) int {
	count := 0
	for fd := 0; fd < layout.MaxOpenFiles; fd++ {
		if fsys.openUsed.Get(fd) && fsys.open[fd].inodeNum == inodeNum {
			count++
		}
	}
	return count
}
