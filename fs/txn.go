package fs

import fserrors "github.com/maurelya/simplefs/errors"

// txn tracks bitmap bits allocated during a single public operation so they
// can be rolled back if a later sub-step fails, per the "Transactional
// allocation" design note in spec.md section 9: the reference reimplements
// the documented leak-on-failure behavior, but a hardened implementation
// should undo provisional allocations instead.
type txn struct {
	fsys        *FS
	inodeBits   []int
	sectorBits  []int
}

func (fsys *FS) newTxn() *txn {
	return &txn{fsys: fsys}
}

func (t *txn) allocInode() (int, bool, fserrors.FSError) {
	idx, ok, err := t.fsys.InodeBitmap.Allocate()
	if err != nil || !ok {
		return 0, ok, err
	}
	t.inodeBits = append(t.inodeBits, idx)
	return idx, true, nil
}

func (t *txn) allocSector() (int, bool, fserrors.FSError) {
	idx, ok, err := t.fsys.SectorBitmap.Allocate()
	if err != nil || !ok {
		return 0, ok, err
	}
	t.sectorBits = append(t.sectorBits, idx)
	return idx, true, nil
}

// commit discards the undo list: every bit allocated during this
// transaction is now permanently referenced by a live inode/dirent.
func (t *txn) commit() {
	t.inodeBits = nil
	t.sectorBits = nil
}

// rollback frees every bit this transaction allocated. Errors freeing a bit
// are ignored -- rollback only runs once an operation has already failed,
// and there is no further-failed state to report it to.
func (t *txn) rollback() {
	for _, b := range t.inodeBits {
		_ = t.fsys.InodeBitmap.Free(b)
	}
	for _, b := range t.sectorBits {
		_ = t.fsys.SectorBitmap.Free(b)
	}
	t.inodeBits = nil
	t.sectorBits = nil
}
