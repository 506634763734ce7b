// Package dirent defines the fixed-size on-disk directory entry record,
// grounded on the teacher's RawDirent/buildDirentFromBytes in
// drivers/unixv1/dirents.go, generalized from its 8-byte 6th-edition names
// to the spec's MaxName-byte legal-name buffer.
package dirent

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"

	fserrors "github.com/maurelya/simplefs/errors"
	"github.com/maurelya/simplefs/layout"
)

// Size is the fixed on-disk byte size of one directory entry: a
// null-terminated name buffer plus a 4-byte inode index.
const Size = layout.MaxName + 4

// Dirent is the in-memory form of one directory entry.
type Dirent struct {
	Name  string
	Inode int
}

// Encode writes the dirent into buf at the given byte offset. buf must be
// at least offset+Size bytes long.
func Encode(buf []byte, offset int, d Dirent) fserrors.FSError {
	if offset+Size > len(buf) {
		return fserrors.GENERAL.WithMessage("dirent write would overflow sector buffer")
	}
	if len(d.Name) >= layout.MaxName {
		return fserrors.GENERAL.WithMessage("name too long to encode")
	}

	var nameBuf [layout.MaxName]byte
	copy(nameBuf[:], d.Name)

	w := bytewriter.New(buf[offset : offset+Size])
	if _, err := w.Write(nameBuf[:]); err != nil {
		return fserrors.GENERAL.WrapError(err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(d.Inode)); err != nil {
		return fserrors.GENERAL.WrapError(err)
	}
	return nil
}

// Decode reads a dirent from buf at the given byte offset.
func Decode(buf []byte, offset int) (Dirent, fserrors.FSError) {
	if offset+Size > len(buf) {
		return Dirent{}, fserrors.GENERAL.WithMessage("dirent read would overflow sector buffer")
	}

	nameBuf := buf[offset : offset+layout.MaxName]
	nul := bytes.IndexByte(nameBuf, 0)
	var name string
	if nul >= 0 {
		name = string(nameBuf[:nul])
	} else {
		name = string(nameBuf)
	}

	r := bytes.NewReader(buf[offset+layout.MaxName : offset+Size])
	var inodeNum uint32
	if err := binary.Read(r, binary.LittleEndian, &inodeNum); err != nil {
		return Dirent{}, fserrors.GENERAL.WrapError(err)
	}

	return Dirent{Name: name, Inode: int(inodeNum)}, nil
}

// Zero overwrites the dirent slot at the given offset with null bytes,
// exactly as Remove's swap-with-last compaction requires for the vacated
// final slot.
func Zero(buf []byte, offset int) fserrors.FSError {
	if offset+Size > len(buf) {
		return fserrors.GENERAL.WithMessage("dirent zero would overflow sector buffer")
	}
	for i := offset; i < offset+Size; i++ {
		buf[i] = 0
	}
	return nil
}
