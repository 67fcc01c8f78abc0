package unixv6

import (
	"bytes"
	"encoding/binary"
)

// Superblock describes the geometry of a mounted filesystem. It occupies
// SuperblockSector, packed little-endian and padded to SectorSize bytes.
type Superblock struct {
	Isize      uint16 // sectors reserved for the inode table
	Fsize      uint16 // total sectors in the filesystem
	InodeStart uint16 // first sector of the inode table (= 2)
	BlockStart uint16 // first sector of the data region (= InodeStart + Isize)
}

// validate checks the superblock invariant: the data region must be non-empty.
func (s *Superblock) validate() error {
	if int(s.Fsize) < int(s.Isize)+2 {
		return newErr(CodeBadBootSector, "fsize %d too small for isize %d", s.Fsize, s.Isize)
	}
	if s.BlockStart >= s.Fsize {
		return newErr(CodeBadBootSector, "empty data region: block_start %d >= fsize %d", s.BlockStart, s.Fsize)
	}
	return nil
}

// marshal packs the superblock into one zero-padded sector.
func (s *Superblock) marshal() []byte {
	buf := make([]byte, SectorSize)
	binary.LittleEndian.PutUint16(buf[0:2], s.Isize)
	binary.LittleEndian.PutUint16(buf[2:4], s.Fsize)
	binary.LittleEndian.PutUint16(buf[4:6], s.InodeStart)
	binary.LittleEndian.PutUint16(buf[6:8], s.BlockStart)
	return buf
}

// unmarshalSuperblock reads a Superblock out of one sector's worth of bytes.
func unmarshalSuperblock(buf []byte) (*Superblock, error) {
	if len(buf) != SectorSize {
		return nil, newErr(CodeBadBootSector, "superblock sector must be %d bytes, got %d", SectorSize, len(buf))
	}
	s := &Superblock{
		Isize:      binary.LittleEndian.Uint16(buf[0:2]),
		Fsize:      binary.LittleEndian.Uint16(buf[2:4]),
		InodeStart: binary.LittleEndian.Uint16(buf[4:6]),
		BlockStart: binary.LittleEndian.Uint16(buf[6:8]),
	}
	return s, nil
}

// marshalBootSector builds the boot sector, which carries only the magic
// byte at its documented offset; the rest is unspecified and left zero.
func marshalBootSector() []byte {
	buf := make([]byte, SectorSize)
	buf[bootMagicOffset] = bootMagic
	return buf
}

// checkBootSector verifies the magic byte of a boot sector read from disk.
func checkBootSector(buf []byte) error {
	if len(buf) != SectorSize || buf[bootMagicOffset] != bootMagic {
		return newErr(CodeBadBootSector, "missing boot sector magic")
	}
	return nil
}

// zeroInodeSector returns one sector's worth of zeroed inode records, used
// to initialize the inode table during mkfs.
func zeroInodeSector() []byte {
	return bytes.Repeat([]byte{0}, SectorSize)
}
