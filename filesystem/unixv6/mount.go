package unixv6

import (
	"github.com/sirupsen/logrus"

	"github.com/unixv6fs/unixv6fs/backend"
	"github.com/unixv6fs/unixv6fs/backend/file"
	"github.com/unixv6fs/unixv6fs/util/bitmap"
	"github.com/unixv6fs/unixv6fs/util/timestamp"
)

// FileSystem is an in-memory handle onto a mounted unixv6 filesystem. It owns
// the open backing storage and the two free-space bitmaps; every other type
// in this package (File, DirectoryReader) is a value-typed view onto it.
type FileSystem struct {
	sio         *sectorIO
	super       *Superblock
	inodeBitmap *bitmap.Bitmap
	blockBitmap *bitmap.Bitmap
	log         *logrus.Entry
}

// Superblock returns a copy of the mounted filesystem's superblock.
func (fs *FileSystem) Superblock() Superblock { return *fs.super }

// Mount opens storage read/write, validates the boot sector and superblock,
// and reconstructs both free-space bitmaps by scanning the inode table -
// the filesystem persists no bitmap state between mounts.
func Mount(storage backend.Storage) (*FileSystem, error) {
	log := logrus.WithField("component", "unixv6.mount")

	sio, err := newSectorIO(storage)
	if err != nil {
		return nil, err
	}

	var boot [SectorSize]byte
	if err := sio.readSector(BootSector, boot[:]); err != nil {
		return nil, err
	}
	if err := checkBootSector(boot[:]); err != nil {
		return nil, err
	}

	var sb [SectorSize]byte
	if err := sio.readSector(SuperblockSector, sb[:]); err != nil {
		return nil, err
	}
	super, err := unmarshalSuperblock(sb[:])
	if err != nil {
		return nil, err
	}
	if err := super.validate(); err != nil {
		return nil, err
	}

	inodeBitmap, err := bitmap.New(uint64(super.InodeStart), uint64(super.Isize)*InodesPerSector-1)
	if err != nil {
		return nil, newErr(CodeBadBootSector, "inode bitmap: %v", err)
	}
	blockBitmap, err := bitmap.New(uint64(super.BlockStart)+1, uint64(super.Fsize)-1)
	if err != nil {
		return nil, newErr(CodeBadBootSector, "block bitmap: %v", err)
	}

	fs := &FileSystem{sio: sio, super: super, inodeBitmap: inodeBitmap, blockBitmap: blockBitmap, log: log}
	if err := fs.rebuildBitmaps(); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"isize": super.Isize,
		"fsize": super.Fsize,
	}).Debug("mounted unixv6 filesystem")
	return fs, nil
}

// MountPath is a convenience wrapper around Mount that opens the backing
// file at path for read/write using the default OS-file backend.
func MountPath(path string) (*FileSystem, error) {
	storage, err := file.OpenFromPath(path, false)
	if err != nil {
		return nil, newErr(CodeIO, "open %s: %v", path, err)
	}
	fs, err := Mount(storage)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	if blockSize, freeBytes, err := file.DeviceInfo(path); err == nil {
		fs.log.WithFields(logrus.Fields{
			"host_block_size": blockSize,
			"host_free_bytes": freeBytes,
		}).Debug("backing device info")
	}
	return fs, nil
}

// rebuildBitmaps scans every inode-table sector and, for each allocated
// inode, marks its number used in the inode bitmap and walks its reachable
// sectors into the free-block bitmap.
func (fs *FileSystem) rebuildBitmaps() error {
	var sector [SectorSize]byte
	for i := uint16(0); i < fs.super.Isize; i++ {
		if err := fs.sio.readSector(uint32(fs.super.InodeStart)+uint32(i), sector[:]); err != nil {
			return err
		}
		for slot := 0; slot < InodesPerSector; slot++ {
			in := unmarshalInode(sector[slot*InodeSize : (slot+1)*InodeSize])
			if !in.Allocated() {
				continue
			}
			inr := uint16(i)*InodesPerSector + uint16(slot)
			fs.inodeBitmap.Set(uint64(inr))
			if err := fs.markReachable(in); err != nil {
				return err
			}
		}
	}
	return nil
}

// markReachable marks every data sector (and, for big files, every indirect
// sector) reachable from in's address list as used in the free-block bitmap.
func (fs *FileSystem) markReachable(in *Inode) error {
	size := in.Size()
	numChunks := int32(0)
	if size > 0 {
		numChunks = (size + SectorSize - 1) / SectorSize
	}
	if in.small() {
		for k := int32(0); k < numChunks; k++ {
			sector, err := fs.findSector(in, k)
			if err != nil {
				return err
			}
			fs.blockBitmap.Set(uint64(sector))
		}
		return nil
	}
	numIndirect := (numChunks + AddressesPerSector - 1) / AddressesPerSector
	for idx := int32(0); idx < numIndirect && idx < AddrSmallLength; idx++ {
		fs.blockBitmap.Set(uint64(in.Addr[idx]))
	}
	for k := int32(0); k < numChunks; k++ {
		sector, err := fs.findSector(in, k)
		if err != nil {
			return err
		}
		fs.blockBitmap.Set(uint64(sector))
	}
	return nil
}

// Unmount releases both bitmaps and closes the backing storage.
func (fs *FileSystem) Unmount() error {
	fs.inodeBitmap = nil
	fs.blockBitmap = nil
	return fs.sio.close()
}

// Mkfs initializes an empty filesystem image of the given geometry: a boot
// sector, a superblock, a zeroed inode table except for an allocated empty
// root directory at RootInumber, and an unwritten data region.
func Mkfs(path string, numBlocks, numInodes uint16) error {
	isize := numInodes / InodesPerSector
	if numInodes%InodesPerSector != 0 {
		isize++
	}
	if uint32(numBlocks) < uint32(isize)+uint32(numInodes) {
		return newErr(CodeNotEnoughBlocks, "%d blocks insufficient for isize %d + %d inodes", numBlocks, isize, numInodes)
	}

	super := &Superblock{
		Isize:      isize,
		Fsize:      numBlocks,
		InodeStart: SuperblockSector + 1,
	}
	super.BlockStart = super.InodeStart + super.Isize

	storage, err := file.CreateFromPath(path, int64(numBlocks)*SectorSize)
	if err != nil {
		return newErr(CodeIO, "create %s: %v", path, err)
	}
	sio, err := newSectorIO(storage)
	if err != nil {
		_ = storage.Close()
		return err
	}
	defer sio.close()

	if err := sio.writeSector(BootSector, marshalBootSector()); err != nil {
		return err
	}
	if err := sio.writeSector(SuperblockSector, super.marshal()); err != nil {
		return err
	}

	root := &Inode{Mode: ModeDir | ModeAlloc}
	ts := timestamp.GetTime()
	root.Mtime[0] = uint16(ts.Unix() >> 16)
	root.Mtime[1] = uint16(ts.Unix())

	rootSector := zeroInodeSector()
	copy(rootSector[RootInumber*InodeSize:(RootInumber+1)*InodeSize], marshalInode(root))
	if err := sio.writeSector(uint32(super.InodeStart), rootSector); err != nil {
		return err
	}

	empty := zeroInodeSector()
	for i := uint16(1); i < super.Isize; i++ {
		if err := sio.writeSector(uint32(super.InodeStart)+uint32(i), empty); err != nil {
			return err
		}
	}

	return nil
}
