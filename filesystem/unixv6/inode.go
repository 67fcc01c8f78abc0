package unixv6

import "encoding/binary"

// Inode is the in-memory form of one 32-byte on-disk inode record.
type Inode struct {
	Mode  uint16
	Nlink uint8
	Uid   uint8
	Gid   uint8
	size0 uint8
	size1 uint16
	Addr  [AddrSmallLength]uint16
	Atime [2]uint16
	Mtime [2]uint16
}

// Allocated reports whether the inode's ALLOC bit is set.
func (in *Inode) Allocated() bool { return in.Mode&ModeAlloc != 0 }

// IsDir reports whether the inode's type bits select a directory.
func (in *Inode) IsDir() bool { return in.Mode&ModeIFMT == ModeDir }

// Size returns the file size packed across size0 (high 8 bits) and size1
// (low 16 bits).
func (in *Inode) Size() int32 {
	return int32(in.size0)<<16 | int32(in.size1)
}

// SetSize packs s into size0:size1. It is an error to set a negative size.
func (in *Inode) SetSize(s int32) error {
	if s < 0 {
		return newErr(CodeNoMem, "negative size %d", s)
	}
	in.size1 = uint16(s & 0xFFFF)
	in.size0 = uint8((s >> 16) & 0xFF)
	return nil
}

// small reports whether the inode currently addresses its data directly,
// i.e. whether its size fits the eight direct address slots. This is a
// function of the live size, not the advisory ModeLarge bit.
func (in *Inode) small() bool {
	return in.Size() <= smallFileMax
}

func marshalInode(in *Inode) []byte {
	buf := make([]byte, InodeSize)
	binary.LittleEndian.PutUint16(buf[0:2], in.Mode)
	buf[2] = in.Nlink
	buf[3] = in.Uid
	buf[4] = in.Gid
	buf[5] = in.size0
	binary.LittleEndian.PutUint16(buf[6:8], in.size1)
	for i, a := range in.Addr {
		binary.LittleEndian.PutUint16(buf[8+2*i:10+2*i], a)
	}
	binary.LittleEndian.PutUint16(buf[24:26], in.Atime[0])
	binary.LittleEndian.PutUint16(buf[26:28], in.Atime[1])
	binary.LittleEndian.PutUint16(buf[28:30], in.Mtime[0])
	binary.LittleEndian.PutUint16(buf[30:32], in.Mtime[1])
	return buf
}

func unmarshalInode(buf []byte) *Inode {
	in := &Inode{
		Mode:  binary.LittleEndian.Uint16(buf[0:2]),
		Nlink: buf[2],
		Uid:   buf[3],
		Gid:   buf[4],
		size0: buf[5],
		size1: binary.LittleEndian.Uint16(buf[6:8]),
	}
	for i := range in.Addr {
		in.Addr[i] = binary.LittleEndian.Uint16(buf[8+2*i : 10+2*i])
	}
	in.Atime[0] = binary.LittleEndian.Uint16(buf[24:26])
	in.Atime[1] = binary.LittleEndian.Uint16(buf[26:28])
	in.Mtime[0] = binary.LittleEndian.Uint16(buf[28:30])
	in.Mtime[1] = binary.LittleEndian.Uint16(buf[30:32])
	return in
}

// inodeSector returns the sector holding inode n and its slot within that
// sector.
func (fs *FileSystem) inodeSector(n uint16) (sector uint32, slot int) {
	return uint32(fs.super.InodeStart) + uint32(n)/InodesPerSector, int(n) % InodesPerSector
}

// ReadInode reads inode number n from disk.
func (fs *FileSystem) ReadInode(n uint16) (*Inode, error) {
	maxInode := uint16(fs.super.Isize) * InodesPerSector
	if n >= maxInode || n < RootInumber {
		return nil, newErr(CodeInodeOutOfRange, "inode %d out of range [1,%d)", n, maxInode)
	}
	sector, slot := fs.inodeSector(n)
	var buf [SectorSize]byte
	if err := fs.sio.readSector(sector, buf[:]); err != nil {
		return nil, err
	}
	in := unmarshalInode(buf[slot*InodeSize : (slot+1)*InodeSize])
	if !in.Allocated() {
		return nil, newErr(CodeUnallocatedInode, "inode %d not allocated", n)
	}
	return in, nil
}

// WriteInode writes inode to slot n, read-modify-write on its containing sector.
func (fs *FileSystem) WriteInode(n uint16, in *Inode) error {
	maxInode := uint16(fs.super.Isize) * InodesPerSector
	if n >= maxInode {
		return newErr(CodeInodeOutOfRange, "inode %d out of range [0,%d)", n, maxInode)
	}
	sector, slot := fs.inodeSector(n)
	var buf [SectorSize]byte
	if err := fs.sio.readSector(sector, buf[:]); err != nil {
		return err
	}
	copy(buf[slot*InodeSize:(slot+1)*InodeSize], marshalInode(in))
	return fs.sio.writeSector(sector, buf[:])
}

// AllocInode reserves the next free inode number in the inode bitmap and
// returns it. It does not write an inode record; pair with WriteInode or
// CreateInode.
func (fs *FileSystem) AllocInode() (uint16, error) {
	next, err := fs.inodeBitmap.FindNext()
	if err != nil {
		return 0, newErr(CodeNoMem, "%v", err)
	}
	fs.inodeBitmap.Set(next)
	return uint16(next), nil
}

// findSector resolves the k-th 512-byte chunk of an inode's data to a
// physical sector, following the direct/indirect addressing scheme described
// in the inode layer design: a small file (size <= 8 sectors) addresses data
// directly through Addr; a big file treats each Addr entry as an indirect
// sector of 256 pointers, so chunk k lives in Addr[k/256] at entry k%256.
func (fs *FileSystem) findSector(in *Inode, k int32) (uint32, error) {
	if !in.Allocated() {
		return 0, newErr(CodeUnallocatedInode, "inode not allocated")
	}
	size := in.Size()
	if size > maxFileSize {
		return 0, newErr(CodeFileTooLarge, "size %d exceeds max %d", size, maxFileSize)
	}
	if k < 0 || int64(k)*SectorSize >= int64(size) {
		return 0, newErr(CodeOffsetOutOfRange, "chunk %d out of range for size %d", k, size)
	}
	if in.small() {
		return uint32(in.Addr[k]), nil
	}
	indirectSector := in.Addr[k/AddressesPerSector]
	var buf [SectorSize]byte
	if err := fs.sio.readSector(uint32(indirectSector), buf[:]); err != nil {
		return 0, err
	}
	entry := (k % AddressesPerSector) * 2
	return uint32(binary.LittleEndian.Uint16(buf[entry : entry+2])), nil
}
