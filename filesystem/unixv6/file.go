package unixv6

import "encoding/binary"

// File is a sequential, byte-granular view onto one inode's contents: an
// open inode snapshot plus a cursor. The snapshot is refreshed on Open and
// rewritten to disk whenever the size changes.
type File struct {
	fs     *FileSystem
	Inr    uint16
	inode  *Inode
	offset int32
}

// Open reads inode inr and returns a File positioned at offset 0. It fails
// with CodeUnallocatedInode if the inode is not allocated.
func (fs *FileSystem) Open(inr uint16) (*File, error) {
	in, err := fs.ReadInode(inr)
	if err != nil {
		return nil, err
	}
	return &File{fs: fs, Inr: inr, inode: in}, nil
}

// Inode returns the File's in-memory inode snapshot.
func (f *File) Inode() *Inode { return f.inode }

// CreateInode writes a fresh, zero-length inode at inr with mode ALLOC|mode,
// typically immediately after AllocInode reserved inr.
func (fs *FileSystem) CreateInode(inr uint16, mode uint16) (*File, error) {
	in := &Inode{Mode: ModeAlloc | mode}
	if err := fs.WriteInode(inr, in); err != nil {
		return nil, err
	}
	return &File{fs: fs, Inr: inr, inode: in}, nil
}

// Lseek repositions the cursor. off must lie in [0, size).
func (f *File) Lseek(off int32) error {
	if off < 0 || off >= f.inode.Size() {
		return newErr(CodeOffsetOutOfRange, "seek %d out of range for size %d", off, f.inode.Size())
	}
	f.offset = off
	return nil
}

// ReadBlock reads at most SectorSize bytes at the current cursor into buf,
// which must be SectorSize bytes, and advances the cursor. It returns the
// number of bytes read, 0 at end of file, or a negative-coded error.
func (f *File) ReadBlock(buf []byte) (int, error) {
	size := f.inode.Size()
	if f.offset >= size {
		return 0, nil
	}
	sector, err := f.fs.findSector(f.inode, f.offset/SectorSize)
	if err != nil {
		return 0, err
	}
	if err := f.fs.sio.readSector(sector, buf); err != nil {
		return 0, err
	}
	n := int32(SectorSize)
	if f.offset+SectorSize > size {
		n = size % SectorSize
	}
	f.offset += n
	return int(n), nil
}

// writeSectorBytes read-modify-writes physical sector at the given byte
// offset within it, copying min(len(buf), SectorSize-offset) bytes from buf.
// If offset is 0 the sector is fresh and no prior read is needed.
func (f *File) writeSectorBytes(sector uint32, buf []byte, offset int) (int, error) {
	n := len(buf)
	if n > SectorSize-offset {
		n = SectorSize - offset
	}
	var sbuf [SectorSize]byte
	if offset != 0 {
		if err := f.fs.sio.readSector(sector, sbuf[:]); err != nil {
			return 0, err
		}
	}
	copy(sbuf[offset:], buf[:n])
	if err := f.fs.sio.writeSector(sector, sbuf[:]); err != nil {
		return 0, err
	}
	return n, nil
}

// promote converts a file that has just reached exactly the small/big
// boundary (8*SectorSize bytes) into a big file: it allocates a fresh
// indirect sector, copies the eight direct addresses into its first eight
// entries (the remaining 248 zeroed), and rewrites addr[0..7] to point only
// at that indirect sector.
func (f *File) promote() error {
	sector, err := f.fs.blockBitmap.FindNext()
	if err != nil {
		return newErr(CodeBitmapFull, "%v", err)
	}
	var indirect [SectorSize]byte
	for i := 0; i < AddrSmallLength; i++ {
		binary.LittleEndian.PutUint16(indirect[2*i:2*i+2], f.inode.Addr[i])
	}
	if err := f.fs.sio.writeSector(uint32(sector), indirect[:]); err != nil {
		return err
	}
	f.inode.Addr[0] = uint16(sector)
	for i := 1; i < AddrSmallLength; i++ {
		f.inode.Addr[i] = 0
	}
	f.fs.blockBitmap.Set(sector)
	return nil
}

// appendIndirectEntry records a new data sector at the given offset within
// the indirect sector addressed by inode.Addr[indirectIdx], allocating that
// indirect sector first if indirectIdx has not yet been used.
func (f *File) appendIndirectEntry(indirectIdx int, offset int, dataSector uint16) error {
	if offset == 0 {
		// dataSector came from FindNext and is not marked used yet; mark it
		// first so the indirect sector is a different one.
		f.fs.blockBitmap.Set(uint64(dataSector))
		newIndirect, err := f.fs.blockBitmap.FindNext()
		if err != nil {
			return newErr(CodeBitmapFull, "%v", err)
		}
		f.inode.Addr[indirectIdx] = uint16(newIndirect)
		f.fs.blockBitmap.Set(newIndirect)
		var zero [SectorSize]byte
		if err := f.fs.sio.writeSector(uint32(newIndirect), zero[:]); err != nil {
			return err
		}
	}
	var tab [SectorSize]byte
	if err := f.fs.sio.readSector(uint32(f.inode.Addr[indirectIdx]), tab[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(tab[2*offset:2*offset+2], dataSector)
	return f.fs.sio.writeSector(uint32(f.inode.Addr[indirectIdx]), tab[:])
}

// WriteBytes appends len(buf) bytes at the file's current tail, allocating
// data sectors (and, crossing the 4KiB boundary, promoting to indirect
// addressing) as needed, then persists the grown inode.
func (f *File) WriteBytes(buf []byte) error {
	size := f.inode.Size()
	length := int32(len(buf))
	if size > maxFileSize || size+length > maxFileSize {
		return newErr(CodeFileTooLarge, "size %d + %d exceeds max %d", size, length, maxFileSize)
	}

	sectorNumber := size / SectorSize
	sectorOffset := int(size % SectorSize)
	indirectNumber := int(sectorNumber / AddressesPerSector)
	indirectOffset := int(sectorNumber % AddressesPerSector)

	written := int32(0)
	if sectorOffset != 0 {
		var secNum uint16
		if size <= smallFileMax {
			secNum = f.inode.Addr[sectorNumber]
			sectorNumber++
		} else {
			var tab [SectorSize]byte
			if err := f.fs.sio.readSector(uint32(f.inode.Addr[indirectNumber]), tab[:]); err != nil {
				return err
			}
			secNum = binary.LittleEndian.Uint16(tab[2*indirectOffset : 2*indirectOffset+2])
			indirectOffset++
		}
		n, err := f.writeSectorBytes(uint32(secNum), buf, sectorOffset)
		if err != nil {
			return err
		}
		written += int32(n)
		buf = buf[n:]
	}

	for written < length {
		if size+written == smallFileMax {
			if err := f.promote(); err != nil {
				return err
			}
			indirectNumber = 0
			indirectOffset = AddrSmallLength
		}

		sector, err := f.fs.blockBitmap.FindNext()
		if err != nil {
			return newErr(CodeBitmapFull, "%v", err)
		}

		var n int
		if size+written < smallFileMax {
			f.inode.Addr[sectorNumber] = uint16(sector)
			n, err = f.writeSectorBytes(uint32(sector), buf, 0)
			if err != nil {
				return err
			}
			sectorNumber++
		} else {
			if indirectOffset >= AddressesPerSector {
				indirectNumber++
				indirectOffset = 0
			}
			if indirectOffset == 0 && f.inode.Addr[indirectNumber] == 0 {
				if err := f.appendIndirectEntry(indirectNumber, 0, uint16(sector)); err != nil {
					return err
				}
			} else {
				if err := f.appendIndirectEntry(indirectNumber, indirectOffset, uint16(sector)); err != nil {
					return err
				}
			}
			n, err = f.writeSectorBytes(uint32(sector), buf, 0)
			if err != nil {
				return err
			}
			indirectOffset++
		}

		f.fs.blockBitmap.Set(sector)
		written += int32(n)
		buf = buf[n:]
	}

	if err := f.inode.SetSize(size + length); err != nil {
		return err
	}
	return f.fs.WriteInode(f.Inr, f.inode)
}
