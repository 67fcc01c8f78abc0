package unixv6

// On-disk layout constants for a classic Unix v6 filesystem. All multi-byte
// integers are little-endian; all I/O is sector-aligned.
const (
	// SectorSize is the fixed size in bytes of one disk sector.
	SectorSize = 512

	// BootSector is the sector holding the boot block magic byte.
	BootSector = 0
	// SuperblockSector is the sector holding the packed Superblock.
	SuperblockSector = 1

	// bootMagicOffset is the byte offset within the boot sector of the magic byte.
	bootMagicOffset = 0x1FE
	// bootMagic is the required value of the boot sector magic byte.
	bootMagic = 0xA7

	// InodeSize is the size in bytes of one on-disk inode record.
	InodeSize = 32
	// InodesPerSector is the number of inode records packed into one sector.
	InodesPerSector = SectorSize / InodeSize

	// RootInumber is the inode number of the filesystem root directory.
	RootInumber = 1

	// ModeAlloc marks an inode record as allocated.
	ModeAlloc = 0x8000
	// ModeDir marks an inode as a directory.
	ModeDir = 0x4000
	// ModeIFMT is the mask selecting the directory/regular-file type bits.
	ModeIFMT = 0x6000
	// ModeLarge is the advisory "big file" bit; the core does not consult it
	// for addressing, only the current size (see findSector).
	ModeLarge = 0x1000

	// AddrSmallLength is the number of direct address slots in an inode.
	AddrSmallLength = 8
	// AddressesPerSector is the number of 16-bit sector pointers held by one
	// indirect sector.
	AddressesPerSector = SectorSize / 2

	// smallFileMax is the largest size, in bytes, addressable directly.
	smallFileMax = AddrSmallLength * SectorSize
	// maxFileSize is the largest size, in bytes, addressable through a single
	// level of indirection: seven addr slots used as indirect-sector pointers,
	// each indirect sector holding 256 data-sector pointers.
	maxFileSize = (AddrSmallLength - 1) * AddressesPerSector * SectorSize

	// DirentSize is the size in bytes of one directory entry record.
	DirentSize = 16
	// DirentNameLength is the number of bytes reserved for a directory
	// entry's name, not necessarily null-terminated if it fills the field.
	DirentNameLength = 14
	// DirentriesPerSector is the number of directory entries packed into one
	// sector of a directory's file body.
	DirentriesPerSector = SectorSize / DirentSize

	// maxPathLength is the longest path accepted by Create.
	maxPathLength = 1024
)
