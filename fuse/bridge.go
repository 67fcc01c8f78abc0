// Package fuse adapts a mounted unixv6 filesystem to the host kernel's
// user-space filesystem bridge. It exposes the three hooks the core
// actually needs: attribute lookup, directory listing, and sequential
// reads; there is no write-back path over FUSE, since the on-disk writer is
// reached through the shell's "add" and "mkdir" commands.
package fuse

import (
	"context"
	"os"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/sirupsen/logrus"

	"github.com/unixv6fs/unixv6fs/filesystem/unixv6"
)

// Bridge presents a mounted unixv6.FileSystem as a fuseutil.FileSystem.
// Inode IDs are unixv6 inode numbers directly: fuseops.RootInodeID is 1,
// which already coincides with unixv6.RootInumber, so no translation
// table is needed.
type Bridge struct {
	fuseutil.NotImplementedFileSystem

	fs  *unixv6.FileSystem
	log *logrus.Entry
}

var _ fuseutil.FileSystem = &Bridge{}

// New wraps fs for serving over FUSE.
func New(fs *unixv6.FileSystem) *Bridge {
	return &Bridge{fs: fs, log: logrus.WithField("component", "fuse.bridge")}
}

func attributesFor(in *unixv6.Inode) fuseops.InodeAttributes {
	size := uint64(in.Size())
	blocks := (size + unixv6.SectorSize - 1) / unixv6.SectorSize
	mode := os.FileMode(0o644)
	nlink := uint32(1)
	if in.IsDir() {
		mode = os.ModeDir | 0o755
		nlink = 2
	}
	return fuseops.InodeAttributes{
		Size:   size,
		Nlink:  uint64(nlink),
		Mode:   mode,
		Blocks: blocks,
	}
}

func (b *Bridge) StatFS(ctx context.Context, op *fuseops.StatFSOp) error {
	return nil
}

func (b *Bridge) GetInodeAttributes(ctx context.Context, op *fuseops.GetInodeAttributesOp) error {
	in, err := b.fs.ReadInode(uint16(op.Inode))
	if err != nil {
		b.log.WithError(err).WithField("inode", op.Inode).Warn("GetInodeAttributes failed")
		return fuse.ENOENT
	}
	op.Attributes = attributesFor(in)
	return nil
}

func (b *Bridge) LookUpInode(ctx context.Context, op *fuseops.LookUpInodeOp) error {
	reader, err := b.fs.OpenDir(uint16(op.Parent))
	if err != nil {
		return fuse.ENOENT
	}
	for {
		name, childInr, ok, err := reader.ReadDir()
		if err != nil {
			return fuse.EIO
		}
		if !ok {
			return fuse.ENOENT
		}
		if name == op.Name {
			in, err := b.fs.ReadInode(childInr)
			if err != nil {
				return fuse.EIO
			}
			op.Entry.Child = fuseops.InodeID(childInr)
			op.Entry.Attributes = attributesFor(in)
			return nil
		}
	}
}

func (b *Bridge) OpenDir(ctx context.Context, op *fuseops.OpenDirOp) error {
	if _, err := b.fs.OpenDir(uint16(op.Inode)); err != nil {
		return fuse.ENOENT
	}
	return nil
}

// ReadDir rebuilds the whole listing, including "." and "..", on every call
// and serves the entries after op.Offset. Each entry's Offset is its
// 1-based position, so a later call resumes after the last entry returned;
// this bridge keeps no per-handle cursor across calls.
func (b *Bridge) ReadDir(ctx context.Context, op *fuseops.ReadDirOp) error {
	reader, err := b.fs.OpenDir(uint16(op.Inode))
	if err != nil {
		return fuse.EIO
	}

	entries := []fuseutil.Dirent{
		{Offset: 1, Inode: op.Inode, Name: ".", Type: fuseutil.DT_Directory},
		{Offset: 2, Inode: op.Inode, Name: "..", Type: fuseutil.DT_Directory},
	}
	for {
		name, childInr, ok, err := reader.ReadDir()
		if err != nil {
			return fuse.EIO
		}
		if !ok {
			break
		}
		in, err := b.fs.ReadInode(childInr)
		if err != nil {
			return fuse.EIO
		}
		dtype := fuseutil.DT_File
		if in.IsDir() {
			dtype = fuseutil.DT_Directory
		}
		entries = append(entries, fuseutil.Dirent{
			Offset: fuseops.DirOffset(len(entries) + 1),
			Inode:  fuseops.InodeID(childInr),
			Name:   name,
			Type:   dtype,
		})
	}

	if op.Offset > fuseops.DirOffset(len(entries)) {
		return fuse.EIO
	}
	for _, e := range entries[op.Offset:] {
		n := fuseutil.WriteDirent(op.Dst[op.BytesRead:], e)
		if n == 0 {
			break
		}
		op.BytesRead += n
	}
	return nil
}

func (b *Bridge) OpenFile(ctx context.Context, op *fuseops.OpenFileOp) error {
	if _, err := b.fs.ReadInode(uint16(op.Inode)); err != nil {
		return fuse.ENOENT
	}
	op.KeepPageCache = true
	return nil
}

// ReadFile serves sequential sector reads through Lseek+ReadBlock, the same
// loop the external bridge is required to use per the read hook's contract.
func (b *Bridge) ReadFile(ctx context.Context, op *fuseops.ReadFileOp) error {
	f, err := b.fs.Open(uint16(op.Inode))
	if err != nil {
		return fuse.ENOENT
	}
	size := int64(f.Inode().Size())
	if op.Offset >= size {
		op.BytesRead = 0
		return nil
	}
	if err := f.Lseek(int32(op.Offset)); err != nil {
		return fuse.EIO
	}

	var sector [unixv6.SectorSize]byte
	for op.BytesRead < len(op.Dst) {
		n, err := f.ReadBlock(sector[:])
		if err != nil {
			return fuse.EIO
		}
		if n == 0 {
			break
		}
		copied := copy(op.Dst[op.BytesRead:], sector[:n])
		op.BytesRead += copied
		if copied < n {
			break
		}
	}
	return nil
}
