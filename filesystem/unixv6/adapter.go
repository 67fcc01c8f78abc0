package unixv6

import (
	"io"
	"os"
	"time"

	"github.com/unixv6fs/unixv6fs/filesystem"
)

// Adapter presents a mounted FileSystem through the package-agnostic
// filesystem.FileSystem interface. The shell and the FUSE bridge in this
// module do not go through it; they use *FileSystem directly.
type Adapter struct {
	fs *FileSystem
}

// NewAdapter wraps fs for use behind the filesystem.FileSystem interface.
func NewAdapter(fs *FileSystem) *Adapter { return &Adapter{fs: fs} }

func (a *Adapter) Type() filesystem.Type { return filesystem.TypeUnixV6 }

func (a *Adapter) Label() string { return "" }

// Mkdir creates a directory at pathname with the conventional 0755-ish mode
// bits collapsed to this filesystem's single directory mode bit.
func (a *Adapter) Mkdir(pathname string) error {
	_, err := a.fs.Create(pathname, ModeDir)
	return err
}

// ReadDir lists the entries of the directory at pathname.
func (a *Adapter) ReadDir(pathname string) ([]os.FileInfo, error) {
	inr, err := a.fs.DirLookup(RootInumber, pathname)
	if err != nil {
		return nil, err
	}
	reader, err := a.fs.OpenDir(inr)
	if err != nil {
		return nil, err
	}

	var entries []os.FileInfo
	for {
		name, childInr, ok, err := reader.ReadDir()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		in, err := a.fs.ReadInode(childInr)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &fileInfo{name: name, inode: in})
	}
	return entries, nil
}

// OpenFile opens pathname, creating it with CreateInode-backed semantics
// when the O_CREATE flag is set and it does not already exist.
func (a *Adapter) OpenFile(pathname string, flag int) (filesystem.File, error) {
	inr, err := a.fs.DirLookup(RootInumber, pathname)
	if err != nil {
		if flag&os.O_CREATE == 0 {
			return nil, err
		}
		inr, err = a.fs.Create(pathname, 0)
		if err != nil {
			return nil, err
		}
	}
	f, err := a.fs.Open(inr)
	if err != nil {
		return nil, err
	}
	return &fileHandle{f: f}, nil
}

// fileHandle adapts unixv6.File's block-cursor reads and append-only writes
// to io.Reader/io.Writer/io.Closer.
type fileHandle struct {
	f *File
}

func (h *fileHandle) Read(p []byte) (int, error) {
	var sector [SectorSize]byte
	n, err := h.f.ReadBlock(sector[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return copy(p, sector[:n]), nil
}

func (h *fileHandle) Write(p []byte) (int, error) {
	if err := h.f.WriteBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (h *fileHandle) Close() error { return nil }

// fileInfo adapts an Inode to os.FileInfo for directory listings.
type fileInfo struct {
	name  string
	inode *Inode
}

func (fi *fileInfo) Name() string { return fi.name }
func (fi *fileInfo) Size() int64  { return int64(fi.inode.Size()) }
func (fi *fileInfo) Mode() os.FileMode {
	if fi.inode.IsDir() {
		return os.ModeDir | 0o755
	}
	return 0o644
}
func (fi *fileInfo) ModTime() time.Time {
	sec := int64(fi.inode.Mtime[0])<<16 | int64(fi.inode.Mtime[1])
	return time.Unix(sec, 0).UTC()
}
func (fi *fileInfo) IsDir() bool      { return fi.inode.IsDir() }
func (fi *fileInfo) Sys() interface{} { return fi.inode }
