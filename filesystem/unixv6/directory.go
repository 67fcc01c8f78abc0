package unixv6

import (
	"encoding/binary"
	"strings"
)

// direntMarshal packs one 16-byte directory entry: a 2-byte child inode
// number followed by a 14-byte name, truncated without a terminator if it
// exactly fills the field.
func direntMarshal(inr uint16, name string) []byte {
	buf := make([]byte, DirentSize)
	binary.LittleEndian.PutUint16(buf[0:2], inr)
	copy(buf[2:2+DirentNameLength], name)
	return buf
}

func direntUnmarshal(buf []byte) (inr uint16, name string) {
	inr = binary.LittleEndian.Uint16(buf[0:2])
	raw := buf[2 : 2+DirentNameLength]
	if i := indexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return inr, string(raw)
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// DirectoryReader iterates the fixed-width directory records stored as a
// directory inode's file body, one buffered sector (up to 32 entries) at a
// time.
type DirectoryReader struct {
	file   *File
	buf    [DirentriesPerSector][DirentSize]byte
	cursor int
	last   int
}

// OpenDir opens inode inr as a directory, failing with
// CodeInvalidDirectoryInode if it is not one.
func (fs *FileSystem) OpenDir(inr uint16) (*DirectoryReader, error) {
	f, err := fs.Open(inr)
	if err != nil {
		return nil, err
	}
	if !f.inode.IsDir() {
		return nil, newErr(CodeInvalidDirectoryInode, "inode %d is not a directory", inr)
	}
	return &DirectoryReader{file: f}, nil
}

// Nonempty reports whether the directory has any content at all.
func (d *DirectoryReader) Nonempty() bool {
	return d.file.inode.Size() > 0
}

// ReadDir returns the next (name, inode number) pair with ok set, ok false
// at end of directory, or a negative-coded error.
//
// When the cursor sits at the start of a buffer (NeedSector state) it reads
// one more sector of up to 32 entries. It transitions back to NeedSector
// only after draining a fully-populated sector, matching the state machine:
// NeedSector -> InSector -> (NeedSector | Exhausted).
func (d *DirectoryReader) ReadDir() (name string, inr uint16, ok bool, err error) {
	if d.cursor == 0 {
		var raw [SectorSize]byte
		n, rerr := d.file.ReadBlock(raw[:])
		if rerr != nil {
			return "", 0, false, rerr
		}
		d.last = n / DirentSize
		for i := 0; i < d.last; i++ {
			copy(d.buf[i][:], raw[i*DirentSize:(i+1)*DirentSize])
		}
	}

	if d.cursor >= DirentriesPerSector {
		return "", 0, false, newErr(CodeBadParameter, "directory cursor overrun")
	}
	if d.cursor >= d.last {
		return "", 0, false, nil
	}

	inr, name = direntUnmarshal(d.buf[d.cursor][:])
	d.cursor++
	if d.cursor == d.last {
		if d.last == DirentriesPerSector {
			d.cursor = 0
		}
		// else: leave cursor == last; the following call returns ok=false (Exhausted)
	}
	return name, inr, true, nil
}

// dirLookupCore walks a single path component at inr, recursing on the
// remainder. Leading '/' runs are stripped at each level; names compare for
// exact equality against the null-terminated on-disk form.
func (fs *FileSystem) dirLookupCore(inr uint16, path string) (uint16, error) {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return inr, nil
	}

	component := path
	remainder := ""
	if i := strings.IndexByte(path, '/'); i >= 0 {
		component = path[:i]
		remainder = path[i:]
	}

	reader, err := fs.OpenDir(inr)
	if err != nil {
		return 0, err
	}
	for {
		name, childInr, ok, err := reader.ReadDir()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, newErr(CodeInodeOutOfRange, "%q not found", component)
		}
		if name == component {
			return fs.dirLookupCore(childInr, remainder)
		}
	}
}

// DirLookup resolves a '/'-separated path against the tree rooted at inr,
// returning the inode number of the final component.
func (fs *FileSystem) DirLookup(inr uint16, path string) (uint16, error) {
	return fs.dirLookupCore(inr, path)
}

// normalizePath prepares a caller-supplied path for Create: it prepends a
// leading '/' if missing, collapses runs of '/' to one, and rejects a
// trailing '/' or a path longer than maxPathLength.
func normalizePath(path string) (string, error) {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	var b strings.Builder
	lastWasSlash := false
	for _, c := range path {
		if c == '/' {
			if lastWasSlash {
				continue
			}
			lastWasSlash = true
		} else {
			lastWasSlash = false
		}
		b.WriteRune(c)
	}
	normalized := b.String()
	if len(normalized) > 1 && strings.HasSuffix(normalized, "/") {
		return "", newErr(CodeBadParameter, "trailing '/' in %q", path)
	}
	if len(normalized) > maxPathLength {
		return "", newErr(CodeFilenameTooLong, "path %q exceeds %d bytes", normalized, maxPathLength)
	}
	return normalized, nil
}

// Create makes a new directory entry at path, allocating a fresh inode with
// the given mode and appending a 16-byte record to the parent directory.
func (fs *FileSystem) Create(path string, mode uint16) (uint16, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return 0, err
	}

	sep := strings.LastIndexByte(normalized, '/')
	parentPath := normalized[:sep]
	if parentPath == "" {
		parentPath = "/"
	}
	leaf := normalized[sep+1:]

	if leaf == "" {
		return 0, newErr(CodeBadParameter, "empty file name in %q", path)
	}
	if len(leaf) > DirentNameLength {
		return 0, newErr(CodeFilenameTooLong, "name %q exceeds %d bytes", leaf, DirentNameLength)
	}

	if _, err := fs.DirLookup(RootInumber, normalized); err == nil {
		return 0, newErr(CodeFilenameAlreadyExists, "%q already exists", normalized)
	}

	parentInr, err := fs.DirLookup(RootInumber, parentPath)
	if err != nil {
		return 0, newErr(CodeBadParameter, "parent %q: %v", parentPath, err)
	}

	inr, err := fs.AllocInode()
	if err != nil {
		return 0, err
	}
	if _, err := fs.CreateInode(inr, mode); err != nil {
		return 0, err
	}

	parent, err := fs.Open(parentInr)
	if err != nil {
		return 0, err
	}
	if err := parent.WriteBytes(direntMarshal(inr, leaf)); err != nil {
		return 0, err
	}

	return inr, nil
}
