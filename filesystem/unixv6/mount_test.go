package unixv6

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTripMount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := Mkfs(path, 100, 32); err != nil {
		t.Fatalf("Mkfs() = %v", err)
	}

	fs, err := MountPath(path)
	if err != nil {
		t.Fatalf("MountPath() = %v", err)
	}
	defer fs.Unmount()

	sb := fs.Superblock()
	wantIsize := uint16(32 / InodesPerSector)
	if 32%InodesPerSector != 0 {
		wantIsize++
	}
	if sb.Isize != wantIsize {
		t.Errorf("Isize = %d, want %d", sb.Isize, wantIsize)
	}
	if sb.Fsize != 100 {
		t.Errorf("Fsize = %d, want 100", sb.Fsize)
	}
}

func TestMkfsNotEnoughBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	err := Mkfs(path, 4, 32)
	if CodeOf(err) != CodeNotEnoughBlocks {
		t.Errorf("Mkfs() with insufficient blocks = %v, want CodeNotEnoughBlocks", err)
	}
}

func TestMountRootIsAllocatedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := Mkfs(path, 100, 32); err != nil {
		t.Fatalf("Mkfs() = %v", err)
	}
	fs, err := MountPath(path)
	if err != nil {
		t.Fatalf("MountPath() = %v", err)
	}
	defer fs.Unmount()

	root, err := fs.ReadInode(RootInumber)
	if err != nil {
		t.Fatalf("ReadInode(RootInumber) = %v", err)
	}
	if !root.IsDir() {
		t.Error("root inode is not a directory")
	}
	if root.Size() != 0 {
		t.Errorf("root inode size = %d, want 0", root.Size())
	}
}

func TestMountRejectsBadBootSector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := Mkfs(path, 100, 32); err != nil {
		t.Fatalf("Mkfs() = %v", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		t.Fatalf("open for corruption: %v", err)
	}
	var zero [SectorSize]byte
	if _, err := f.WriteAt(zero[:], 0); err != nil {
		t.Fatalf("WriteAt() = %v", err)
	}
	f.Close()

	if _, err := MountPath(path); CodeOf(err) != CodeBadBootSector {
		t.Errorf("MountPath() with corrupted boot sector = %v, want CodeBadBootSector", err)
	}
}
