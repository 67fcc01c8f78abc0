package unixv6

import (
	"path/filepath"
	"testing"
)

// tempDiskImage creates and returns the path to a fresh filesystem image in
// a test-scoped temporary directory.
func tempDiskImage(t *testing.T, numBlocks, numInodes uint16) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := Mkfs(path, numBlocks, numInodes); err != nil {
		t.Fatalf("Mkfs() = %v", err)
	}
	return path
}

// mountTemp creates a fresh image and mounts it, registering cleanup.
func mountTemp(t *testing.T, numBlocks, numInodes uint16) *FileSystem {
	t.Helper()
	path := tempDiskImage(t, numBlocks, numInodes)
	fs, err := MountPath(path)
	if err != nil {
		t.Fatalf("MountPath() = %v", err)
	}
	t.Cleanup(func() { fs.Unmount() })
	return fs
}
