// Package filesystem provides a small package-agnostic interface that the
// on-disk filesystem implementation satisfies through its Adapter type;
// the shell and the FUSE bridge use the implementation directly and do not
// go through this interface. Unlike a general-purpose filesystem
// interface, it excludes symlinks, hard links, ownership/permission
// changes, and rename - none of those exist in the filesystem this
// module implements.
package filesystem

import (
	"errors"
	"os"
)

var (
	ErrNotSupported   = errors.New("method not supported by this filesystem")
	ErrNotImplemented = errors.New("method not implemented")
)

// FileSystem is a reference to a single mounted filesystem.
type FileSystem interface {
	// Type returns the type of filesystem.
	Type() Type
	// Mkdir creates a directory at pathname.
	Mkdir(pathname string) error
	// ReadDir reads the contents of a directory.
	ReadDir(pathname string) ([]os.FileInfo, error)
	// OpenFile opens a handle to read or write to a file.
	OpenFile(pathname string, flag int) (File, error)
	// Label returns the label for the filesystem, or "" if none.
	Label() string
}

// Type represents the type of filesystem this is.
type Type int

const (
	// TypeUnixV6 is a sixth-edition Unix filesystem.
	TypeUnixV6 Type = iota
)
