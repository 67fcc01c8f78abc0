package unixv6

import "fmt"

// Code is a stable numeric error identifier exposed at the shell and FUSE
// boundaries, mirroring the negative return codes of the original
// implementation this package reimplements.
type Code int

const (
	_ Code = -iota
	CodeBadParameter
	CodeIO
	CodeInodeOutOfRange
	CodeUnallocatedInode
	CodeFileTooLarge
	CodeOffsetOutOfRange
	CodeBadBootSector
	CodeNoMem
	CodeBitmapFull
	CodeInvalidDirectoryInode
	CodeFilenameAlreadyExists
	CodeFilenameTooLong
	CodeNotEnoughBlocks
)

var codeNames = map[Code]string{
	CodeBadParameter:          "BAD_PARAMETER",
	CodeIO:                    "IO",
	CodeInodeOutOfRange:       "INODE_OUTOF_RANGE",
	CodeUnallocatedInode:      "UNALLOCATED_INODE",
	CodeFileTooLarge:          "FILE_TOO_LARGE",
	CodeOffsetOutOfRange:      "OFFSET_OUT_OF_RANGE",
	CodeBadBootSector:         "BADBOOTSECTOR",
	CodeNoMem:                 "NOMEM",
	CodeBitmapFull:            "BITMAP_FULL",
	CodeInvalidDirectoryInode: "INVALID_DIRECTORY_INODE",
	CodeFilenameAlreadyExists: "FILENAME_ALREADY_EXISTS",
	CodeFilenameTooLong:       "FILENAME_TOO_LONG",
	CodeNotEnoughBlocks:       "NOT_ENOUGH_BLOCS",
}

// String implements fmt.Stringer, returning the code's shell-facing name.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(c))
}

// Error wraps a Code with context, implementing the error interface. Core
// operations that fail always return an *Error so callers at the shell or
// FUSE boundary can recover the stable Code.
type Error struct {
	Code   Code
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// newErr constructs an *Error, optionally formatting a detail message.
func newErr(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the Code carried by err. It returns 0 if err is nil and
// CodeIO if err is not an *Error.
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return CodeIO
}
