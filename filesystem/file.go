package filesystem

import "io"

// File is a reference to a single open file. Implementations are free to
// back Read with whatever block-addressing scheme they use internally; the
// offset is implementation-managed, not caller-seekable, since the
// filesystem this interface serves only supports sequential append writes.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}
