package unixv6

import (
	"github.com/unixv6fs/unixv6fs/backend"
)

// sectorIO transfers fixed-size sectors against a backend.Storage. It never
// buffers: every Read/Write is one ReadAt/WriteAt call of exactly SectorSize
// bytes at sector*SectorSize, the same contract sector_read/sector_write have
// in the reference implementation, expressed with ReaderAt/WriterAt instead
// of a shared seek cursor so concurrent reads never race on file position.
type sectorIO struct {
	storage  backend.Storage
	writable backend.WritableFile
}

func newSectorIO(storage backend.Storage) (*sectorIO, error) {
	w, err := storage.Writable()
	if err != nil {
		return nil, newErr(CodeIO, "backing storage not writable: %v", err)
	}
	return &sectorIO{storage: storage, writable: w}, nil
}

// readSector fills out, which must be exactly SectorSize bytes, with the
// contents of the given sector.
func (s *sectorIO) readSector(sector uint32, out []byte) error {
	if len(out) != SectorSize {
		return newErr(CodeBadParameter, "sector buffer must be %d bytes, got %d", SectorSize, len(out))
	}
	n, err := s.storage.ReadAt(out, int64(sector)*SectorSize)
	if err != nil || n != SectorSize {
		return newErr(CodeIO, "read sector %d: %v", sector, err)
	}
	return nil
}

// writeSector writes exactly SectorSize bytes of in to the given sector.
func (s *sectorIO) writeSector(sector uint32, in []byte) error {
	if len(in) != SectorSize {
		return newErr(CodeBadParameter, "sector buffer must be %d bytes, got %d", SectorSize, len(in))
	}
	n, err := s.writable.WriteAt(in, int64(sector)*SectorSize)
	if err != nil || n != SectorSize {
		return newErr(CodeIO, "write sector %d: %v", sector, err)
	}
	return nil
}

// close releases the backing storage. Failure to close is reported as CodeIO.
func (s *sectorIO) close() error {
	if err := s.storage.Close(); err != nil {
		return newErr(CodeIO, "close backing storage: %v", err)
	}
	return nil
}
