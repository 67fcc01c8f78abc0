package unixv6

import "testing"

func TestSuperblockMarshalRoundTrip(t *testing.T) {
	sb := &Superblock{Isize: 3, Fsize: 200, InodeStart: 2, BlockStart: 5}
	got, err := unmarshalSuperblock(sb.marshal())
	if err != nil {
		t.Fatalf("unmarshalSuperblock() = %v", err)
	}
	if *got != *sb {
		t.Errorf("round trip = %+v, want %+v", *got, *sb)
	}
}

func TestSuperblockValidate(t *testing.T) {
	for _, tt := range []struct {
		name    string
		sb      Superblock
		wantErr bool
	}{
		{"healthy", Superblock{Isize: 2, Fsize: 100, BlockStart: 4}, false},
		{"fsize too small for isize", Superblock{Isize: 100, Fsize: 50, BlockStart: 102}, true},
		{"empty data region", Superblock{Isize: 2, Fsize: 4, BlockStart: 4}, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sb.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBootSectorMagic(t *testing.T) {
	buf := marshalBootSector()
	if err := checkBootSector(buf); err != nil {
		t.Errorf("checkBootSector() on freshly marshaled sector = %v", err)
	}
	buf[bootMagicOffset] = 0
	if err := checkBootSector(buf); err == nil {
		t.Error("checkBootSector() with corrupted magic: want error, got nil")
	}
}
