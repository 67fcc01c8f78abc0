package unixv6

import "testing"

func TestLookupInverse(t *testing.T) {
	fs := mountTemp(t, 200, 32)

	inr, err := fs.Create("/a", ModeDir)
	if err != nil {
		t.Fatalf("Create(/a) = %v", err)
	}
	fileInr, err := fs.Create("/a/f", 0)
	if err != nil {
		t.Fatalf("Create(/a/f) = %v", err)
	}

	gotDir, err := fs.DirLookup(RootInumber, "/a")
	if err != nil || gotDir != inr {
		t.Errorf("DirLookup(/a) = %d, %v, want %d, nil", gotDir, err, inr)
	}
	gotFile, err := fs.DirLookup(RootInumber, "/a/f")
	if err != nil || gotFile != fileInr {
		t.Errorf("DirLookup(/a/f) = %d, %v, want %d, nil", gotFile, err, fileInr)
	}
}

func TestCreateDuplicateFails(t *testing.T) {
	fs := mountTemp(t, 200, 32)
	if _, err := fs.Create("/x", 0); err != nil {
		t.Fatalf("Create(/x) first = %v", err)
	}
	if _, err := fs.Create("/x", 0); CodeOf(err) != CodeFilenameAlreadyExists {
		t.Errorf("Create(/x) second = %v, want CodeFilenameAlreadyExists", err)
	}
}

func TestCreateNameTooLong(t *testing.T) {
	fs := mountTemp(t, 200, 32)
	if _, err := fs.Create("/123456789012345", 0); CodeOf(err) != CodeFilenameTooLong {
		t.Errorf("Create() with a 15-byte leaf = %v, want CodeFilenameTooLong", err)
	}
}

func TestCreateNameExactlyFourteenBytesOK(t *testing.T) {
	fs := mountTemp(t, 200, 32)
	if _, err := fs.Create("/12345678901234", 0); err != nil {
		t.Errorf("Create() with a 14-byte leaf = %v, want nil", err)
	}
}

func TestCreateMissingParentFails(t *testing.T) {
	fs := mountTemp(t, 200, 32)
	if _, err := fs.Create("/no/such/dir/f", 0); CodeOf(err) != CodeBadParameter {
		t.Errorf("Create() under a missing parent = %v, want CodeBadParameter", err)
	}
}

func TestNormalizePathRules(t *testing.T) {
	for _, tt := range []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a", "/a", false},
		{"/a", "/a", false},
		{"//a//b", "/a/b", false},
		{"/a/", "", true},
	} {
		got, err := normalizePath(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("normalizePath(%q): want error, got nil", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("normalizePath(%q) = %q, %v, want %q, nil", tt.in, got, err, tt.want)
		}
	}
}

func TestOpenDirRejectsRegularFile(t *testing.T) {
	fs := mountTemp(t, 200, 32)
	inr, err := fs.Create("/f", 0)
	if err != nil {
		t.Fatalf("Create(/f) = %v", err)
	}
	if _, err := fs.OpenDir(inr); CodeOf(err) != CodeInvalidDirectoryInode {
		t.Errorf("OpenDir() on a regular file = %v, want CodeInvalidDirectoryInode", err)
	}
}

func TestReadDirListsCreatedEntries(t *testing.T) {
	fs := mountTemp(t, 200, 32)
	if _, err := fs.Create("/a", ModeDir); err != nil {
		t.Fatalf("Create(/a) = %v", err)
	}
	if _, err := fs.Create("/a/one", 0); err != nil {
		t.Fatalf("Create(/a/one) = %v", err)
	}
	if _, err := fs.Create("/a/two", 0); err != nil {
		t.Fatalf("Create(/a/two) = %v", err)
	}

	dirInr, err := fs.DirLookup(RootInumber, "/a")
	if err != nil {
		t.Fatalf("DirLookup(/a) = %v", err)
	}
	reader, err := fs.OpenDir(dirInr)
	if err != nil {
		t.Fatalf("OpenDir() = %v", err)
	}

	seen := map[string]bool{}
	for {
		name, _, ok, err := reader.ReadDir()
		if err != nil {
			t.Fatalf("ReadDir() = %v", err)
		}
		if !ok {
			break
		}
		seen[name] = true
	}
	if !seen["one"] || !seen["two"] {
		t.Errorf("ReadDir() entries = %v, want one and two present", seen)
	}
}

func TestDirLookupMissingComponent(t *testing.T) {
	fs := mountTemp(t, 200, 32)
	if _, err := fs.DirLookup(RootInumber, "/missing"); CodeOf(err) != CodeInodeOutOfRange {
		t.Errorf("DirLookup() of a missing name = %v, want CodeInodeOutOfRange", err)
	}
}
