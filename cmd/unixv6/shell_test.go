package cmd

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newShellFixture(t *testing.T) (*shellState, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	disk := filepath.Join(dir, "disk.img")
	var out bytes.Buffer
	state := &shellState{out: &out}

	if err := dispatch(state, fmt.Sprintf("mkfs %s 32 200", disk)); err != nil {
		t.Fatalf("mkfs: %v", err)
	}
	if err := dispatch(state, "mount "+disk); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return state, &out
}

func TestShellEndToEndScenario(t *testing.T) {
	state, out := newShellFixture(t)

	if err := dispatch(state, "mkdir /a"); err != nil {
		t.Fatalf("mkdir /a: %v", err)
	}
	if err := dispatch(state, "mkdir /a/b"); err != nil {
		t.Fatalf("mkdir /a/b: %v", err)
	}

	src := filepath.Join(t.TempDir(), "local.txt")
	payload := bytes.Repeat([]byte("z"), 1500)
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
	if err := dispatch(state, fmt.Sprintf("add %s /a/b/f", src)); err != nil {
		t.Fatalf("add: %v", err)
	}

	out.Reset()
	if err := dispatch(state, "inode /a/b/f"); err != nil {
		t.Fatalf("inode: %v", err)
	}
	if !strings.HasPrefix(out.String(), "inode: ") {
		t.Errorf("inode output = %q, want an \"inode: \" prefix", out.String())
	}

	out.Reset()
	if err := dispatch(state, "cat /a/b/f"); err != nil {
		t.Fatalf("cat: %v", err)
	}
	if got := strings.TrimSuffix(out.String(), "\n"); got != string(payload) {
		t.Errorf("cat output length = %d, want %d", len(got), len(payload))
	}

	out.Reset()
	if err := dispatch(state, "sha /a/b/f"); err != nil {
		t.Fatalf("sha: %v", err)
	}
	want := fmt.Sprintf("SHA inode %d: %x\n", mustInode(t, state, "/a/b/f"), sha256.Sum256(payload))
	if out.String() != want {
		t.Errorf("sha output = %q, want %q", out.String(), want)
	}
}

func mustInode(t *testing.T, state *shellState, path string) uint16 {
	t.Helper()
	inr, err := state.fs.DirLookup(1, path)
	if err != nil {
		t.Fatalf("DirLookup(%q) = %v", path, err)
	}
	return inr
}

func TestShellCommandsRequireMount(t *testing.T) {
	var out bytes.Buffer
	state := &shellState{out: &out}
	if err := dispatch(state, "mkdir /a"); err == nil {
		t.Error("mkdir before mount: want error, got nil")
	}
}

func TestShellUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	state := &shellState{out: &out}
	if err := dispatch(state, "bogus"); err == nil {
		t.Error("dispatch(bogus): want error, got nil")
	}
}

func TestShellWrongArgCount(t *testing.T) {
	state, _ := newShellFixture(t)
	if err := dispatch(state, "mkdir"); err == nil {
		t.Error("mkdir with no args: want error, got nil")
	}
}

func TestShellShaOnDirectory(t *testing.T) {
	state, out := newShellFixture(t)
	if err := dispatch(state, "mkdir /a"); err != nil {
		t.Fatalf("mkdir /a: %v", err)
	}
	out.Reset()
	if err := dispatch(state, "sha /a"); err != nil {
		t.Fatalf("sha /a: %v", err)
	}
	if !strings.Contains(out.String(), "no SHA for directories") {
		t.Errorf("sha on a directory = %q, want the no-SHA message", out.String())
	}
}
