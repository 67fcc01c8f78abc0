package cmd

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/unixv6fs/unixv6fs/filesystem/unixv6"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run an interactive command shell over a filesystem image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(os.Stdin, os.Stdout)
	},
}

type shellState struct {
	fs  *unixv6.FileSystem
	out io.Writer
}

type shellCommand struct {
	name string
	argc int
	help string
	args string
	fn   func(s *shellState, args []string) error
}

var shellCommands []shellCommand

func init() {
	shellCommands = []shellCommand{
		{"help", 0, "display this help", "", cmdHelp},
		{"exit", 0, "exit shell", "", cmdExit},
		{"quit", 0, "exit shell", "", cmdExit},
		{"mkfs", 3, "create a new filesystem", "<diskname> <inodes> <blocks>", cmdMkfs},
		{"mount", 1, "mount the provided filesystem", "<diskname>", cmdMount},
		{"mkdir", 1, "create a new directory", "<dirname>", cmdMkdir},
		{"lsall", 0, "list all directories and files contained in the currently mounted filesystem", "", cmdLsall},
		{"add", 2, "add a new file", "<src-fullpath> <dst>", cmdAdd},
		{"cat", 1, "display the content of a file", "<pathname>", cmdCat},
		{"istat", 1, "display information about the provided inode", "<inode_nr>", cmdIstat},
		{"inode", 1, "display the inode number of a file", "<pathname>", cmdInode},
		{"sha", 1, "display the SHA-256 of a file", "<pathname>", cmdSha},
		{"psb", 0, "print the superblock of the currently mounted filesystem", "", cmdPsb},
	}
}

// needsMount mirrors shell.c's get_func gate: every command between mkdir
// and psb (inclusive) requires a filesystem already mounted.
func needsMount(name string) bool {
	switch name {
	case "mkdir", "lsall", "add", "cat", "istat", "inode", "sha", "psb":
		return true
	}
	return false
}

func runShell(in io.Reader, out io.Writer) error {
	state := &shellState{out: out}
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			if err := dispatch(state, line); err != nil {
				if err == errShellExit {
					return nil
				}
				fmt.Fprintf(out, "ERROR SHELL: %v\n", err)
			}
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

var errShellExit = fmt.Errorf("exit")

func dispatch(state *shellState, line string) error {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	var cmd *shellCommand
	for i := range shellCommands {
		if shellCommands[i].name == name {
			cmd = &shellCommands[i]
			break
		}
	}
	if cmd == nil {
		return fmt.Errorf("invalid command")
	}
	if len(args) != cmd.argc {
		return fmt.Errorf("wrong number of arguments")
	}
	if needsMount(name) && state.fs == nil {
		return fmt.Errorf("mount the FS before the operation")
	}
	return cmd.fn(state, args)
}

func cmdHelp(s *shellState, args []string) error {
	for _, c := range shellCommands {
		fmt.Fprintf(s.out, "- %s %s: %s.\n", c.name, c.args, c.help)
	}
	return nil
}

func cmdExit(s *shellState, args []string) error {
	if s.fs != nil {
		if err := s.fs.Unmount(); err != nil {
			return err
		}
	}
	return errShellExit
}

func cmdMount(s *shellState, args []string) error {
	if s.fs != nil {
		if err := s.fs.Unmount(); err != nil {
			return err
		}
	}
	fs, err := unixv6.MountPath(args[0])
	if err != nil {
		return err
	}
	s.fs = fs
	return nil
}

func cmdMkfs(s *shellState, args []string) error {
	numInodes, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid inode count: %w", err)
	}
	numBlocks, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid block count: %w", err)
	}
	return unixv6.Mkfs(args[0], uint16(numBlocks), uint16(numInodes))
}

func cmdMkdir(s *shellState, args []string) error {
	_, err := s.fs.Create(args[0], unixv6.ModeDir)
	return err
}

func cmdLsall(s *shellState, args []string) error {
	return printTree(s, unixv6.RootInumber, "")
}

// printTree walks the directory tree depth-first, grounded on the reference
// implementation's recursive tree dump.
func printTree(s *shellState, inr uint16, prefix string) error {
	in, err := s.fs.ReadInode(inr)
	if err != nil {
		return err
	}
	name := prefix
	if name == "" {
		name = "/"
	}
	fmt.Fprintf(s.out, "%s (inode %d)\n", name, inr)
	if !in.IsDir() {
		return nil
	}
	reader, err := s.fs.OpenDir(inr)
	if err != nil {
		return err
	}
	for {
		name, childInr, ok, err := reader.ReadDir()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := printTree(s, childInr, prefix+"/"+name); err != nil {
			return err
		}
	}
}

func cmdAdd(s *shellState, args []string) error {
	src, dst := args[0], args[1]
	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	inr, err := s.fs.Create(dst, 0)
	if err != nil {
		return err
	}
	f, err := s.fs.Open(inr)
	if err != nil {
		return err
	}
	return f.WriteBytes(content)
}

func cmdCat(s *shellState, args []string) error {
	inr, err := s.fs.DirLookup(unixv6.RootInumber, args[0])
	if err != nil {
		return err
	}
	f, err := s.fs.Open(inr)
	if err != nil {
		return err
	}
	if f.Inode().IsDir() {
		fmt.Fprintln(s.out, "ERROR SHELL: cat on a directory is not defined")
		return nil
	}
	content, err := readAll(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n", content)
	return nil
}

func cmdIstat(s *shellState, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("invalid inode number")
	}
	in, err := s.fs.ReadInode(uint16(n))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "**********FS INODE START**********\n")
	fmt.Fprintf(s.out, "mode  : 0x%04x\n", in.Mode)
	fmt.Fprintf(s.out, "nlink : %d\n", in.Nlink)
	fmt.Fprintf(s.out, "uid   : %d\n", in.Uid)
	fmt.Fprintf(s.out, "gid   : %d\n", in.Gid)
	fmt.Fprintf(s.out, "size  : %d\n", in.Size())
	fmt.Fprintf(s.out, "addr  : %v\n", in.Addr)
	fmt.Fprintf(s.out, "**********FS INODE END**********\n")
	return nil
}

func cmdInode(s *shellState, args []string) error {
	inr, err := s.fs.DirLookup(unixv6.RootInumber, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "inode: %d\n", inr)
	return nil
}

func cmdSha(s *shellState, args []string) error {
	inr, err := s.fs.DirLookup(unixv6.RootInumber, args[0])
	if err != nil {
		return err
	}
	in, err := s.fs.ReadInode(inr)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "SHA inode %d: ", inr)
	if in.IsDir() {
		fmt.Fprintln(s.out, "no SHA for directories")
		return nil
	}
	f, err := s.fs.Open(inr)
	if err != nil {
		return err
	}
	content, err := readAll(f)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(content)
	fmt.Fprintf(s.out, "%x\n", sum)
	return nil
}

func cmdPsb(s *shellState, args []string) error {
	sb := s.fs.Superblock()
	fmt.Fprintf(s.out, "**********FS SUPERBLOCK START**********\n")
	fmt.Fprintf(s.out, "isize             : %d\n", sb.Isize)
	fmt.Fprintf(s.out, "fsize             : %d\n", sb.Fsize)
	fmt.Fprintf(s.out, "inode_start       : %d\n", sb.InodeStart)
	fmt.Fprintf(s.out, "block_start       : %d\n", sb.BlockStart)
	fmt.Fprintf(s.out, "**********FS SUPERBLOCK END**********\n")
	return nil
}

func readAll(f *unixv6.File) ([]byte, error) {
	var out []byte
	var sector [unixv6.SectorSize]byte
	for {
		n, err := f.ReadBlock(sector[:])
		if err != nil {
			logrus.WithError(err).Warn("readAll: read failed")
			return nil, err
		}
		if n == 0 {
			return out, nil
		}
		out = append(out, sector[:n]...)
	}
}
