package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	jacobsafuse "github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/spf13/cobra"

	"github.com/unixv6fs/unixv6fs/filesystem/unixv6"
	v6fuse "github.com/unixv6fs/unixv6fs/fuse"
)

var mountCmd = &cobra.Command{
	Use:   "mount <disk> <mountpoint>",
	Short: "Mount a filesystem image through the host's FUSE bridge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, mountpoint := args[0], args[1]

		v6, err := unixv6.MountPath(disk)
		if err != nil {
			return fmt.Errorf("mount %s: %w", disk, err)
		}
		defer v6.Unmount()

		if err := os.MkdirAll(mountpoint, 0o755); err != nil {
			return fmt.Errorf("create mount point %s: %w", mountpoint, err)
		}

		server := fuseutil.NewFileSystemServer(v6fuse.New(v6))
		cfg := &jacobsafuse.MountConfig{
			FSName:      "unixv6",
			ReadOnly:    appConfig.Mount.ReadOnly,
			ErrorLogger: log.New(os.Stderr, "unixv6fuse: ", 0),
		}

		mfs, err := jacobsafuse.Mount(mountpoint, server, cfg)
		if err != nil {
			return fmt.Errorf("fuse mount: %w", err)
		}
		return mfs.Join(context.Background())
	},
}
