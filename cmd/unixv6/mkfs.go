package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/unixv6fs/unixv6fs/filesystem/unixv6"
)

var mkfsCmd = &cobra.Command{
	Use:   "mkfs <disk> [inodes] [blocks]",
	Short: "Create a new filesystem image",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		numInodes := appConfig.Mkfs.Inodes
		numBlocks := appConfig.Mkfs.Blocks
		var err error
		if len(args) > 1 {
			if numInodes, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid inode count %q: %w", args[1], err)
			}
		}
		if len(args) > 2 {
			if numBlocks, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("invalid block count %q: %w", args[2], err)
			}
		}
		if err := unixv6.Mkfs(args[0], uint16(numBlocks), uint16(numInodes)); err != nil {
			return err
		}
		fmt.Printf("created %s: %d blocks, %d inodes\n", args[0], numBlocks, numInodes)
		return nil
	},
}
