// Package cmd wires the unixv6 core, its shell, and its FUSE bridge behind
// a cobra command tree, mirroring the flag/config layering of a production
// FUSE adapter.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	unmarshalErr error
	appConfig    = defaultConfig
	debug        bool
)

var rootCmd = &cobra.Command{
	Use:   "unixv6 [flags] command",
	Short: "Inspect and mount classic Unix v6 filesystem images",
	Long: `unixv6 reads and writes a sixth-edition Unix filesystem layered
over a single backing file: it can create a fresh image (mkfs), browse and
modify one interactively (shell), or expose one through the host's FUSE
bridge (mount).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
		if unmarshalErr != nil {
			return unmarshalErr
		}
		return nil
	},
}

// Execute runs the command tree, exiting the process with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd.AddCommand(mkfsCmd)
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(shellCmd)
}

func initConfig() {
	viper.SetDefault("mkfs.blocks", defaultConfig.Mkfs.Blocks)
	viper.SetDefault("mkfs.inodes", defaultConfig.Mkfs.Inodes)
	viper.SetDefault("mount.read_only", defaultConfig.Mount.ReadOnly)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			unmarshalErr = fmt.Errorf("reading config file: %w", err)
			return
		}
	}
	unmarshalErr = viper.Unmarshal(&appConfig)
}
