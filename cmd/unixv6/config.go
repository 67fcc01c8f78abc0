package cmd

// Config holds the defaults bound via viper for mkfs and mount, overridable
// by a config file in the style of the gcsfuse command surface this CLI is
// modeled on; mkfs's positional arguments also override its defaults. No
// command-line flag is bound to these settings.
type Config struct {
	Mkfs struct {
		Blocks int `mapstructure:"blocks"`
		Inodes int `mapstructure:"inodes"`
	} `mapstructure:"mkfs"`
	Mount struct {
		ReadOnly bool `mapstructure:"read_only"`
	} `mapstructure:"mount"`
}

var defaultConfig = Config{}

func init() {
	defaultConfig.Mkfs.Blocks = 1440
	defaultConfig.Mkfs.Inodes = 256
	defaultConfig.Mount.ReadOnly = false
}
