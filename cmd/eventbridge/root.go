package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/eventbridge/internal/config"
)

// cli carries state shared by the subcommands.
type cli struct {
	configFile string
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "eventbridge",
		Short: "Run Lua scripts that subscribe to application events",
		Long: `eventbridge boots an application with documents and color
preferences, runs a Lua script that may subscribe to their events with
app.events:on and doc.events:on, replays an optional action file against
the native objects, and shuts down.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initConfig(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default is ./eventbridge.yaml)")
	root.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(newRunCmd(c), newVersionCmd())
	return root
}

// initConfig loads .env files, then builds the viper instance with flag
// overrides bound.
func (c *cli) initConfig(cmd *cobra.Command) error {
	loadEnvFiles()

	c.v = config.NewViper(c.configFile)
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		if err := c.v.BindPFlag(config.PathLogLevel, f); err != nil {
			return err
		}
	}
	if f := cmd.Flags().Lookup("watch"); f != nil && f.Changed {
		if err := c.v.BindPFlag(config.PathPreferencesWatch, f); err != nil {
			return err
		}
	}
	return nil
}

// loadEnvFiles loads .env then .env.local. Variables already set in the
// environment win; missing files are ignored.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(name)
	}
}
