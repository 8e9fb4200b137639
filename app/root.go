// Package app implements the command line interface.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/itassets/identity-sync/internal/config"
	"github.com/itassets/identity-sync/internal/logger"
)

// EnvConfigPath names the env variable holding the config directory.
const EnvConfigPath = "IDENTITY_SYNC_CONFIG"

var (
	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "identity-sync",
		Short: "identity-sync keeps directory accounts in line with the HR system",
		Long: `identity-sync reads the HR job feed, the on-premise directory and the cloud
identity provider, updates the local identity store and pushes HR-authoritative
attributes back to both directories. It also provisions cloud accounts for new starters.`,
		Args:              cobra.OnlyValidArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String("config", "./etc/", "directory holding main.toml")

	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		panic(err)
	}

	if err := viper.BindEnv("config", EnvConfigPath); err != nil {
		panic(err)
	}
}

// loadConfig reads the configuration and initialises logging for every command.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(viper.GetString("config")); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
