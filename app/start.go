package app

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/itassets/identity-sync/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode (no graceful shutdown delay)")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Run the scheduled sync passes and the status endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if devMode {
				cfg.DevMode = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := daemon.New(ctx, &cfg)
			if err != nil {
				return err
			}

			return d.Run(ctx)
		},
	}
)
