package app

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/itassets/identity-sync/internal/daemon"
	"github.com/itassets/identity-sync/internal/reconcile"
)

// passAll runs every configured pass in order.
const passAll = "all"

func init() { //nolint: gochecknoinits
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intended changes without writing anything")
	syncCmd.Flags().BoolVar(&forceWrite, "write", false, "Write changes even when the config sets DryRun")
	syncCmd.MarkFlagsMutuallyExclusive("dry-run", "write")

	rootCmd.AddCommand(syncCmd)
}

var (
	dryRun     bool
	forceWrite bool

	syncCmd = &cobra.Command{
		Use:   "sync {ascender|cloud|onprem|ccmanagers|all}",
		Short: "Run one sync pass now and print its summary",
		ValidArgs: []string{
			reconcile.PassAscender, reconcile.PassCloud, reconcile.PassOnPrem, reconcile.PassCCManagers, passAll,
		},
		Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case dryRun:
				cfg.Sync.DryRun = true
			case forceWrite:
				cfg.Sync.DryRun = false
			}

			ctx := cmd.Context()

			rt, err := daemon.Open(ctx, &cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			var (
				sums   []reconcile.Summary
				runErr error
			)

			if args[0] == passAll {
				sums, runErr = rt.Service.RunAll(ctx)
			} else {
				fn, errPass := daemon.Pass(rt.Service, args[0])
				if errPass != nil {
					return errPass
				}

				var sum reconcile.Summary
				sum, runErr = fn(ctx)
				sums = append(sums, sum)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if sums == nil {
				sums = []reconcile.Summary{}
			}

			return errors.Join(runErr, enc.Encode(sums))
		},
	}
)
