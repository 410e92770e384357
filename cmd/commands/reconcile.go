package commands

import (
	"fmt"

	"cureconnect/cmd/bootstrap"

	"github.com/spf13/cobra"
)

func newReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recreate missing users lookups for half-finished sign-ups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closer, err := loadConfig()
			if err != nil {
				return err
			}
			defer closer.Close()

			app, err := bootstrap.NewCore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Reconciler.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d missing=%d repaired=%d failed=%d\n",
				report.Scanned, report.Missing, report.Repaired, report.Failed)
			if report.Failed > 0 {
				return fmt.Errorf("%d lookups could not be repaired", report.Failed)
			}
			return nil
		},
	}
}
