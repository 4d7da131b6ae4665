package cli

import (
	"github.com/spf13/cobra"

	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/report"
)

func newVerifyCommand(deps *Deps, stdio IO) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [manifest]",
		Short: "Check every environment's CI key against Firebase Auth and Firestore",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultManifestPath
			if len(args) == 1 {
				path = args[0]
			}

			svc, err := deps.Verifier(cmd.Context(), path)
			if err != nil {
				return err
			}
			res, err := svc.Verify(cmd.Context())
			if err != nil {
				return err
			}
			report.NewPrinter(stdio.Out).Verify(res)
			if len(res.Failed) > 0 {
				return errFailed
			}
			return nil
		},
	}
}
