package cli

import (
	"github.com/spf13/cobra"

	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/report"
	"github.com/stepanic/flutter-firebase-starter/internal/services"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

func newDeployCommand(deps *Deps, stdio IO) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "deploy <config-file>",
		Short: "Provision every environment and publish its secrets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			log, ctx := logger.With(ctx, "project", cfg.ProjectBaseName)

			svc, closeFn, err := deps.Deployer(ctx, cfg, newPromptConfirmer(stdio.In, stdio.Out))
			if err != nil {
				return err
			}
			if closeFn != nil {
				defer closeFn()
			}

			res, err := svc.Deploy(ctx, cfg, services.DeployOptions{Yes: yes})
			if res != nil {
				report.NewPrinter(stdio.Out).Deployment(res, cfg.Environments)
			}
			if err != nil {
				return err
			}
			if !res.OK() {
				log.Error("deployment finished with failures", "failed", len(res.Failed), "secretsFailed", len(res.SecretsFailed))
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
