package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/report"
	"github.com/stepanic/flutter-firebase-starter/internal/services"
)

func newDestroyCommand(deps *Deps, stdio IO) *cobra.Command {
	var (
		yes        bool
		force      bool
		project    string
		backendURL string
	)

	cmd := &cobra.Command{
		Use:   "destroy <stack>",
		Short: "Tear down one environment by its project id (e.g. acme-dev)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := deps.Destroyer(ctx, project, backendURL, newPromptConfirmer(stdio.In, stdio.Out))
			if err != nil {
				return err
			}

			res, err := svc.Destroy(ctx, args[0], services.DestroyOptions{Yes: yes, Force: force})
			if err != nil {
				return err
			}
			report.NewPrinter(stdio.Out).Destroy(args[0], res)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&force, "force", false, "unprotect a protected stack before destroying it")
	cmd.Flags().StringVar(&project, "pulumi-project", config.DefaultPulumiProject, "Pulumi project that owns the stacks")
	cmd.Flags().StringVar(&backendURL, "backend-url", os.Getenv("PULUMI_BACKEND_URL"), "Pulumi backend URL")
	return cmd
}
