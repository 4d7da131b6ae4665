package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/report"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

// errFailed marks a run whose outcome was already reported.
var errFailed = errors.New("run finished with failures")

type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Execute runs the CLI with process arguments and exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], DefaultDeps(), IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	stop()
	os.Exit(code)
}

// Run executes one command and returns the process exit code.
func Run(ctx context.Context, args []string, deps *Deps, stdio IO) int {
	root := newRootCommand(deps, stdio)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errFailed) {
		report.NewPrinter(stdio.Err).Error(errs.Describe(err))
	}
	return 1
}

func newRootCommand(deps *Deps, stdio IO) *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:           "firebase-infra",
		Short:         "Provision Firebase environments and publish their CI secrets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.Stderr = stdio.Err
			log := logger.New(logLevel, logger.HandlerFor(logFormat))
			cmd.SetContext(logger.ToContext(cmd.Context(), log))
			return nil
		},
	}
	root.SetIn(stdio.In)
	root.SetOut(stdio.Out)
	root.SetErr(stdio.Err)

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	root.AddCommand(
		newDeployCommand(deps, stdio),
		newDestroyCommand(deps, stdio),
		newVerifyCommand(deps, stdio),
	)
	return root
}
