package bootstrap

import (
	"context"
	"log/slog"

	"github.com/stepanic/flutter-firebase-starter/internal/auth"
	automationclient "github.com/stepanic/flutter-firebase-starter/internal/client/automation"
	githubclient "github.com/stepanic/flutter-firebase-starter/internal/client/github"
	secretmanagerclient "github.com/stepanic/flutter-firebase-starter/internal/client/secretmanager"
	"github.com/stepanic/flutter-firebase-starter/internal/config"
)

type Bootstrap struct {
	Log           *slog.Logger
	Engine        *automationclient.Adapter
	GitHub        *githubclient.Adapter
	SecretManager *secretmanagerclient.Adapter // nil unless escrow is enabled
}

// Run builds the external clients a deployment needs. Nothing is contacted
// until a client is used.
func Run(ctx context.Context, cfg *config.DeploymentConfig, log *slog.Logger) (*Bootstrap, error) {
	var err error
	bs := &Bootstrap{Log: log}

	bs.Engine = automationclient.NewAdapter(cfg.PulumiProject, cfg.PulumiBackendURL)

	token, err := auth.GitHubToken(ctx, cfg.GitHubToken)
	if err != nil {
		return bs, err
	}
	bs.GitHub = githubclient.NewAdapter(token)

	if cfg.EscrowSigningKey {
		bs.SecretManager, err = secretmanagerclient.NewAdapter(ctx)
		if err != nil {
			return bs, err
		}
	}
	return bs, nil
}

// RunEngine builds only the stack engine, for commands that never touch GitHub.
func RunEngine(project, backendURL string, log *slog.Logger) *Bootstrap {
	return &Bootstrap{
		Log:    log,
		Engine: automationclient.NewAdapter(project, backendURL),
	}
}

func (b *Bootstrap) Close() {
	if b.SecretManager != nil {
		if err := b.SecretManager.Close(); err != nil {
			b.Log.Warn("closing secret manager client", "error", err)
		}
	}
}
