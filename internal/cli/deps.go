package cli

import (
	"context"

	"github.com/stepanic/flutter-firebase-starter/internal/auth"
	"github.com/stepanic/flutter-firebase-starter/internal/bootstrap"
	firebaseclient "github.com/stepanic/flutter-firebase-starter/internal/client/firebase"
	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/internal/services"
	"github.com/stepanic/flutter-firebase-starter/internal/signing"
	"github.com/stepanic/flutter-firebase-starter/internal/store"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

// Concurrent GitHub secret writes.
const secretParallelism = 4

type deployer interface {
	Deploy(ctx context.Context, cfg *config.DeploymentConfig, opts services.DeployOptions) (*models.DeploymentReport, error)
}

type destroyer interface {
	Destroy(ctx context.Context, stackName string, opts services.DestroyOptions) (*models.DestroyResult, error)
}

type verifier interface {
	Verify(ctx context.Context) (*models.VerifyResult, error)
}

// Deps builds the services behind each command. Constructors run only after
// the command's input has been validated.
type Deps struct {
	Deployer  func(ctx context.Context, cfg *config.DeploymentConfig, confirmer services.Confirmer) (deployer, func(), error)
	Destroyer func(ctx context.Context, project, backendURL string, confirmer services.Confirmer) (destroyer, error)
	Verifier  func(ctx context.Context, manifestPath string) (verifier, error)
}

func DefaultDeps() *Deps {
	return &Deps{
		Deployer:  newDeployer,
		Destroyer: newDestroyer,
		Verifier:  newVerifier,
	}
}

func newDeployer(ctx context.Context, cfg *config.DeploymentConfig, confirmer services.Confirmer) (deployer, func(), error) {
	bs, err := bootstrap.Run(ctx, cfg, logger.FromContext(ctx))
	if err != nil {
		return nil, nil, err
	}

	// services
	envsvc := services.NewEnvironmentService(bs.Engine)
	orchsvc := services.NewOrchestratorService(envsvc, cfg.Parallelism)
	pubsvc := services.NewPublisherService(bs.GitHub, secretParallelism)

	d := services.DeploymentDeps{
		Session:      auth.NewSession(bs.Engine, bs.GitHub),
		Signer:       signing.NewGenerator(signing.NewKeytool()),
		Orchestrator: orchsvc,
		Publisher:    pubsvc,
		Manifests:    store.NewManifestStore(cfg.ManifestPath),
		Locker:       store.NewLocker("."),
		Confirmer:    confirmer,
	}
	if bs.SecretManager != nil {
		d.Escrow = services.NewEscrowService(bs.SecretManager)
	}
	return services.NewDeploymentService(d), bs.Close, nil
}

func newDestroyer(ctx context.Context, project, backendURL string, confirmer services.Confirmer) (destroyer, error) {
	bs := bootstrap.RunEngine(project, backendURL, logger.FromContext(ctx))
	return services.NewDestroyService(bs.Engine, confirmer), nil
}

func newVerifier(_ context.Context, manifestPath string) (verifier, error) {
	return services.NewVerifyService(store.NewManifestStore(manifestPath), firebaseclient.NewAdapter()), nil
}
