package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/internal/signing"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

type sessionVerifier interface {
	Verify(ctx context.Context) error
}

type signingGenerator interface {
	Generate(ctx context.Context, req signing.Request) (*models.SigningMaterial, error)
}

type provisioningOrchestrator interface {
	ProvisionAll(ctx context.Context, envs []*config.EnvironmentConfig) *models.ProvisionResult
}

type secretPublisher interface {
	Publish(ctx context.Context, repo models.Repository, records []models.SecretRecord) *models.PublishResult
}

type signingEscrow interface {
	Escrow(ctx context.Context, h *models.EnvironmentHandle, m *models.SigningMaterial) (int, error)
}

type manifestWriter interface {
	Write(m *models.OutputManifest) error
	Path() string
}

type runLocker interface {
	Lock(baseName string) (func() error, error)
}

// Confirmer asks the operator before anything is created or destroyed.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type DeploymentDeps struct {
	Session      sessionVerifier
	Signer       signingGenerator
	Orchestrator provisioningOrchestrator
	Publisher    secretPublisher
	Escrow       signingEscrow // nil disables escrow
	Manifests    manifestWriter
	Locker       runLocker
	Confirmer    Confirmer
}

type DeployOptions struct {
	Yes bool
}

type deploymentService struct {
	session      sessionVerifier
	signer       signingGenerator
	orchestrator provisioningOrchestrator
	publisher    secretPublisher
	escrow       signingEscrow
	manifests    manifestWriter
	locker       runLocker
	confirmer    Confirmer
}

func NewDeploymentService(d DeploymentDeps) *deploymentService {
	return &deploymentService{
		session:      d.Session,
		signer:       d.Signer,
		orchestrator: d.Orchestrator,
		publisher:    d.Publisher,
		escrow:       d.Escrow,
		manifests:    d.Manifests,
		locker:       d.Locker,
		confirmer:    d.Confirmer,
	}
}

// Deploy runs one full deployment. The returned error covers aborts and
// fatal failures; per-environment and per-secret outcomes are in the report.
func (s *deploymentService) Deploy(ctx context.Context, cfg *config.DeploymentConfig, opts DeployOptions) (*models.DeploymentReport, error) {
	log := logger.FromContext(ctx).With("deployment", cfg.ProjectBaseName)
	ctx = logger.ToContext(ctx, log)

	repo, err := cfg.Repository()
	if err != nil {
		return nil, errs.NewValidationError("githubRepo", err.Error())
	}
	envs := cfg.EnvironmentConfigs()

	if err := s.session.Verify(ctx); err != nil {
		return nil, err
	}

	if !opts.Yes {
		ok, err := s.confirmer.Confirm(ctx, Plan(cfg, envs))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.ErrAborted
		}
	}

	unlock, err := s.locker.Lock(cfg.ProjectBaseName)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Warn("could not release run lock", "error", err)
		}
	}()

	var (
		material *models.SigningMaterial
		signErr  error
		result   *models.ProvisionResult
		g        errgroup.Group
	)
	g.Go(func() error {
		material, signErr = s.signer.Generate(ctx, signing.Request{
			Alias:        cfg.KeyAlias,
			Organization: cfg.Organization,
			CommonName:   cfg.ProjectBaseName,
		})
		return nil
	})
	g.Go(func() error {
		result = s.orchestrator.ProvisionAll(ctx, envs)
		return nil
	})
	_ = g.Wait()

	report := newReport(cfg, result)

	if signErr == nil {
		records := Records(result.Handles, material)
		pub := s.publisher.Publish(ctx, repo, records)
		report.SecretsPublished = len(pub.Published)
		for name, err := range pub.Failed {
			report.SecretsFailed[name] = err
		}
		s.escrowSigning(ctx, result, material, report)
	} else {
		log.Error("signing key generation failed; no secrets published", "error", signErr)
		material = nil
	}

	report.ManifestPath = s.manifests.Path()
	manifest := BuildManifest(result.Handles, material)
	if err := s.manifests.Write(manifest); err != nil {
		return report, fmt.Errorf("write manifest: %w", err)
	}
	log.Info("manifest written", "path", report.ManifestPath, "entries", len(manifest.Keys()), "secrets", manifest.SecretCount())

	if signErr != nil {
		return report, fmt.Errorf("generate signing key: %w", signErr)
	}
	return report, nil
}

func (s *deploymentService) escrowSigning(ctx context.Context, result *models.ProvisionResult, m *models.SigningMaterial, report *models.DeploymentReport) {
	if s.escrow == nil {
		return
	}
	for env, h := range result.Handles {
		if len(h.EscrowSecrets) == 0 {
			continue
		}
		n, err := s.escrow.Escrow(ctx, h, m)
		report.EscrowWritten += n
		if err != nil {
			logger.FromContext(ctx).Warn("signing escrow failed", "environment", env, "error", err)
			report.Warn(env, fmt.Sprintf("signing escrow failed: %v", err))
		}
	}
}

func newReport(cfg *config.DeploymentConfig, result *models.ProvisionResult) *models.DeploymentReport {
	report := models.NewDeploymentReport()
	for _, env := range cfg.Environments {
		if err, failed := result.Failed[env]; failed {
			report.Failed[env] = err
			continue
		}
		h, ok := result.Handles[env]
		if !ok {
			continue
		}
		report.Handles[env] = h
		mergeChanges(report.Changes, h.Changes)
		if len(h.Warnings) > 0 {
			report.Warned[env] = append([]string{}, h.Warnings...)
			continue
		}
		report.Succeeded = append(report.Succeeded, env)
	}
	return report
}

// Plan renders what a deployment is about to create.
func Plan(cfg *config.DeploymentConfig, envs []*config.EnvironmentConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deploy %s to %d environment(s):\n", cfg.ProjectBaseName, len(envs))
	for _, env := range envs {
		mark := ""
		if env.Protected {
			mark = " (protected)"
		}
		fmt.Fprintf(&b, "  %-10s project %s%s\n", env.Name, env.ProjectID, mark)
	}

	var features []string
	f := cfg.Features()
	for name, on := range map[string]bool{"auth": f.Auth, "firestore": f.Firestore, "functions": f.Functions, "storage": f.Storage, "hosting": f.Hosting} {
		if on {
			features = append(features, name)
		}
	}
	sort.Strings(features)
	fmt.Fprintf(&b, "Features: %s\n", strings.Join(features, ", "))
	fmt.Fprintf(&b, "GitHub secrets: %d in %s\n", len(envs)*4+4, cfg.GitHubRepo)
	return b.String()
}
