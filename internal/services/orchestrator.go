package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

type environmentProvisioner interface {
	Provision(ctx context.Context, env *config.EnvironmentConfig) (*models.EnvironmentHandle, error)
}

type orchestratorService struct {
	provisioner environmentProvisioner
	parallelism int
}

func NewOrchestratorService(p environmentProvisioner, parallelism int) *orchestratorService {
	if parallelism < 1 {
		parallelism = 1
	}
	return &orchestratorService{provisioner: p, parallelism: parallelism}
}

// ProvisionAll provisions every environment concurrently. A failing
// environment never cancels its siblings; the result partitions outcomes.
func (s *orchestratorService) ProvisionAll(ctx context.Context, envs []*config.EnvironmentConfig) *models.ProvisionResult {
	log := logger.FromContext(ctx)
	result := models.NewProvisionResult()
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.parallelism)

	for _, env := range envs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				result.Failed[env.Name] = err
				mu.Unlock()
				return nil
			}

			handle, err := s.provisioner.Provision(ctx, env)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("environment failed", "environment", env.Name, "error", err)
				result.Failed[env.Name] = err
				return nil
			}
			result.Handles[env.Name] = handle
			if len(handle.Warnings) > 0 {
				result.Warnings[env.Name] = handle.Warnings
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Info("environments provisioned", "succeeded", len(result.Handles), "failed", len(result.Failed))
	return result
}
