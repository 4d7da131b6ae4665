package services

import (
	"context"
	"fmt"

	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/dto"
	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

type stackDestroyer interface {
	Exists(ctx context.Context, stackName string, kind dto.StackKind) (bool, error)
	Protected(ctx context.Context, stackName string, kind dto.StackKind) (bool, error)
	Unprotect(ctx context.Context, stackName string, kind dto.StackKind) error
	Destroy(ctx context.Context, stackName string, kind dto.StackKind) (dto.StackResult, error)
}

type DestroyOptions struct {
	Yes   bool
	Force bool
}

type destroyService struct {
	engine    stackDestroyer
	confirmer Confirmer
}

func NewDestroyService(engine stackDestroyer, confirmer Confirmer) *destroyService {
	return &destroyService{engine: engine, confirmer: confirmer}
}

// Destroy tears down one environment by its stack identifier (the project
// id). Existing state is required; nothing is ever created.
func (s *destroyService) Destroy(ctx context.Context, stackName string, opts DestroyOptions) (*models.DestroyResult, error) {
	log := logger.FromContext(ctx).With("stack", stackName)
	dataStack := config.DataStackName(stackName)

	exists, err := s.engine.Exists(ctx, stackName, dto.IdentityStack)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewNotFoundError(fmt.Sprintf("stack %s has no state", stackName))
	}

	protected, err := s.engine.Protected(ctx, stackName, dto.IdentityStack)
	if err != nil {
		return nil, err
	}
	if protected && !opts.Force {
		return nil, errs.NewProtectedError(stackName)
	}

	if !opts.Yes {
		prompt := fmt.Sprintf("Destroy every resource of %s, including project %s?", stackName, stackName)
		if protected {
			prompt = fmt.Sprintf("%s is PROTECTED. Unprotect and destroy it, including project %s?", stackName, stackName)
		}
		ok, err := s.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.ErrAborted
		}
	}

	result := &models.DestroyResult{Changes: make(map[string]int)}

	dataExists, err := s.engine.Exists(ctx, dataStack, dto.DataStack)
	if err != nil {
		return nil, err
	}
	if dataExists {
		if err := s.destroyStack(ctx, dataStack, dto.DataStack, opts.Force, result); err != nil {
			return result, err
		}
	}

	if err := s.destroyStack(ctx, stackName, dto.IdentityStack, opts.Force, result); err != nil {
		return result, err
	}

	log.Info("environment destroyed", "stacks", len(result.Stacks))
	return result, nil
}

func (s *destroyService) destroyStack(ctx context.Context, stackName string, kind dto.StackKind, force bool, result *models.DestroyResult) error {
	log := logger.FromContext(ctx)

	if force {
		log.Warn("removing protection", "stack", stackName)
		if err := s.engine.Unprotect(ctx, stackName, kind); err != nil {
			return fmt.Errorf("unprotect %s: %w", stackName, err)
		}
	}

	log.Info("destroying stack", "stack", stackName, "kind", kind.String())
	res, err := s.engine.Destroy(ctx, stackName, kind)
	if err != nil {
		return fmt.Errorf("destroy %s: %w", stackName, err)
	}
	result.Stacks = append(result.Stacks, stackName)
	mergeChanges(result.Changes, res.Changes)
	return nil
}
