package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/stepanic/flutter-firebase-starter/infra/settings"
	"github.com/stepanic/flutter-firebase-starter/infra/stack"
	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/dto"
	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

type stackEngine interface {
	Up(ctx context.Context, req dto.StackRequest) (dto.StackResult, error)
}

type environmentService struct {
	engine stackEngine
}

func NewEnvironmentService(engine stackEngine) *environmentService {
	return &environmentService{engine: engine}
}

// Provision brings one environment to its declared state. Identity failures
// fail the environment; data failures become warnings on the handle.
func (s *environmentService) Provision(ctx context.Context, env *config.EnvironmentConfig) (*models.EnvironmentHandle, error) {
	log, ctx := logger.ForEnvironment(ctx, env.Name, env.ProjectID)

	log.Info("provisioning identity stack")
	res, err := s.engine.Up(ctx, dto.StackRequest{
		Stack:  env.ProjectID,
		Kind:   dto.IdentityStack,
		Config: settings.Encode(env),
	})
	if err != nil {
		return nil, errs.NewProvisioningError(env.Name, env.ProjectID, err)
	}

	handle, err := decodeIdentity(env, res)
	if err != nil {
		return nil, errs.NewProvisioningError(env.Name, env.ProjectID, err)
	}
	for _, w := range handle.Warnings {
		log.Warn(w)
	}

	if hasDataFeatures(env.Features) {
		s.provisionData(ctx, env, handle)
	}

	log.Info("environment ready", "projectNumber", handle.ProjectNumber, "warnings", len(handle.Warnings))
	return handle, nil
}

func (s *environmentService) provisionData(ctx context.Context, env *config.EnvironmentConfig, handle *models.EnvironmentHandle) {
	log := logger.FromContext(ctx)
	stackName := env.DataStackName()

	log.Info("provisioning data stack", "stack", stackName)
	res, err := s.engine.Up(ctx, dto.StackRequest{Stack: stackName, Kind: dto.DataStack, Config: settings.Encode(env)})
	if err != nil && env.Features.Firestore && !env.AdoptExistingDatabase && errs.IsAlreadyExists(err) {
		log.Warn("resource already exists, adopting existing database", "error", err)
		adopt := *env
		adopt.AdoptExistingDatabase = true
		res, err = s.engine.Up(ctx, dto.StackRequest{Stack: stackName, Kind: dto.DataStack, Config: settings.Encode(&adopt)})
	}
	if err != nil {
		w := fmt.Sprintf("data stack %s failed: %v", stackName, err)
		log.Warn("data stack failed", "stack", stackName, "error", err)
		handle.Warnings = append(handle.Warnings, w)
		return
	}

	handle.Data = decodeData(res)
	mergeChanges(handle.Changes, res.Changes)
}

func decodeIdentity(env *config.EnvironmentConfig, res dto.StackResult) (*models.EnvironmentHandle, error) {
	h := &models.EnvironmentHandle{
		Environment: env.Name,
		ProjectID:   env.ProjectID,
		Protected:   env.Protected,
		AuthEnabled: env.Features.Auth,
		Changes:     make(map[string]int),
	}
	mergeChanges(h.Changes, res.Changes)

	if id, ok := res.String(stack.OutputProjectID); ok && id != "" {
		h.ProjectID = id
	}
	h.ProjectNumber, _ = res.String(stack.OutputProjectNumber)
	h.WebAppID, _ = res.String(stack.OutputWebAppID)
	h.AndroidAppID, _ = res.String(stack.OutputAndroidAppID)
	h.IOSAppID, _ = res.String(stack.OutputIOSAppID)
	h.GoogleServicesJSON, _ = res.String(stack.OutputGoogleServicesJSON)
	h.GoogleServicesPlist, _ = res.String(stack.OutputGoogleServicesPlist)
	h.ServiceAccountEmail, _ = res.String(stack.OutputServiceAccountEmail)
	h.EscrowSecrets = res.StringMap(stack.OutputEscrowSecrets)
	if protected, ok := res.Bool(stack.OutputProtected); ok {
		h.Protected = protected
	}

	if key, ok := res.String(stack.OutputWebAPIKey); ok {
		h.WebAPIKey = models.AvailableAPIKey(key)
	}
	if !h.WebAPIKey.Available {
		h.Warnings = append(h.Warnings, "web API key unavailable")
	}
	if h.GoogleServicesJSON == "" {
		h.Warnings = append(h.Warnings, "google-services.json unavailable")
	}
	if h.GoogleServicesPlist == "" {
		h.Warnings = append(h.Warnings, "GoogleService-Info.plist unavailable")
	}

	encoded, ok := res.String(stack.OutputServiceAccountKey)
	if !ok || encoded == "" {
		return nil, fmt.Errorf("service account key missing from stack outputs")
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode service account key: %w", err)
	}
	h.ServiceAccountKey = string(key)
	return h, nil
}

func decodeData(res dto.StackResult) models.DataOutputs {
	var d models.DataOutputs
	d.FirestoreDatabase, _ = res.String(stack.OutputFirestoreDatabase)
	d.StorageBucket, _ = res.String(stack.OutputStorageBucket)
	d.HostingURL, _ = res.String(stack.OutputHostingURL)
	d.FunctionsRepository, _ = res.String(stack.OutputFunctionsRepository)
	return d
}

func hasDataFeatures(f config.Features) bool {
	return f.Auth || f.Firestore || f.Functions || f.Storage || f.Hosting
}

func mergeChanges(dst, src map[string]int) {
	for op, n := range src {
		dst[op] += n
	}
}
