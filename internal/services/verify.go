package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

type credentialChecker interface {
	Check(ctx context.Context, c models.CredentialCheck) error
}

type manifestReader interface {
	Read() (*models.OutputManifest, error)
}

type verifyService struct {
	manifests manifestReader
	checker   credentialChecker
}

func NewVerifyService(manifests manifestReader, checker credentialChecker) *verifyService {
	return &verifyService{manifests: manifests, checker: checker}
}

// Verify exercises every recorded CI key against Firebase.
func (s *verifyService) Verify(ctx context.Context) (*models.VerifyResult, error) {
	m, err := s.manifests.Read()
	if err != nil {
		return nil, err
	}

	envs := ManifestEnvironments(m)
	if len(envs) == 0 {
		return nil, errs.NewNotFoundError("manifest records no environments")
	}

	result := models.NewVerifyResult()
	for _, env := range envs {
		log := logger.FromContext(ctx).With("environment", env)

		project, _ := m.Get(env + "_projectId")
		key, ok := m.Get(env + "_serviceAccountKey")
		if !ok || key.Value == "" {
			result.Failed[env] = fmt.Errorf("no service account key recorded")
			continue
		}

		auth, _ := m.Get(env + "_authEnabled")
		_, firestore := m.Get(env + "_firestoreDatabase")
		check := models.CredentialCheck{
			ProjectID:   project.Value,
			Credentials: []byte(key.Value),
			Auth:        auth.Value == "true",
			Firestore:   firestore,
		}

		if err := s.checker.Check(ctx, check); err != nil {
			log.Error("credentials rejected", "error", err)
			result.Failed[env] = err
			continue
		}
		log.Info("credentials verified", "project", project.Value, "auth", check.Auth, "firestore", check.Firestore)
		result.Verified = append(result.Verified, env)
	}
	sort.Strings(result.Verified)
	return result, nil
}
