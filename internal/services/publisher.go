package services

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

// Shared secret names.
const (
	SecretAndroidKeystore  = "ANDROID_KEYSTORE"
	SecretKeystorePassword = "KEYSTORE_PASSWORD"
	SecretKeyPassword      = "KEY_PASSWORD"
	SecretKeyAlias         = "KEY_ALIAS"
)

func ProjectIDSecret(env string) string      { return "FIREBASE_PROJECT_ID_" + config.SecretSuffix(env) }
func ServiceAccountSecret(env string) string { return "FIREBASE_SERVICE_ACCOUNT_" + config.SecretSuffix(env) }
func GoogleServicesJSONSecret(env string) string {
	return "GOOGLE_SERVICES_JSON_" + config.SecretSuffix(env)
}
func GoogleServicesPlistSecret(env string) string {
	return "GOOGLE_SERVICES_PLIST_" + config.SecretSuffix(env)
}

type secretWriter interface {
	UpsertSecret(ctx context.Context, repo models.Repository, name, value string) error
}

type publisherService struct {
	writer      secretWriter
	parallelism int
}

func NewPublisherService(writer secretWriter, parallelism int) *publisherService {
	if parallelism < 1 {
		parallelism = 1
	}
	return &publisherService{writer: writer, parallelism: parallelism}
}

// Records builds the secret set of a run in a stable order. signing may be
// nil, in which case only environment secrets are produced.
func Records(handles map[string]*models.EnvironmentHandle, signing *models.SigningMaterial) []models.SecretRecord {
	envs := make([]string, 0, len(handles))
	for env := range handles {
		envs = append(envs, env)
	}
	sort.Strings(envs)

	records := make([]models.SecretRecord, 0, len(envs)*4+4)
	for _, env := range envs {
		h := handles[env]
		records = append(records,
			models.SecretRecord{Name: ProjectIDSecret(env), Value: h.ProjectID},
			models.SecretRecord{Name: ServiceAccountSecret(env), Value: h.ServiceAccountKey, Secret: true},
			models.SecretRecord{Name: GoogleServicesJSONSecret(env), Value: h.GoogleServicesJSON, Secret: true},
			models.SecretRecord{Name: GoogleServicesPlistSecret(env), Value: h.GoogleServicesPlist, Secret: true},
		)
	}

	if signing != nil {
		records = append(records,
			models.SecretRecord{Name: SecretAndroidKeystore, Value: signing.Keystore, Secret: true},
			models.SecretRecord{Name: SecretKeystorePassword, Value: signing.StorePassword, Secret: true},
			models.SecretRecord{Name: SecretKeyPassword, Value: signing.KeyPassword, Secret: true},
			models.SecretRecord{Name: SecretKeyAlias, Value: signing.KeyAlias},
		)
	}
	return records
}

// Publish upserts every record. Individual failures are collected, not fatal.
func (s *publisherService) Publish(ctx context.Context, repo models.Repository, records []models.SecretRecord) *models.PublishResult {
	log := logger.FromContext(ctx).With("repository", repo.String())
	result := models.NewPublishResult()
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.parallelism)

	for _, rec := range records {
		g.Go(func() error {
			if rec.Value == "" {
				mu.Lock()
				result.Failed[rec.Name] = errEmptySecret
				mu.Unlock()
				return nil
			}

			err := s.writer.UpsertSecret(ctx, repo, rec.Name, rec.Value)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("secret not published", "secret", rec.Name, "error", err)
				result.Failed[rec.Name] = err
				return nil
			}
			log.Debug("secret published", "secret", rec.Name)
			result.Published = append(result.Published, rec.Name)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.Published)
	log.Info("secrets published", "published", len(result.Published), "failed", len(result.Failed))
	return result
}
