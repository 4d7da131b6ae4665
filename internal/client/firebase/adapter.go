package firebaseclient

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"

	"github.com/stepanic/flutter-firebase-starter/internal/bootstrap"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Adapter checks a CI service-account key against the Firebase services the
// deploy workflows use.
type Adapter struct{}

func NewAdapter() *Adapter {
	return &Adapter{}
}

// Check exchanges the key for a token, then performs one Auth read and one
// Firestore read for the services the environment enabled.
func (a *Adapter) Check(ctx context.Context, c models.CredentialCheck) error {
	creds, err := google.CredentialsFromJSON(ctx, c.Credentials, cloudPlatformScope)
	if err != nil {
		return fmt.Errorf("parse service account key: %w", err)
	}
	if _, err := creds.TokenSource.Token(); err != nil {
		return fmt.Errorf("exchange service account key: %w", err)
	}

	if c.Auth {
		authClient, err := bootstrap.InitFirebase(ctx, c.ProjectID, c.Credentials)
		if err != nil {
			return fmt.Errorf("firebase auth client: %w", err)
		}
		if _, err := authClient.Users(ctx, "").Next(); err != nil && !errors.Is(err, iterator.Done) {
			return fmt.Errorf("list users: %w", err)
		}
	}

	if c.Firestore {
		fs, err := bootstrap.InitFirestore(ctx, c.ProjectID, c.Credentials)
		if err != nil {
			return fmt.Errorf("firestore client: %w", err)
		}
		defer fs.Close()

		if _, err := fs.Collections(ctx).Next(); err != nil && !errors.Is(err, iterator.Done) {
			return fmt.Errorf("list collections: %w", err)
		}
	}
	return nil
}
