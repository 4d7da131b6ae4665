package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2/google"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

type pulumiIdentity interface {
	WhoAmI(ctx context.Context) (string, error)
}

type githubIdentity interface {
	CurrentUser(ctx context.Context) (string, error)
}

// Session verifies that every external service a run touches is reachable
// with the operator's credentials.
type Session struct {
	pulumi      pulumiIdentity
	github      githubIdentity
	credentials func(ctx context.Context, scopes ...string) (*google.Credentials, error)
}

func NewSession(pulumi pulumiIdentity, github githubIdentity) *Session {
	return &Session{
		pulumi:      pulumi,
		github:      github,
		credentials: google.FindDefaultCredentials,
	}
}

func (s *Session) Verify(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if err := s.verifyGCP(ctx); err != nil {
		return err
	}

	user, err := s.pulumi.WhoAmI(ctx)
	if err != nil {
		return errs.NewAuthenticationError("Pulumi", "run `pulumi login` or set PULUMI_BACKEND_URL", err)
	}
	log.Debug("pulumi session", "user", user)

	if s.github != nil {
		login, err := s.github.CurrentUser(ctx)
		if err != nil {
			var ae *errs.AuthenticationError
			if errors.As(err, &ae) {
				return err
			}
			return errs.NewAuthenticationError("GitHub", "check GITHUB_TOKEN or run `gh auth login`", err)
		}
		log.Debug("github session", "login", login)
	}
	return nil
}

func (s *Session) verifyGCP(ctx context.Context) error {
	const hint = "run `gcloud auth application-default login`"

	creds, err := s.credentials(ctx, cloudPlatformScope)
	if err != nil {
		return errs.NewAuthenticationError("Google Cloud", hint, err)
	}
	if _, err := creds.TokenSource.Token(); err != nil {
		return errs.NewAuthenticationError("Google Cloud", hint, fmt.Errorf("token refresh: %w", err))
	}
	logger.FromContext(ctx).Debug("gcp session", "quotaProject", creds.ProjectID)
	return nil
}
