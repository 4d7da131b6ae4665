package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/pkg/helpers"
)

type fakeIdentity struct {
	err   error
	calls int
}

func (f *fakeIdentity) WhoAmI(context.Context) (string, error) {
	f.calls++
	return "alice", f.err
}

func (f *fakeIdentity) CurrentUser(context.Context) (string, error) {
	f.calls++
	return "alice", f.err
}

func staticCredentials(context.Context, ...string) (*google.Credentials, error) {
	return &google.Credentials{
		ProjectID:   "quota-project",
		TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "ya29.test"}),
	}, nil
}

func TestSessionVerify(t *testing.T) {
	p, g := &fakeIdentity{}, &fakeIdentity{}
	s := NewSession(p, g)
	s.credentials = staticCredentials

	if err := s.Verify(helpers.TestCtx()); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if p.calls != 1 || g.calls != 1 {
		t.Fatalf("expected one check per service, got pulumi=%d github=%d", p.calls, g.calls)
	}
}

func TestSessionVerifyMissingADC(t *testing.T) {
	p := &fakeIdentity{}
	s := NewSession(p, &fakeIdentity{})
	s.credentials = func(context.Context, ...string) (*google.Credentials, error) {
		return nil, errors.New("could not find default credentials")
	}

	err := s.Verify(helpers.TestCtx())

	var ae *errs.AuthenticationError
	if !errors.As(err, &ae) || ae.Service != "Google Cloud" {
		t.Fatalf("expected Google Cloud AuthenticationError, got %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("pulumi must not be checked after a GCP failure")
	}
}

func TestSessionVerifyPulumiLoggedOut(t *testing.T) {
	s := NewSession(&fakeIdentity{err: errors.New("no credentials")}, &fakeIdentity{})
	s.credentials = staticCredentials

	err := s.Verify(helpers.TestCtx())

	var ae *errs.AuthenticationError
	if !errors.As(err, &ae) || ae.Service != "Pulumi" || ae.Hint == "" {
		t.Fatalf("expected Pulumi AuthenticationError with hint, got %v", err)
	}
}

func TestGitHubTokenPrefersConfigured(t *testing.T) {
	tok, err := GitHubToken(helpers.TestCtx(), "  ghp_abc ")
	if err != nil || tok != "ghp_abc" {
		t.Fatalf("GitHubToken = %q, %v", tok, err)
	}

	_, err = ghToken(helpers.TestCtx(), "gh-does-not-exist-ffs")
	var ae *errs.AuthenticationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthenticationError when gh is missing, got %v", err)
	}
}
