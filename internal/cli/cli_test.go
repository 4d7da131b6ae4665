package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/internal/services"
)

type cliFakeDeployer struct {
	report *models.DeploymentReport
	err    error
	opts   services.DeployOptions
}

func (f *cliFakeDeployer) Deploy(_ context.Context, _ *config.DeploymentConfig, opts services.DeployOptions) (*models.DeploymentReport, error) {
	f.opts = opts
	return f.report, f.err
}

type cliFakeDestroyer struct {
	stack string
	opts  services.DestroyOptions
	err   error
}

func (f *cliFakeDestroyer) Destroy(_ context.Context, stackName string, opts services.DestroyOptions) (*models.DestroyResult, error) {
	f.stack = stackName
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &models.DestroyResult{Stacks: []string{stackName + "-data", stackName}}, nil
}

type cliFakeVerifier struct {
	res *models.VerifyResult
}

func (f *cliFakeVerifier) Verify(_ context.Context) (*models.VerifyResult, error) {
	return f.res, nil
}

func newTestIO(in string) (IO, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return IO{In: strings.NewReader(in), Out: &out, Err: &errOut}, &out, &errOut
}

func unusedDeps(t *testing.T) *Deps {
	t.Helper()
	return &Deps{
		Deployer: func(context.Context, *config.DeploymentConfig, services.Confirmer) (deployer, func(), error) {
			t.Fatalf("deployer must not be built")
			return nil, nil, nil
		},
		Destroyer: func(context.Context, string, string, services.Confirmer) (destroyer, error) {
			t.Fatalf("destroyer must not be built")
			return nil, nil
		},
		Verifier: func(context.Context, string) (verifier, error) {
			t.Fatalf("verifier must not be built")
			return nil, nil
		},
	}
}

func TestDeployMissingRepoFailsBeforeAnyService(t *testing.T) {
	stdio, _, errOut := newTestIO("")
	code := Run(context.Background(), []string{"deploy", "../config/testdata/missing-repo.json"}, unusedDeps(t), stdio)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "githubRepo") {
		t.Fatalf("expected githubRepo in error output, got %q", errOut.String())
	}
}

func TestDeploySuccessPrintsReport(t *testing.T) {
	rep := models.NewDeploymentReport()
	rep.Succeeded = []string{"dev", "prod"}
	rep.Handles["dev"] = &models.EnvironmentHandle{Environment: "dev", ProjectID: "acme-dev"}
	rep.Handles["prod"] = &models.EnvironmentHandle{Environment: "prod", ProjectID: "acme-prod"}
	rep.SecretsPublished = 12

	fake := &cliFakeDeployer{report: rep}
	closed := false
	deps := unusedDeps(t)
	deps.Deployer = func(_ context.Context, cfg *config.DeploymentConfig, _ services.Confirmer) (deployer, func(), error) {
		if cfg.GitHubRepo != "acme/mobile-app" {
			t.Fatalf("unexpected repo %q", cfg.GitHubRepo)
		}
		return fake, func() { closed = true }, nil
	}

	stdio, out, _ := newTestIO("")
	code := Run(context.Background(), []string{"deploy", "--yes", "../config/testdata/acme.yaml"}, deps, stdio)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !fake.opts.Yes {
		t.Fatalf("expected --yes to reach the service")
	}
	if !closed {
		t.Fatalf("expected clients to be closed")
	}
	if !strings.Contains(out.String(), "acme-dev") || !strings.Contains(out.String(), "12 GitHub secrets published") {
		t.Fatalf("expected report output, got %q", out.String())
	}
}

func TestDeployPartialFailureExitsOne(t *testing.T) {
	rep := models.NewDeploymentReport()
	rep.Succeeded = []string{"dev"}
	rep.Failed["prod"] = errors.New("quota exceeded")

	deps := unusedDeps(t)
	deps.Deployer = func(context.Context, *config.DeploymentConfig, services.Confirmer) (deployer, func(), error) {
		return &cliFakeDeployer{report: rep}, nil, nil
	}

	stdio, out, errOut := newTestIO("")
	code := Run(context.Background(), []string{"deploy", "../config/testdata/acme.yaml"}, deps, stdio)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "prod") {
		t.Fatalf("expected failed env in report, got %q", out.String())
	}
	if strings.Contains(errOut.String(), "run finished with failures") {
		t.Fatalf("reported failures must not be printed twice")
	}
}

func TestDeployAbortedExitsOne(t *testing.T) {
	deps := unusedDeps(t)
	deps.Deployer = func(context.Context, *config.DeploymentConfig, services.Confirmer) (deployer, func(), error) {
		return &cliFakeDeployer{err: errs.ErrAborted}, nil, nil
	}

	stdio, _, errOut := newTestIO("n\n")
	code := Run(context.Background(), []string{"deploy", "../config/testdata/acme.yaml"}, deps, stdio)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "nothing was changed") {
		t.Fatalf("expected abort message, got %q", errOut.String())
	}
}

func TestDestroyPassesFlags(t *testing.T) {
	fake := &cliFakeDestroyer{}
	deps := unusedDeps(t)
	deps.Destroyer = func(_ context.Context, project, backendURL string, _ services.Confirmer) (destroyer, error) {
		if project != "custom" || backendURL != "file:///tmp/state" {
			t.Fatalf("unexpected engine settings %q %q", project, backendURL)
		}
		return fake, nil
	}

	stdio, _, _ := newTestIO("")
	args := []string{"destroy", "acme-dev", "--yes", "--force", "--pulumi-project", "custom", "--backend-url", "file:///tmp/state"}
	if code := Run(context.Background(), args, deps, stdio); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if fake.stack != "acme-dev" || !fake.opts.Yes || !fake.opts.Force {
		t.Fatalf("unexpected destroy call %+v", fake)
	}
}

func TestDestroyProtectedExitsOne(t *testing.T) {
	deps := unusedDeps(t)
	deps.Destroyer = func(context.Context, string, string, services.Confirmer) (destroyer, error) {
		return &cliFakeDestroyer{err: errs.NewProtectedError("acme-prod")}, nil
	}

	stdio, _, errOut := newTestIO("")
	if code := Run(context.Background(), []string{"destroy", "acme-prod", "--yes"}, deps, stdio); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "--force") {
		t.Fatalf("expected --force hint, got %q", errOut.String())
	}
}

func TestVerifyDefaultsManifestPath(t *testing.T) {
	res := models.NewVerifyResult()
	res.Verified = []string{"dev"}
	res.Failed["prod"] = errors.New("permission denied")

	deps := unusedDeps(t)
	deps.Verifier = func(_ context.Context, path string) (verifier, error) {
		if path != config.DefaultManifestPath {
			t.Fatalf("unexpected manifest path %q", path)
		}
		return &cliFakeVerifier{res: res}, nil
	}

	stdio, _, _ := newTestIO("")
	if code := Run(context.Background(), []string{"verify"}, deps, stdio); code != 1 {
		t.Fatalf("expected exit 1 when an environment fails, got %d", code)
	}
}

func TestPromptConfirmer(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		got, err := newPromptConfirmer(strings.NewReader(tc.in), &out).Confirm(context.Background(), "Deploy?")
		if err != nil {
			t.Fatalf("input %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("input %q: expected %v, got %v", tc.in, tc.want, got)
		}
		if !strings.Contains(out.String(), "[y/N]") {
			t.Fatalf("expected prompt, got %q", out.String())
		}
	}
}
