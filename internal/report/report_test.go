package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
)

func TestDeploymentBuckets(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	r := models.NewDeploymentReport()
	r.Succeeded = []string{"dev"}
	r.Handles["dev"] = &models.EnvironmentHandle{ProjectID: "acme-dev", WebAPIKey: models.AvailableAPIKey("AIza"), Changes: map[string]int{"create": 3}}
	r.Handles["staging"] = &models.EnvironmentHandle{ProjectID: "acme-staging"}
	r.Warned["staging"] = []string{"web API key unavailable"}
	r.Failed["prod"] = errors.New("quota exceeded")
	r.SecretsPublished = 8
	r.ManifestPath = "firebase-infrastructure-outputs.json"

	NewPrinter(&buf).Deployment(r, []string{"dev", "staging", "prod"})
	out := buf.String()

	for _, want := range []string{
		"✓ dev  acme-dev  create=3",
		"https://console.firebase.google.com/project/acme-dev/overview",
		"⚠ staging  acme-staging  no changes",
		"web API key: unavailable",
		"✗ prod  quota exceeded",
		"8 GitHub secrets published",
		"Result: 1 succeeded, 1 warned, 1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "AIza") {
		t.Fatalf("summary must not print the web API key:\n%s", out)
	}
	if !strings.Contains(out, "web API key: available") {
		t.Fatalf("summary missing key availability:\n%s", out)
	}
	if strings.Index(out, "dev") > strings.Index(out, "prod") {
		t.Fatalf("environments must follow declared order")
	}
}

func TestErrorWithHint(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	NewPrinter(&buf).Error(errs.Describe(errs.NewAuthenticationError("Pulumi", "run `pulumi login`", nil)))

	if !strings.Contains(buf.String(), "not authenticated with Pulumi") || !strings.Contains(buf.String(), "hint: run `pulumi login`") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
