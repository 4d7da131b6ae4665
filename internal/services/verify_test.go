package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/pkg/helpers"
)

type verifyFakeManifests struct {
	m   *models.OutputManifest
	err error
}

func (f *verifyFakeManifests) Read() (*models.OutputManifest, error) { return f.m, f.err }

type verifyFakeChecker struct {
	reject map[string]error
	seen   []string
	checks map[string]models.CredentialCheck
}

func (f *verifyFakeChecker) Check(_ context.Context, c models.CredentialCheck) error {
	f.seen = append(f.seen, c.ProjectID+":"+string(c.Credentials))
	if f.checks == nil {
		f.checks = make(map[string]models.CredentialCheck)
	}
	f.checks[c.ProjectID] = c
	return f.reject[c.ProjectID]
}

func TestVerifyChecksEveryEnvironment(t *testing.T) {
	m := BuildManifest(testHandles(), testSigning())
	checker := &verifyFakeChecker{reject: map[string]error{"acme-prod": errors.New("permission denied")}}
	svc := NewVerifyService(&verifyFakeManifests{m: m}, checker)

	res, err := svc.Verify(helpers.TestCtx())
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if len(checker.seen) != 2 || checker.seen[0] != `acme-dev:{"k":"dev"}` {
		t.Fatalf("checker calls = %v", checker.seen)
	}
	if len(res.Verified) != 1 || res.Verified[0] != "dev" {
		t.Fatalf("verified = %v", res.Verified)
	}
	if res.Failed["prod"] == nil {
		t.Fatalf("prod failure not recorded")
	}
}

func TestVerifyEmptyManifest(t *testing.T) {
	svc := NewVerifyService(&verifyFakeManifests{m: models.NewOutputManifest()}, &verifyFakeChecker{})

	_, err := svc.Verify(helpers.TestCtx())

	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestVerifySkipsServicesTheEnvironmentDoesNotUse(t *testing.T) {
	handles := testHandles()
	handles["dev"].AuthEnabled = true
	handles["dev"].Data.FirestoreDatabase = "(default)"
	// prod was deployed with enableAuth=false and enableFirestore=false

	checker := &verifyFakeChecker{}
	svc := NewVerifyService(&verifyFakeManifests{m: BuildManifest(handles, testSigning())}, checker)

	res, err := svc.Verify(helpers.TestCtx())
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if dev := checker.checks["acme-dev"]; !dev.Auth || !dev.Firestore {
		t.Fatalf("dev must check auth and firestore, got %+v", dev)
	}
	if prod := checker.checks["acme-prod"]; prod.Auth || prod.Firestore {
		t.Fatalf("prod must skip disabled services, got %+v", prod)
	}
	if len(res.Verified) != 2 || len(res.Failed) != 0 {
		t.Fatalf("verified = %v failed = %v", res.Verified, res.Failed)
	}
}
