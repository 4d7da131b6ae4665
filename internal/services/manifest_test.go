package services

import (
	"reflect"
	"testing"

	"github.com/stepanic/flutter-firebase-starter/internal/models"
)

func TestBuildManifestMarksSecrets(t *testing.T) {
	handles := testHandles()
	handles["dev"].WebAPIKey = models.AvailableAPIKey("AIza-dev")
	handles["dev"].AuthEnabled = true

	m := BuildManifest(handles, testSigning())

	for _, key := range []string{"dev_webApiKey", "dev_serviceAccountKey", "prod_googleServicesJson", "keystorePassword"} {
		if e, ok := m.Get(key); !ok || !e.Secret {
			t.Fatalf("%s must be recorded as secret, got %+v", key, e)
		}
	}
	if _, ok := m.Get("prod_webApiKey"); ok {
		t.Fatalf("unavailable key must not be recorded")
	}
	if e, _ := m.Get("dev_authEnabled"); e.Value != "true" {
		t.Fatalf("dev_authEnabled = %q", e.Value)
	}
	if e, _ := m.Get("prod_authEnabled"); e.Value != "false" {
		t.Fatalf("prod_authEnabled = %q", e.Value)
	}
	// 3 per-env secrets for both envs, dev's API key, 3 signing secrets
	if m.SecretCount() != 10 {
		t.Fatalf("SecretCount = %d, want 10", m.SecretCount())
	}
	if got := ManifestEnvironments(m); !reflect.DeepEqual(got, []string{"dev", "prod"}) {
		t.Fatalf("environments = %v", got)
	}
}
