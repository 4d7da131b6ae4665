package services

import (
	"strconv"
	"strings"

	"github.com/stepanic/flutter-firebase-starter/internal/models"
)

// BuildManifest flattens handles and signing material into manifest entries
// keyed "<env>_<field>".
func BuildManifest(handles map[string]*models.EnvironmentHandle, signing *models.SigningMaterial) *models.OutputManifest {
	m := models.NewOutputManifest()

	for env, h := range handles {
		set := func(field, value string) {
			if value != "" {
				m.Set(env+"_"+field, value)
			}
		}
		secret := func(field, value string) {
			if value != "" {
				m.SetSecret(env+"_"+field, value)
			}
		}

		set("projectId", h.ProjectID)
		set("projectNumber", h.ProjectNumber)
		set("consoleUrl", h.ConsoleURL())
		set("webAppId", h.WebAppID)
		if h.WebAPIKey.Available {
			secret("webApiKey", h.WebAPIKey.Value)
		}
		set("androidAppId", h.AndroidAppID)
		set("iosAppId", h.IOSAppID)
		set("serviceAccountEmail", h.ServiceAccountEmail)
		set("authEnabled", strconv.FormatBool(h.AuthEnabled))
		secret("serviceAccountKey", h.ServiceAccountKey)
		secret("googleServicesJson", h.GoogleServicesJSON)
		secret("googleServicesPlist", h.GoogleServicesPlist)
		set("firestoreDatabase", h.Data.FirestoreDatabase)
		set("storageBucket", h.Data.StorageBucket)
		set("hostingUrl", h.Data.HostingURL)
		set("functionsRepository", h.Data.FunctionsRepository)
	}

	if signing != nil {
		m.Set("keyAlias", signing.KeyAlias)
		m.SetSecret("androidKeystore", signing.Keystore)
		m.SetSecret("keystorePassword", signing.StorePassword)
		m.SetSecret("keyPassword", signing.KeyPassword)
	}
	return m
}

// ManifestEnvironments lists the environments recorded in a manifest.
func ManifestEnvironments(m *models.OutputManifest) []string {
	var envs []string
	for _, k := range m.Keys() {
		if env, ok := strings.CutSuffix(k, "_projectId"); ok && env != "" {
			envs = append(envs, env)
		}
	}
	return envs
}
