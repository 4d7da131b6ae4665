package config

import (
	"strings"
	"unicode"
)

// EnvironmentConfig is everything the provisioning programs need for one
// environment. Identifiers are derived from (base name, environment) only.
type EnvironmentConfig struct {
	Name            string
	ProjectID       string
	DisplayName     string
	Organization    string
	AndroidPackage  string
	IOSBundleID     string
	BillingAccount  string
	OrgID           string
	FirestoreRegion string
	FunctionsRegion string
	Features        Features
	Protected       bool
	EscrowSigning   bool

	// AdoptExistingDatabase imports a pre-existing (default) Firestore
	// database instead of creating it.
	AdoptExistingDatabase bool
}

// Environment derives the configuration of one named environment.
func (c *DeploymentConfig) Environment(name string) *EnvironmentConfig {
	protected := c.IsProtected(name)
	return &EnvironmentConfig{
		Name:            name,
		ProjectID:       ProjectID(c.ProjectBaseName, name),
		DisplayName:     displayName(c.ProjectBaseName, name),
		Organization:    c.Organization,
		AndroidPackage:  AndroidPackage(c.AndroidPackageName, name),
		IOSBundleID:     IOSBundleID(c.IOSBundleID, name),
		BillingAccount:  c.GCPBillingAccount,
		OrgID:           c.GCPOrganizationID,
		FirestoreRegion: c.FirestoreRegion,
		FunctionsRegion: c.FunctionsRegion,
		Features:        c.Features(),
		Protected:       protected,
		EscrowSigning:   protected && c.EscrowSigningKey,
	}
}

func (c *DeploymentConfig) EnvironmentConfigs() []*EnvironmentConfig {
	out := make([]*EnvironmentConfig, 0, len(c.Environments))
	for _, env := range c.Environments {
		out = append(out, c.Environment(env))
	}
	return out
}

// DataStackName is the best-effort companion stack of an environment.
func (e *EnvironmentConfig) DataStackName() string {
	return DataStackName(e.ProjectID)
}

func DataStackName(identityStack string) string {
	return identityStack + "-data"
}

// StorageLocation maps the Firestore location to a matching bucket location.
func (e *EnvironmentConfig) StorageLocation() string {
	switch e.FirestoreRegion {
	case "eur3":
		return "EU"
	case "nam5", "nam7":
		return "US"
	default:
		return strings.ToUpper(e.FirestoreRegion)
	}
}

// ProjectID derives the GCP project id: lowercase, hyphen-delimited, no
// underscores. It is a pure function of its inputs.
func ProjectID(baseName, env string) string {
	return sanitize(baseName) + "-" + sanitize(env)
}

// SecretSuffix is the upper-case form used in GitHub secret names.
func SecretSuffix(env string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(env), "-", "_"))
}

func AndroidPackage(pkg, env string) string {
	return pkg + "." + strings.ReplaceAll(strings.ToLower(env), "-", "_")
}

func IOSBundleID(bundle, env string) string {
	return bundle + "." + strings.ReplaceAll(strings.ToLower(env), "_", "-")
}

// Slug is the lowercase, hyphen-delimited form used in project ids and
// local file names.
func Slug(s string) string {
	return sanitize(s)
}

func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || r == '_' || r == ' ' || r == '.':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

const maxDisplayName = 30

// displayName keeps the characters GCP accepts in a project name (letters,
// digits, hyphen, quotes, space, exclamation point) and cuts at 30 runes.
func displayName(base, env string) string {
	var b strings.Builder
	lastSpace := true
	n := 0
	for _, r := range base + " " + env {
		if n == maxDisplayName {
			break
		}
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '\'', r == '"', r == '!':
			b.WriteRune(r)
			lastSpace = false
		default:
			if lastSpace {
				continue
			}
			b.WriteByte(' ')
			lastSpace = true
		}
		n++
	}
	return strings.TrimSpace(b.String())
}
