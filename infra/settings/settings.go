package settings

import (
	"strconv"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	appconfig "github.com/stepanic/flutter-firebase-starter/internal/config"
)

// Namespace is the stack config namespace read by the programs.
const Namespace = "firebase"

// Settings is one environment's stack configuration as seen by a program.
type Settings struct {
	Environment     string
	ProjectID       string
	DisplayName     string
	Organization    string
	BillingAccount  string
	OrgID           string
	AndroidPackage  string
	IOSBundleID     string
	FirestoreRegion string
	FunctionsRegion string
	StorageLocation string

	EnableAuth      bool
	EnableFirestore bool
	EnableFunctions bool
	EnableStorage   bool
	EnableHosting   bool

	Protected             bool
	EscrowSigning         bool
	AdoptExistingDatabase bool
}

func Load(ctx *pulumi.Context) *Settings {
	cfg := config.New(ctx, Namespace)
	gcpCfg := config.New(ctx, "gcp")

	return &Settings{
		Environment:     cfg.Require("environment"),
		ProjectID:       cfg.Require("projectId"),
		DisplayName:     cfg.Require("displayName"),
		Organization:    cfg.Get("organization"),
		BillingAccount:  cfg.Get("billingAccount"),
		OrgID:           cfg.Get("orgId"),
		AndroidPackage:  cfg.Require("androidPackage"),
		IOSBundleID:     cfg.Require("iosBundleId"),
		FirestoreRegion: cfg.Require("firestoreRegion"),
		FunctionsRegion: gcpCfg.Require("region"),
		StorageLocation: cfg.Require("storageLocation"),

		EnableAuth:      cfg.GetBool("enableAuth"),
		EnableFirestore: cfg.GetBool("enableFirestore"),
		EnableFunctions: cfg.GetBool("enableFunctions"),
		EnableStorage:   cfg.GetBool("enableStorage"),
		EnableHosting:   cfg.GetBool("enableHosting"),

		Protected:             cfg.GetBool("protected"),
		EscrowSigning:         cfg.GetBool("escrowSigning"),
		AdoptExistingDatabase: cfg.GetBool("adoptExistingDatabase"),
	}
}

// Encode is the stack config written before every update. Keys are fully
// qualified ("firebase:projectId").
func Encode(env *appconfig.EnvironmentConfig) map[string]string {
	b := strconv.FormatBool
	values := map[string]string{
		"environment":           env.Name,
		"projectId":             env.ProjectID,
		"displayName":           env.DisplayName,
		"organization":          env.Organization,
		"billingAccount":        env.BillingAccount,
		"orgId":                 env.OrgID,
		"androidPackage":        env.AndroidPackage,
		"iosBundleId":           env.IOSBundleID,
		"firestoreRegion":       env.FirestoreRegion,
		"storageLocation":       env.StorageLocation(),
		"enableAuth":            b(env.Features.Auth),
		"enableFirestore":       b(env.Features.Firestore),
		"enableFunctions":       b(env.Features.Functions),
		"enableStorage":         b(env.Features.Storage),
		"enableHosting":         b(env.Features.Hosting),
		"protected":             b(env.Protected),
		"escrowSigning":         b(env.EscrowSigning),
		"adoptExistingDatabase": b(env.AdoptExistingDatabase),
	}

	out := make(map[string]string, len(values)+1)
	for k, v := range values {
		out[Namespace+":"+k] = v
	}
	out["gcp:region"] = env.FunctionsRegion
	return out
}
