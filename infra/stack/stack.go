// Package stack assembles the per-environment Pulumi programs.
//
// Every environment owns two stacks: the identity stack, whose failure fails
// the environment, and the data stack, whose failure only warns.
package stack

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/common"
	"github.com/stepanic/flutter-firebase-starter/infra/docker"
	"github.com/stepanic/flutter-firebase-starter/infra/firebase"
	"github.com/stepanic/flutter-firebase-starter/infra/firestore"
	"github.com/stepanic/flutter-firebase-starter/infra/hosting"
	"github.com/stepanic/flutter-firebase-starter/infra/identity"
	"github.com/stepanic/flutter-firebase-starter/infra/project"
	"github.com/stepanic/flutter-firebase-starter/infra/provider"
	"github.com/stepanic/flutter-firebase-starter/infra/secret"
	"github.com/stepanic/flutter-firebase-starter/infra/serviceaccount"
	"github.com/stepanic/flutter-firebase-starter/infra/settings"
	"github.com/stepanic/flutter-firebase-starter/infra/storage"
)

// Identity stack outputs.
const (
	OutputProjectID           = "projectId"
	OutputProjectNumber       = "projectNumber"
	OutputWebAppID            = "webAppId"
	OutputWebAPIKey           = "webApiKey"
	OutputAndroidAppID        = "androidAppId"
	OutputIOSAppID            = "iosAppId"
	OutputGoogleServicesJSON  = "googleServicesJson"
	OutputGoogleServicesPlist = "googleServicesPlist"
	OutputServiceAccountEmail = "serviceAccountEmail"
	OutputServiceAccountKey   = "serviceAccountKey"
	OutputProtected           = "protected"
	OutputEscrowSecrets       = "escrowSecrets"
)

// Data stack outputs.
const (
	OutputFirestoreDatabase   = "firestoreDatabase"
	OutputStorageBucket       = "storageBucket"
	OutputHostingURL          = "hostingUrl"
	OutputFunctionsRepository = "functionsRepository"
)

// IdentityProgram creates the project, its APIs, the Firebase apps and the
// CI service account.
func IdentityProgram() pulumi.RunFunc {
	return func(ctx *pulumi.Context) error {
		s := settings.Load(ctx)

		proj, err := project.CreateProject(ctx, s)
		if err != nil {
			return err
		}

		prov, err := provider.SetupEnvironmentProvider(ctx, proj)
		if err != nil {
			return err
		}

		apis, err := project.EnableServices(ctx, s, prov, proj)
		if err != nil {
			return err
		}

		apps, err := firebase.SetupFirebase(ctx, s, prov, apis...)
		if err != nil {
			return err
		}

		ci, err := serviceaccount.SetupCIServiceAccount(ctx, s, prov, common.Join(apis, []pulumi.Resource{apps.Project})...)
		if err != nil {
			return err
		}

		if s.EscrowSigning {
			ids, err := secret.SetupEscrow(ctx, s, prov, apis...)
			if err != nil {
				return err
			}
			ctx.Export(OutputEscrowSecrets, ids)
		}

		ctx.Export(OutputProjectID, proj.ProjectId)
		ctx.Export(OutputProjectNumber, proj.Number)
		ctx.Export(OutputWebAppID, apps.WebAppID)
		ctx.Export(OutputWebAPIKey, pulumi.ToSecret(apps.WebAPIKey))
		ctx.Export(OutputAndroidAppID, apps.AndroidAppID)
		ctx.Export(OutputIOSAppID, apps.IOSAppID)
		ctx.Export(OutputGoogleServicesJSON, pulumi.ToSecret(apps.GoogleServicesJSON))
		ctx.Export(OutputGoogleServicesPlist, pulumi.ToSecret(apps.GoogleServicesPlist))
		ctx.Export(OutputServiceAccountEmail, ci.Account.Email)
		ctx.Export(OutputServiceAccountKey, pulumi.ToSecret(ci.Key.PrivateKey))
		ctx.Export(OutputProtected, pulumi.Bool(s.Protected))
		return nil
	}
}

// DataProgram creates the feature-gated data resources. It assumes the
// identity stack of the same environment is up.
func DataProgram() pulumi.RunFunc {
	return func(ctx *pulumi.Context) error {
		s := settings.Load(ctx)

		prov, err := provider.SetupEnvironmentProvider(ctx)
		if err != nil {
			return err
		}

		if s.EnableFirestore {
			db, err := firestore.SetupFirestore(ctx, s, prov)
			if err != nil {
				return err
			}
			ctx.Export(OutputFirestoreDatabase, db.Name)
		}

		if s.EnableStorage {
			bucket, err := storage.SetupStorage(ctx, s, prov)
			if err != nil {
				return err
			}
			ctx.Export(OutputStorageBucket, bucket.Name)
		}

		if s.EnableAuth {
			if _, err := identity.SetupIdentity(ctx, s, prov); err != nil {
				return err
			}
		}

		if s.EnableFunctions {
			repo, err := docker.CreateFunctionsRepo(ctx, s, prov)
			if err != nil {
				return err
			}
			ctx.Export(OutputFunctionsRepository, repo.Name)
		}

		if s.EnableHosting {
			site, err := hosting.SetupHosting(ctx, s, prov)
			if err != nil {
				return err
			}
			ctx.Export(OutputHostingURL, site.DefaultUrl)
		}
		return nil
	}
}
