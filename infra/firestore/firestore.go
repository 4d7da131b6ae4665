package firestore

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firebaserules"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/common"
	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

const DatabaseName = "(default)"

// Rules denies by default, lets users own users/{uid} and exposes public/.
const Rules = `rules_version = '2';
service cloud.firestore {
  match /databases/{database}/documents {
    match /{document=**} {
      allow read, write: if false;
    }
    match /users/{userId}/{document=**} {
      allow read, write: if request.auth != null && request.auth.uid == userId;
    }
    match /public/{document=**} {
      allow read: if true;
      allow write: if false;
    }
  }
}
`

func SetupFirestore(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	db, err := createDatabase(ctx, s, prov, res...)
	if err != nil {
		return nil, err
	}

	if err := releaseRules(ctx, s, prov, db); err != nil {
		return nil, err
	}
	return db, nil
}

func createDatabase(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	opts := []pulumi.ResourceOption{
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
		pulumi.Protect(s.Protected),
	}
	if s.AdoptExistingDatabase {
		id := fmt.Sprintf("projects/%s/databases/%s", s.ProjectID, DatabaseName)
		opts = append(opts, pulumi.Import(pulumi.ID(id)))
	}

	return firestore.NewDatabase(ctx, "firestoreDatabase", &firestore.DatabaseArgs{
		Project:        pulumi.String(s.ProjectID),
		Name:           pulumi.String(DatabaseName),
		LocationId:     pulumi.String(s.FirestoreRegion),
		Type:           pulumi.String("FIRESTORE_NATIVE"),
		DeletionPolicy: pulumi.String("DELETE"),
	}, opts...)
}

func releaseRules(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) error {
	ruleset, err := firebaserules.NewRuleset(ctx, "firestoreRuleset", &firebaserules.RulesetArgs{
		Project: pulumi.String(s.ProjectID),
		Source: &firebaserules.RulesetSourceArgs{
			Files: firebaserules.RulesetSourceFileArray{
				&firebaserules.RulesetSourceFileArgs{
					Name:    pulumi.String("firestore.rules"),
					Content: pulumi.String(Rules),
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
	if err != nil {
		return err
	}

	_, err = firebaserules.NewRelease(ctx, "firestoreRelease", &firebaserules.ReleaseArgs{
		Project:     pulumi.String(s.ProjectID),
		Name:        pulumi.String("cloud.firestore"),
		RulesetName: common.RulesetName(s.ProjectID, ruleset.Name),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
	return err
}
