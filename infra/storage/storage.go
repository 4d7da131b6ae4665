package storage

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firebase"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firebaserules"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/storage"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/common"
	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

const Rules = `rules_version = '2';
service firebase.storage {
  match /b/{bucket}/o {
    match /{allPaths=**} {
      allow read, write: if false;
    }
    match /users/{userId}/{allPaths=**} {
      allow read, write: if request.auth != null && request.auth.uid == userId;
    }
    match /public/{allPaths=**} {
      allow read: if true;
      allow write: if false;
    }
  }
}
`

func BucketName(projectID string) string {
	return projectID + "-storage"
}

// SetupStorage creates the app bucket, links it to Firebase and releases
// its security rules.
func SetupStorage(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) (*storage.Bucket, error) {
	bucket, err := storage.NewBucket(ctx, "storageBucket", &storage.BucketArgs{
		Project:                  pulumi.String(s.ProjectID),
		Name:                     pulumi.String(BucketName(s.ProjectID)),
		Location:                 pulumi.String(s.StorageLocation),
		UniformBucketLevelAccess: pulumi.Bool(true),
		ForceDestroy:             pulumi.Bool(!s.Protected),
		Cors: storage.BucketCorArray{
			&storage.BucketCorArgs{
				Origins:         pulumi.StringArray{pulumi.String("*")},
				Methods:         pulumi.ToStringArray([]string{"GET", "HEAD", "PUT", "POST", "DELETE"}),
				ResponseHeaders: pulumi.StringArray{pulumi.String("*")},
				MaxAgeSeconds:   pulumi.Int(3600),
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
		pulumi.Protect(s.Protected),
	)
	if err != nil {
		return nil, err
	}

	link, err := firebase.NewStorageBucket(ctx, "firebaseStorageBucket", &firebase.StorageBucketArgs{
		Project:  pulumi.String(s.ProjectID),
		BucketId: bucket.Name,
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	if err := releaseRules(ctx, s, prov, link); err != nil {
		return nil, err
	}
	return bucket, nil
}

func releaseRules(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) error {
	ruleset, err := firebaserules.NewRuleset(ctx, "storageRuleset", &firebaserules.RulesetArgs{
		Project: pulumi.String(s.ProjectID),
		Source: &firebaserules.RulesetSourceArgs{
			Files: firebaserules.RulesetSourceFileArray{
				&firebaserules.RulesetSourceFileArgs{
					Name:    pulumi.String("storage.rules"),
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

	_, err = firebaserules.NewRelease(ctx, "storageRelease", &firebaserules.ReleaseArgs{
		Project:     pulumi.String(s.ProjectID),
		Name:        pulumi.String(fmt.Sprintf("firebase.storage/%s", BucketName(s.ProjectID))),
		RulesetName: common.RulesetName(s.ProjectID, ruleset.Name),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
	return err
}
