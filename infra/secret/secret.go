package secret

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/secretmanager"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

// Escrow secret ids, keyed by the signing field they hold.
var EscrowSecrets = map[string]string{
	"keystore":      "android-upload-keystore",
	"storePassword": "android-keystore-password",
	"keyPassword":   "android-key-password",
	"keyAlias":      "android-key-alias",
}

// SetupEscrow creates empty Secret Manager containers for the signing
// material. Versions are added at run time so the values never enter stack
// state.
func SetupEscrow(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) (pulumi.StringMap, error) {
	ids := pulumi.StringMap{}
	for field, secretID := range EscrowSecrets {
		sec, err := secretmanager.NewSecret(ctx, secretID, &secretmanager.SecretArgs{
			Project:  pulumi.String(s.ProjectID),
			SecretId: pulumi.String(secretID),
			Replication: &secretmanager.SecretReplicationArgs{
				Auto: &secretmanager.SecretReplicationAutoArgs{},
			},
			Labels: pulumi.StringMap{
				"purpose": pulumi.String("android-signing"),
			},
		},
			pulumi.Provider(prov),
			pulumi.DependsOn(res),
			pulumi.Protect(s.Protected),
		)
		if err != nil {
			return nil, err
		}
		ids[field] = sec.SecretId
	}
	return ids, nil
}
