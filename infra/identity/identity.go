package identity

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/identityplatform"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

// SetupIdentity turns on Firebase Auth with email/password sign-in.
func SetupIdentity(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) (*identityplatform.Config, error) {
	return identityplatform.NewConfig(ctx,
		"identityPlatformConfig",
		&identityplatform.ConfigArgs{
			Project:                  pulumi.String(s.ProjectID),
			AutodeleteAnonymousUsers: pulumi.Bool(true),
			SignIn: &identityplatform.ConfigSignInArgs{
				AllowDuplicateEmails: pulumi.Bool(false),
				Email: &identityplatform.ConfigSignInEmailArgs{
					Enabled:          pulumi.Bool(true),
					PasswordRequired: pulumi.Bool(true),
				},
			},
		},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}
