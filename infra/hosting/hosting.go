package hosting

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firebase"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

func SetupHosting(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) (*firebase.HostingSite, error) {
	return firebase.NewHostingSite(ctx, "hostingSite", &firebase.HostingSiteArgs{
		Project: pulumi.String(s.ProjectID),
		SiteId:  pulumi.String(s.ProjectID),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}
