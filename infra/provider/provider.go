package provider

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

// SetupEnvironmentProvider scopes every later resource to the environment's
// project and bills API quota to it.
func SetupEnvironmentProvider(ctx *pulumi.Context, res ...pulumi.Resource) (*gcp.Provider, error) {
	projectID := config.New(ctx, settings.Namespace).Require("projectId")
	region := config.New(ctx, "gcp").Require("region")

	return gcp.NewProvider(ctx, "gcpProvider", &gcp.ProviderArgs{
		Project:             pulumi.String(projectID),
		Region:              pulumi.String(region),
		BillingProject:      pulumi.String(projectID),
		UserProjectOverride: pulumi.Bool(true),
	},
		pulumi.DependsOn(res),
	)
}
