package docker

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/artifactregistry"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

const FunctionsRepository = "functions"

// CreateFunctionsRepo holds the container images Cloud Functions builds.
func CreateFunctionsRepo(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) (*artifactregistry.Repository, error) {
	return artifactregistry.NewRepository(ctx, "functionsRepository", &artifactregistry.RepositoryArgs{
		Project:      pulumi.String(s.ProjectID),
		Format:       pulumi.String("DOCKER"),
		RepositoryId: pulumi.String(FunctionsRepository),
		Location:     pulumi.String(s.FunctionsRegion),
		Description:  pulumi.String("Container images for Cloud Functions"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}
