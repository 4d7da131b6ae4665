package project

import (
	"strings"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/organizations"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

var baselineServices = []string{
	"firebase.googleapis.com",
	"cloudresourcemanager.googleapis.com",
	"serviceusage.googleapis.com",
	"iam.googleapis.com",
	"iamcredentials.googleapis.com",
	"firebaserules.googleapis.com",
}

// RequiredServices lists the APIs an environment needs, in a stable order.
func RequiredServices(s *settings.Settings) []string {
	services := append([]string{}, baselineServices...)
	if s.EnableAuth {
		services = append(services, "identitytoolkit.googleapis.com")
	}
	if s.EnableFirestore {
		services = append(services, "firestore.googleapis.com")
	}
	if s.EnableStorage {
		services = append(services, "storage.googleapis.com", "firebasestorage.googleapis.com")
	}
	if s.EnableFunctions {
		services = append(services,
			"cloudfunctions.googleapis.com",
			"cloudbuild.googleapis.com",
			"run.googleapis.com",
			"artifactregistry.googleapis.com",
			"eventarc.googleapis.com",
		)
	}
	if s.EnableHosting {
		services = append(services, "firebasehosting.googleapis.com")
	}
	if s.EscrowSigning {
		services = append(services, "secretmanager.googleapis.com")
	}
	return services
}

func CreateProject(ctx *pulumi.Context, s *settings.Settings) (*organizations.Project, error) {
	args := &organizations.ProjectArgs{
		ProjectId:         pulumi.String(s.ProjectID),
		Name:              pulumi.String(s.DisplayName),
		AutoCreateNetwork: pulumi.Bool(false),
		DeletionPolicy:    pulumi.String("DELETE"),
		Labels: pulumi.StringMap{
			"firebase":    pulumi.String("enabled"),
			"environment": pulumi.String(labelValue(s.Environment)),
		},
	}
	if s.BillingAccount != "" {
		args.BillingAccount = pulumi.String(s.BillingAccount)
	}
	if s.OrgID != "" {
		args.OrgId = pulumi.String(s.OrgID)
	}

	return organizations.NewProject(ctx, "project", args, pulumi.Protect(s.Protected))
}

// EnableServices enables every required API. The services have no ordering
// among themselves; callers depend on the whole set.
func EnableServices(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) ([]pulumi.Resource, error) {
	enabled := make([]pulumi.Resource, 0, len(baselineServices))
	for _, api := range RequiredServices(s) {
		svc, err := projects.NewService(ctx, serviceName(api), &projects.ServiceArgs{
			Project:          pulumi.String(s.ProjectID),
			Service:          pulumi.String(api),
			DisableOnDestroy: pulumi.Bool(false),
		},
			pulumi.Provider(prov),
			pulumi.DependsOn(res),
		)
		if err != nil {
			return nil, err
		}
		enabled = append(enabled, svc)
	}
	return enabled, nil
}

func serviceName(api string) string {
	name, _, _ := strings.Cut(api, ".")
	return name + "Service"
}

func labelValue(v string) string {
	return strings.ReplaceAll(strings.ToLower(v), "_", "-")
}
