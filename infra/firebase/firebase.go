package firebase

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firebase"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

// Apps carries the client app ids and their generated config files.
type Apps struct {
	Project             *firebase.Project
	WebAppID            pulumi.StringOutput
	WebAPIKey           pulumi.StringOutput
	AndroidAppID        pulumi.StringOutput
	IOSAppID            pulumi.StringOutput
	GoogleServicesJSON  pulumi.StringOutput // base64
	GoogleServicesPlist pulumi.StringOutput // base64
}

func SetupFirebase(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) (*Apps, error) {
	fb, err := firebase.NewProject(ctx, "firebaseProject", &firebase.ProjectArgs{
		Project: pulumi.String(s.ProjectID),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
		pulumi.Protect(s.Protected),
	)
	if err != nil {
		return nil, err
	}

	apps := &Apps{Project: fb}
	if err := createWebApp(ctx, s, prov, apps, fb); err != nil {
		return nil, err
	}
	if err := createAndroidApp(ctx, s, prov, apps, fb); err != nil {
		return nil, err
	}
	if err := createAppleApp(ctx, s, prov, apps, fb); err != nil {
		return nil, err
	}
	return apps, nil
}

func createWebApp(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, apps *Apps, res ...pulumi.Resource) error {
	web, err := firebase.NewWebApp(ctx, "webApp", &firebase.WebAppArgs{
		Project:        pulumi.String(s.ProjectID),
		DisplayName:    pulumi.String(appName(s, "Web")),
		DeletionPolicy: pulumi.String("DELETE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
	if err != nil {
		return err
	}

	cfg := firebase.GetWebAppConfigOutput(ctx, firebase.GetWebAppConfigOutputArgs{
		Project:  pulumi.String(s.ProjectID),
		WebAppId: web.AppId,
	}, pulumi.Provider(prov))

	apps.WebAppID = web.AppId
	apps.WebAPIKey = cfg.ApiKey()
	return nil
}

func createAndroidApp(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, apps *Apps, res ...pulumi.Resource) error {
	android, err := firebase.NewAndroidApp(ctx, "androidApp", &firebase.AndroidAppArgs{
		Project:        pulumi.String(s.ProjectID),
		DisplayName:    pulumi.String(appName(s, "Android")),
		PackageName:    pulumi.String(s.AndroidPackage),
		DeletionPolicy: pulumi.String("DELETE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
	if err != nil {
		return err
	}

	cfg := firebase.GetAndroidAppConfigOutput(ctx, firebase.GetAndroidAppConfigOutputArgs{
		Project: pulumi.String(s.ProjectID),
		AppId:   android.AppId,
	}, pulumi.Provider(prov))

	apps.AndroidAppID = android.AppId
	apps.GoogleServicesJSON = cfg.ConfigFileContents()
	return nil
}

func createAppleApp(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, apps *Apps, res ...pulumi.Resource) error {
	ios, err := firebase.NewAppleApp(ctx, "iosApp", &firebase.AppleAppArgs{
		Project:        pulumi.String(s.ProjectID),
		DisplayName:    pulumi.String(appName(s, "iOS")),
		BundleId:       pulumi.String(s.IOSBundleID),
		DeletionPolicy: pulumi.String("DELETE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
	if err != nil {
		return err
	}

	cfg := firebase.GetAppleAppConfigOutput(ctx, firebase.GetAppleAppConfigOutputArgs{
		Project: pulumi.String(s.ProjectID),
		AppId:   ios.AppId,
	}, pulumi.Provider(prov))

	apps.IOSAppID = ios.AppId
	apps.GoogleServicesPlist = cfg.ConfigFileContents()
	return nil
}

func appName(s *settings.Settings, platform string) string {
	return fmt.Sprintf("%s %s (%s)", s.Organization, platform, s.Environment)
}
