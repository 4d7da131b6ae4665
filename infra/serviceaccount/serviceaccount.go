package serviceaccount

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/common"
	"github.com/stepanic/flutter-firebase-starter/infra/settings"
)

const AccountID = "firebase-cicd"

// Roles granted to the CI service account.
var Roles = []string{
	"roles/firebase.admin",
	"roles/firebaseauth.admin",
	"roles/datastore.user",
	"roles/cloudfunctions.admin",
	"roles/storage.admin",
	"roles/iam.serviceAccountUser",
}

type CIAccount struct {
	Account *serviceaccount.Account
	Key     *serviceaccount.Key
}

// SetupCIServiceAccount creates the deploy identity, grants its roles and
// mints a key once every grant exists.
func SetupCIServiceAccount(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, res ...pulumi.Resource) (*CIAccount, error) {
	sa, err := serviceaccount.NewAccount(ctx, "ciServiceAccount", &serviceaccount.AccountArgs{
		Project:     pulumi.String(s.ProjectID),
		AccountId:   pulumi.String(AccountID),
		DisplayName: pulumi.String(fmt.Sprintf("Firebase CI/CD (%s)", s.Environment)),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
	if err != nil {
		return nil, err
	}

	grants, err := grantRoles(ctx, s, prov, sa)
	if err != nil {
		return nil, err
	}

	key, err := serviceaccount.NewKey(ctx, "ciServiceAccountKey", &serviceaccount.KeyArgs{
		ServiceAccountId: sa.Name,
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(grants),
	)
	if err != nil {
		return nil, err
	}

	return &CIAccount{Account: sa, Key: key}, nil
}

func grantRoles(ctx *pulumi.Context, s *settings.Settings, prov *gcp.Provider, sa *serviceaccount.Account) ([]pulumi.Resource, error) {
	member := common.ServiceAccountMember(sa)
	grants := make([]pulumi.Resource, 0, len(Roles))
	for _, role := range Roles {
		m, err := projects.NewIAMMember(ctx, "ci-"+role[len("roles/"):], &projects.IAMMemberArgs{
			Project: pulumi.String(s.ProjectID),
			Role:    pulumi.String(role),
			Member:  member,
		},
			pulumi.Provider(prov),
		)
		if err != nil {
			return nil, err
		}
		grants = append(grants, m)
	}
	return grants, nil
}
