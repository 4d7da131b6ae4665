package common

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// ServiceAccountMember is the IAM member string of a service account.
func ServiceAccountMember(sa *serviceaccount.Account) pulumi.StringOutput {
	return sa.Email.ApplyT(func(email string) string {
		return fmt.Sprintf("serviceAccount:%s", email)
	}).(pulumi.StringOutput)
}

// RulesetName turns a ruleset id into the resource name a release expects.
func RulesetName(projectID string, id pulumi.StringOutput) pulumi.StringOutput {
	return id.ApplyT(func(name string) string {
		return fmt.Sprintf("projects/%s/rulesets/%s", projectID, name)
	}).(pulumi.StringOutput)
}

// Join flattens dependency lists.
func Join(groups ...[]pulumi.Resource) []pulumi.Resource {
	var out []pulumi.Resource
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
