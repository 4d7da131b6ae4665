package automationclient

import (
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
)

func wrapError(stackName string, err error) error {
	switch {
	case err == nil:
		return nil
	case auto.IsSelectStack404Error(err):
		return errs.NewNotFoundError(fmt.Sprintf("stack %s has no state", stackName))
	case auto.IsConcurrentUpdateError(err):
		return errs.NewConcurrentRunError(fmt.Sprintf("stack %s is being updated by another run", stackName))
	case auto.IsCreateStack409Error(err):
		return errs.NewAlreadyExistsError(fmt.Sprintf("stack %s already exists", stackName))
	default:
		return fmt.Errorf("stack %s: %w", stackName, err)
	}
}
