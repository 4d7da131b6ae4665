package automationclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optdestroy"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optup"
	"github.com/pulumi/pulumi/sdk/v3/go/common/apitype"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/stepanic/flutter-firebase-starter/infra/stack"
	"github.com/stepanic/flutter-firebase-starter/internal/dto"
	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/pkg/helpers"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

const (
	gcpPlugin        = "gcp"
	gcpPluginVersion = "v9.6.0"
)

// Adapter drives the inline programs through the Automation API.
type Adapter struct {
	project    string
	backendURL string

	pluginOnce sync.Once
	pluginErr  error
}

func NewAdapter(project, backendURL string) *Adapter {
	return &Adapter{
		project:    project,
		backendURL: backendURL,
	}
}

func (a *Adapter) Up(ctx context.Context, req dto.StackRequest) (dto.StackResult, error) {
	log := logger.FromContext(ctx).With("stack", req.Stack, "kind", req.Kind.String())

	s, err := auto.UpsertStackInlineSource(ctx, req.Stack, a.project, program(req.Kind), a.workspaceOptions()...)
	if err != nil {
		return dto.StackResult{}, wrapError(req.Stack, err)
	}

	if err := a.installPlugins(ctx, s.Workspace()); err != nil {
		return dto.StackResult{}, err
	}

	if err := s.SetAllConfig(ctx, toConfigMap(req.Config)); err != nil {
		return dto.StackResult{}, fmt.Errorf("set config for %s: %w", req.Stack, err)
	}

	log.Debug("updating stack")
	progress := newLogWriter(log)
	defer progress.Flush()

	res, err := s.Up(ctx, optup.ProgressStreams(progress))
	if err != nil {
		return dto.StackResult{}, wrapError(req.Stack, err)
	}

	result := dto.StackResult{
		Outputs: make(map[string]dto.StackOutput, len(res.Outputs)),
		Changes: helpers.Value(res.Summary.ResourceChanges),
	}
	for k, v := range res.Outputs {
		result.Outputs[k] = dto.StackOutput{Value: v.Value, Secret: v.Secret}
	}
	return result, nil
}

// Exists selects the stack without creating it.
func (a *Adapter) Exists(ctx context.Context, stackName string, kind dto.StackKind) (bool, error) {
	_, err := a.selectStack(ctx, stackName, kind)
	if err == nil {
		return true, nil
	}
	var nf *errs.NotFoundError
	if errors.As(err, &nf) {
		return false, nil
	}
	return false, err
}

func (a *Adapter) Destroy(ctx context.Context, stackName string, kind dto.StackKind) (dto.StackResult, error) {
	log := logger.FromContext(ctx).With("stack", stackName, "kind", kind.String())

	s, err := a.selectStack(ctx, stackName, kind)
	if err != nil {
		return dto.StackResult{}, err
	}

	log.Debug("destroying stack")
	progress := newLogWriter(log)
	defer progress.Flush()

	res, err := s.Destroy(ctx, optdestroy.ProgressStreams(progress))
	if err != nil {
		return dto.StackResult{}, wrapError(stackName, err)
	}

	result := dto.StackResult{Changes: helpers.Value(res.Summary.ResourceChanges)}

	if err := s.Workspace().RemoveStack(ctx, stackName); err != nil {
		log.Warn("stack destroyed but not removed", "error", err)
	}
	return result, nil
}

// Protected reports whether any resource in the stack state is protected.
func (a *Adapter) Protected(ctx context.Context, stackName string, kind dto.StackKind) (bool, error) {
	s, err := a.selectStack(ctx, stackName, kind)
	if err != nil {
		return false, err
	}
	_, deployment, err := exportState(ctx, s)
	if err != nil {
		return false, err
	}
	for _, r := range deployment.Resources {
		if r.Protect {
			return true, nil
		}
	}
	return false, nil
}

// Unprotect clears the protect flag on every resource in the stack state.
func (a *Adapter) Unprotect(ctx context.Context, stackName string, kind dto.StackKind) error {
	s, err := a.selectStack(ctx, stackName, kind)
	if err != nil {
		return err
	}

	state, deployment, err := exportState(ctx, s)
	if err != nil {
		return err
	}
	for i := range deployment.Resources {
		deployment.Resources[i].Protect = false
	}

	raw, err := json.Marshal(deployment)
	if err != nil {
		return fmt.Errorf("encode state of %s: %w", stackName, err)
	}
	state.Deployment = raw

	if err := s.Import(ctx, state); err != nil {
		return wrapError(stackName, err)
	}
	return nil
}

// WhoAmI returns the user of the configured Pulumi backend.
func (a *Adapter) WhoAmI(ctx context.Context) (string, error) {
	ws, err := auto.NewLocalWorkspace(ctx, a.workspaceOptions()...)
	if err != nil {
		return "", err
	}
	return ws.WhoAmI(ctx)
}

func (a *Adapter) selectStack(ctx context.Context, stackName string, kind dto.StackKind) (auto.Stack, error) {
	s, err := auto.SelectStackInlineSource(ctx, stackName, a.project, program(kind), a.workspaceOptions()...)
	if err != nil {
		return auto.Stack{}, wrapError(stackName, err)
	}
	return s, nil
}

func (a *Adapter) workspaceOptions() []auto.LocalWorkspaceOption {
	if a.backendURL == "" {
		return nil
	}
	return []auto.LocalWorkspaceOption{
		auto.EnvVars(map[string]string{"PULUMI_BACKEND_URL": a.backendURL}),
	}
}

func (a *Adapter) installPlugins(ctx context.Context, ws auto.Workspace) error {
	a.pluginOnce.Do(func() {
		logger.FromContext(ctx).Debug("installing plugin", "plugin", gcpPlugin, "version", gcpPluginVersion)
		if err := ws.InstallPlugin(ctx, gcpPlugin, gcpPluginVersion); err != nil {
			a.pluginErr = fmt.Errorf("install %s plugin: %w", gcpPlugin, err)
		}
	})
	return a.pluginErr
}

func program(kind dto.StackKind) pulumi.RunFunc {
	if kind == dto.DataStack {
		return stack.DataProgram()
	}
	return stack.IdentityProgram()
}

func toConfigMap(values map[string]string) auto.ConfigMap {
	cfg := make(auto.ConfigMap, len(values))
	for k, v := range values {
		cfg[k] = auto.ConfigValue{Value: v}
	}
	return cfg
}

func exportState(ctx context.Context, s auto.Stack) (apitype.UntypedDeployment, apitype.DeploymentV3, error) {
	var deployment apitype.DeploymentV3
	state, err := s.Export(ctx)
	if err != nil {
		return state, deployment, wrapError(s.Name(), err)
	}
	if err := json.Unmarshal(state.Deployment, &deployment); err != nil {
		return state, deployment, fmt.Errorf("decode state of %s: %w", s.Name(), err)
	}
	return state, deployment, nil
}
