package models

import (
	"slices"
)

// DeploymentReport partitions a run into succeeded, warned and failed.
type DeploymentReport struct {
	Succeeded        []string
	Warned           map[string][]string
	Failed           map[string]error
	Handles          map[string]*EnvironmentHandle
	SecretsPublished int
	SecretsFailed    map[string]error
	EscrowWritten    int
	ManifestPath     string
	Changes          map[string]int
}

func NewDeploymentReport() *DeploymentReport {
	return &DeploymentReport{
		Warned:        make(map[string][]string),
		Failed:        make(map[string]error),
		Handles:       make(map[string]*EnvironmentHandle),
		SecretsFailed: make(map[string]error),
		Changes:       make(map[string]int),
	}
}

// OK is true when nothing failed. Warnings do not fail a run.
func (r *DeploymentReport) OK() bool {
	return len(r.Failed) == 0 && len(r.SecretsFailed) == 0
}

// Warn moves env into the warned bucket. Failed environments stay failed.
func (r *DeploymentReport) Warn(env, warning string) {
	if _, failed := r.Failed[env]; failed {
		return
	}
	r.Succeeded = slices.DeleteFunc(r.Succeeded, func(e string) bool { return e == env })
	r.Warned[env] = append(r.Warned[env], warning)
}

// CredentialCheck is what verify exercises for one environment. The key is
// always exchanged for a token; each service read runs only when enabled.
type CredentialCheck struct {
	ProjectID   string
	Credentials []byte
	Auth        bool
	Firestore   bool
}

// VerifyResult is the outcome of checking each environment's CI credentials.
type VerifyResult struct {
	Verified []string
	Failed   map[string]error
}

func NewVerifyResult() *VerifyResult {
	return &VerifyResult{Failed: make(map[string]error)}
}

// DestroyResult summarizes a teardown.
type DestroyResult struct {
	Stacks  []string
	Changes map[string]int
}
