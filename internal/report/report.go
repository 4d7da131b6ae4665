// Package report renders run outcomes for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)
)

type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Deployment prints the succeeded / warned / failed buckets in declared
// environment order, followed by secrets and the manifest location.
func (p *Printer) Deployment(r *models.DeploymentReport, envs []string) {
	p.line("")
	p.line(bold.Sprint("Deployment summary"))

	for _, env := range envs {
		if err, ok := r.Failed[env]; ok {
			p.line("%s %s  %s", red.Sprint("✗"), bold.Sprint(env), err)
			continue
		}
		h, ok := r.Handles[env]
		if !ok {
			continue
		}
		mark := green.Sprint("✓")
		if _, warned := r.Warned[env]; warned {
			mark = yellow.Sprint("⚠")
		}
		p.line("%s %s  %s  %s", mark, bold.Sprint(env), h.ProjectID, gray.Sprint(formatChanges(h.Changes)))
		p.line("    %s", cyan.Sprint(h.ConsoleURL()))
		p.line("    web API key: %s", keyState(h.WebAPIKey))
		for _, w := range r.Warned[env] {
			p.line("    %s %s", yellow.Sprint("⚠"), w)
		}
	}

	p.line("")
	if len(r.SecretsFailed) == 0 {
		p.line("%s %d GitHub secrets published", green.Sprint("✓"), r.SecretsPublished)
	} else {
		p.line("%s %d GitHub secrets published, %d failed", red.Sprint("✗"), r.SecretsPublished, len(r.SecretsFailed))
		for _, name := range sortedKeys(r.SecretsFailed) {
			p.line("    %s: %v", name, r.SecretsFailed[name])
		}
	}
	if r.EscrowWritten > 0 {
		p.line("%s %d signing fields escrowed in Secret Manager", green.Sprint("✓"), r.EscrowWritten)
	}
	if r.ManifestPath != "" {
		p.line("%s outputs written to %s", cyan.Sprint("→"), r.ManifestPath)
	}
	p.line("%s %d succeeded, %d warned, %d failed  %s",
		bold.Sprint("Result:"), len(r.Succeeded), len(r.Warned), len(r.Failed), gray.Sprint(formatChanges(r.Changes)))
	if len(r.Failed) > 0 {
		p.line("%s failed environments were left as-is; re-run deploy or destroy them", yellow.Sprint("⚠"))
	}
}

func (p *Printer) Destroy(stack string, r *models.DestroyResult) {
	p.line("%s destroyed %s (%s)  %s", green.Sprint("✓"), bold.Sprint(stack), strings.Join(r.Stacks, ", "), gray.Sprint(formatChanges(r.Changes)))
}

func (p *Printer) Verify(r *models.VerifyResult) {
	for _, env := range r.Verified {
		p.line("%s %s  credentials accepted", green.Sprint("✓"), bold.Sprint(env))
	}
	for _, env := range sortedKeys(r.Failed) {
		p.line("%s %s  %v", red.Sprint("✗"), bold.Sprint(env), r.Failed[env])
	}
}

func (p *Printer) Error(d errs.Description) {
	p.line("%s %s", red.Sprint("✗"), d.Message)
	if d.Hint != "" {
		p.line("  %s %s", gray.Sprint("hint:"), d.Hint)
	}
}

func (p *Printer) line(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", a...)
}

// keyState never prints the key itself; it is a stack secret and lives in
// the manifest.
func keyState(k models.APIKey) string {
	if !k.Available {
		return "unavailable"
	}
	return "available (see manifest)"
}

func formatChanges(changes map[string]int) string {
	if len(changes) == 0 {
		return "no changes"
	}
	parts := make([]string, 0, len(changes))
	for _, op := range sortedKeys(changes) {
		parts = append(parts, fmt.Sprintf("%s=%d", op, changes[op]))
	}
	return strings.Join(parts, " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
