package auth

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
)

// GitHubToken returns the configured token, falling back to the gh CLI.
func GitHubToken(ctx context.Context, configured string) (string, error) {
	if t := strings.TrimSpace(configured); t != "" {
		return t, nil
	}
	return ghToken(ctx, "gh")
}

func ghToken(ctx context.Context, bin string) (string, error) {
	const hint = "set githubToken, export GITHUB_TOKEN, or run `gh auth login`"

	path, err := exec.LookPath(bin)
	if err != nil {
		return "", errs.NewAuthenticationError("GitHub", hint, nil)
	}
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "auth", "token")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", errs.NewAuthenticationError("GitHub", hint, err)
	}
	token := strings.TrimSpace(out.String())
	if token == "" {
		return "", errs.NewAuthenticationError("GitHub", hint, nil)
	}
	return token, nil
}
