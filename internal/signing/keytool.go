package signing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
)

// Keytool shells out to the JDK keytool binary.
type Keytool struct {
	Path string
}

func NewKeytool() *Keytool {
	return &Keytool{Path: "keytool"}
}

func (k *Keytool) GenerateKeyPair(ctx context.Context, spec KeyPairSpec) error {
	bin, err := exec.LookPath(k.Path)
	if err != nil {
		return errs.NewToolMissingError(k.Path)
	}

	cmd := k.command(ctx, bin, spec)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("keytool exited with %d: %s", exitErr.ExitCode(), redact(stderr.String(), spec))
		}
		return fmt.Errorf("run keytool: %w", err)
	}
	return nil
}

// Passwords reach keytool through these variables, never through argv.
const (
	storePassEnv = "FFS_STOREPASS"
	keyPassEnv   = "FFS_KEYPASS"
)

func (k *Keytool) command(ctx context.Context, bin string, spec KeyPairSpec) *exec.Cmd {
	cmd := exec.CommandContext(ctx, bin,
		"-genkeypair",
		"-noprompt",
		"-storetype", "JKS",
		"-keyalg", "RSA",
		"-keysize", strconv.Itoa(spec.KeySize),
		"-validity", strconv.Itoa(spec.ValidityDays),
		"-alias", spec.Alias,
		"-dname", spec.DName,
		"-keystore", spec.Path,
		"-storepass:env", storePassEnv,
		"-keypass:env", keyPassEnv,
	)
	cmd.Env = append(os.Environ(),
		storePassEnv+"="+spec.StorePassword,
		keyPassEnv+"="+spec.KeyPassword,
	)
	return cmd
}

func redact(out string, spec KeyPairSpec) string {
	out = strings.ReplaceAll(out, spec.StorePassword, "***")
	out = strings.ReplaceAll(out, spec.KeyPassword, "***")
	return strings.TrimSpace(out)
}
