package signing

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/pkg/helpers"
)

type stubTool struct {
	calls int
	spec  KeyPairSpec
	err   error
}

func (s *stubTool) GenerateKeyPair(_ context.Context, spec KeyPairSpec) error {
	s.calls++
	s.spec = spec
	if err := os.WriteFile(spec.Path, []byte("jks-bytes"), 0o600); err != nil {
		return err
	}
	return s.err
}

func newTestGenerator(t *testing.T, tool Tool) (*Generator, string) {
	t.Helper()
	root := t.TempDir()
	g := NewGenerator(tool)
	g.tempDir = root
	return g, root
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, found %d (%s)", len(entries), entries[0].Name())
	}
}

func TestGenerateProducesMaterial(t *testing.T) {
	tool := &stubTool{}
	g, root := newTestGenerator(t, tool)

	m, err := g.Generate(helpers.TestCtx(), Request{Alias: "upload", Organization: "Acme, Inc"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if tool.calls != 1 {
		t.Fatalf("expected tool to be called once, got %d", tool.calls)
	}
	if m.KeyAlias != "upload" {
		t.Fatalf("alias = %q", m.KeyAlias)
	}
	raw, err := base64.StdEncoding.DecodeString(m.Keystore)
	if err != nil || string(raw) != "jks-bytes" {
		t.Fatalf("keystore not base64 of file contents: %q (%v)", m.Keystore, err)
	}
	if m.StorePassword == m.KeyPassword {
		t.Fatalf("store and key passwords must differ")
	}
	if tool.spec.ValidityDays != DefaultValidityDays || tool.spec.KeySize != DefaultKeySize {
		t.Fatalf("unexpected defaults: %+v", tool.spec)
	}
	if tool.spec.DName != `CN=Acme\, Inc, O=Acme\, Inc` {
		t.Fatalf("dname = %q", tool.spec.DName)
	}
	if filepath.Dir(filepath.Dir(tool.spec.Path)) != root {
		t.Fatalf("keystore written outside temp root: %s", tool.spec.Path)
	}

	assertEmptyDir(t, root)
}

func TestGenerateCleansUpOnFailure(t *testing.T) {
	tool := &stubTool{err: errors.New("keytool exploded")}
	g, root := newTestGenerator(t, tool)

	if _, err := g.Generate(helpers.TestCtx(), Request{Alias: "upload", Organization: "Acme"}); err == nil {
		t.Fatalf("expected error")
	}

	assertEmptyDir(t, root)
}

func TestPasswordShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		p := newPassword()
		if len(p) != PasswordLength {
			t.Fatalf("password length = %d, want %d", len(p), PasswordLength)
		}
		for _, r := range p {
			if !strings.ContainsRune(passwordAlphabet, r) {
				t.Fatalf("password contains %q outside alphabet", r)
			}
		}
	}
}

func TestKeytoolMissing(t *testing.T) {
	k := &Keytool{Path: "keytool-does-not-exist-ffs"}

	err := k.GenerateKeyPair(helpers.TestCtx(), KeyPairSpec{})

	var tm *errs.ToolMissingError
	if !errors.As(err, &tm) {
		t.Fatalf("expected ToolMissingError, got %v", err)
	}
}

func TestKeytoolPasswordsStayOutOfArgs(t *testing.T) {
	spec := KeyPairSpec{
		Path: "/tmp/upload.jks", Alias: "upload", DName: "CN=Acme",
		StorePassword: "store-secret-123", KeyPassword: "key-secret-456",
		KeySize: DefaultKeySize, ValidityDays: DefaultValidityDays,
	}

	cmd := NewKeytool().command(helpers.TestCtx(), "keytool", spec)

	for _, arg := range cmd.Args {
		if strings.Contains(arg, spec.StorePassword) || strings.Contains(arg, spec.KeyPassword) {
			t.Fatalf("password leaked into argv: %v", cmd.Args)
		}
	}
	env := strings.Join(cmd.Env, "\n")
	if !strings.Contains(env, storePassEnv+"="+spec.StorePassword) || !strings.Contains(env, keyPassEnv+"="+spec.KeyPassword) {
		t.Fatalf("passwords not passed through the environment")
	}
	if !slices.Contains(cmd.Args, "-storepass:env") || !slices.Contains(cmd.Args, "-keypass:env") {
		t.Fatalf("keytool not told to read passwords from the environment: %v", cmd.Args)
	}
}
