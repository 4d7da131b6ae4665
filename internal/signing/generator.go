package signing

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thanhpk/randstr"

	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

const (
	PasswordLength      = 32
	DefaultValidityDays = 10000
	DefaultKeySize      = 2048

	passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_.+=@#%"
)

type Request struct {
	Alias        string
	Organization string
	CommonName   string
	ValidityDays int
	KeySize      int
}

// KeyPairSpec is what a Tool needs to write one keystore.
type KeyPairSpec struct {
	Path          string
	Alias         string
	DName         string
	StorePassword string
	KeyPassword   string
	ValidityDays  int
	KeySize       int
}

// Tool writes a keystore holding a single RSA key pair.
type Tool interface {
	GenerateKeyPair(ctx context.Context, spec KeyPairSpec) error
}

type Generator struct {
	tool     Tool
	password func() string
	tempDir  string
}

func NewGenerator(tool Tool) *Generator {
	return &Generator{
		tool:     tool,
		password: newPassword,
	}
}

// Generate creates the one signing identity of a run. The keystore file only
// exists inside a private temp dir for the duration of the call.
func (g *Generator) Generate(ctx context.Context, req Request) (*models.SigningMaterial, error) {
	log := logger.FromContext(ctx)

	if req.ValidityDays == 0 {
		req.ValidityDays = DefaultValidityDays
	}
	if req.KeySize == 0 {
		req.KeySize = DefaultKeySize
	}

	dir, err := os.MkdirTemp(g.tempDir, "ffs-keystore-")
	if err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	defer os.RemoveAll(dir)

	spec := KeyPairSpec{
		Path:          filepath.Join(dir, "upload-keystore.jks"),
		Alias:         req.Alias,
		DName:         distinguishedName(req),
		StorePassword: g.password(),
		KeyPassword:   g.password(),
		ValidityDays:  req.ValidityDays,
		KeySize:       req.KeySize,
	}

	log.Debug("generating upload key", "alias", spec.Alias, "keySize", spec.KeySize)
	if err := g.tool.GenerateKeyPair(ctx, spec); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("keystore %s is empty", filepath.Base(spec.Path))
	}

	return &models.SigningMaterial{
		KeyAlias:      spec.Alias,
		Keystore:      base64.StdEncoding.EncodeToString(raw),
		StorePassword: spec.StorePassword,
		KeyPassword:   spec.KeyPassword,
	}, nil
}

func newPassword() string {
	return randstr.String(PasswordLength, passwordAlphabet)
}

func distinguishedName(req Request) string {
	cn := req.CommonName
	if cn == "" {
		cn = req.Organization
	}
	return fmt.Sprintf("CN=%s, O=%s", escapeDN(cn), escapeDN(req.Organization))
}

func escapeDN(v string) string {
	out := make([]rune, 0, len(v))
	for _, r := range v {
		switch r {
		case ',', '+', '"', '\\', '<', '>', ';', '=':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
