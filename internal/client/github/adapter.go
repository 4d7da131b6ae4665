package githubclient

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/go-github/v75/github"
	"golang.org/x/crypto/nacl/box"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
)

const authHint = "export GITHUB_TOKEN or run `gh auth login`"

type Adapter struct {
	client *github.Client

	mu   sync.Mutex
	keys map[string]*github.PublicKey
}

func NewAdapter(token string) *Adapter {
	return &Adapter{
		client: github.NewClient(nil).WithAuthToken(token),
		keys:   make(map[string]*github.PublicKey),
	}
}

// UpsertSecret creates or replaces one Actions secret. Writing the same value
// twice leaves the repository unchanged.
func (a *Adapter) UpsertSecret(ctx context.Context, repo models.Repository, name, value string) error {
	key, err := a.publicKey(ctx, repo)
	if err != nil {
		return err
	}

	sealed, err := encryptSecret(value, key.GetKey())
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", name, err)
	}

	_, err = a.client.Actions.CreateOrUpdateRepoSecret(ctx, repo.Owner, repo.Name, &github.EncryptedSecret{
		Name:           name,
		KeyID:          key.GetKeyID(),
		EncryptedValue: sealed,
	})
	if err != nil {
		return wrapError(fmt.Sprintf("write secret %s to %s", name, repo), err)
	}
	return nil
}

// CurrentUser validates the token and returns its login.
func (a *Adapter) CurrentUser(ctx context.Context) (string, error) {
	user, _, err := a.client.Users.Get(ctx, "")
	if err != nil {
		return "", wrapError("get current user", err)
	}
	return user.GetLogin(), nil
}

func (a *Adapter) publicKey(ctx context.Context, repo models.Repository) (*github.PublicKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if key, ok := a.keys[repo.String()]; ok {
		return key, nil
	}
	key, _, err := a.client.Actions.GetRepoPublicKey(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("get public key of %s", repo), err)
	}
	a.keys[repo.String()] = key
	return key, nil
}

// encryptSecret seals plaintext for the repository key (libsodium sealed box).
func encryptSecret(plaintext, b64PublicKey string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(b64PublicKey)
	if err != nil {
		return "", fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != 32 {
		return "", fmt.Errorf("public key must be 32 bytes, got %d", len(raw))
	}

	var pk [32]byte
	copy(pk[:], raw)
	sealed, err := box.SealAnonymous(nil, []byte(plaintext), &pk, rand.Reader)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func wrapError(op string, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return errs.NewAuthenticationError("GitHub", authHint, err)
		case http.StatusNotFound:
			return errs.NewNotFoundError(fmt.Sprintf("%s: repository not found or token lacks access", op))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
