package secretmanagerclient

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

type Adapter struct {
	client *secretmanager.Client
}

func NewAdapter(ctx context.Context) (*Adapter, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: client}, nil
}

// AddVersion stores value as the newest version of an existing secret.
func (a *Adapter) AddVersion(ctx context.Context, projectID, secretID string, value []byte) (string, error) {
	parent := fmt.Sprintf("projects/%s/secrets/%s", projectID, secretID)
	v, err := a.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: parent,
		Payload: &secretmanagerpb.SecretPayload{
			Data: value,
		},
	})
	if err != nil {
		return "", fmt.Errorf("add version to %s: %w", parent, err)
	}
	return v.GetName(), nil
}

func (a *Adapter) Close() error {
	return a.client.Close()
}
