package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

func InitFirestore(ctx context.Context, projectID string, credentialsJSON []byte) (*firestore.Client, error) {
	return firestore.NewClient(ctx, projectID, option.WithCredentialsJSON(credentialsJSON))
}
