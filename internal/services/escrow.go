package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/stepanic/flutter-firebase-starter/internal/models"
	"github.com/stepanic/flutter-firebase-starter/pkg/logger"
)

type secretVersionWriter interface {
	AddVersion(ctx context.Context, projectID, secretID string, value []byte) (string, error)
}

type escrowService struct {
	writer secretVersionWriter
}

func NewEscrowService(writer secretVersionWriter) *escrowService {
	return &escrowService{writer: writer}
}

// Escrow copies the signing material into the environment's Secret Manager
// containers created by the identity stack.
func (s *escrowService) Escrow(ctx context.Context, h *models.EnvironmentHandle, m *models.SigningMaterial) (int, error) {
	log := logger.FromContext(ctx).With("environment", h.Environment)

	values := map[string]string{
		"keystore":      m.Keystore,
		"storePassword": m.StorePassword,
		"keyPassword":   m.KeyPassword,
		"keyAlias":      m.KeyAlias,
	}

	fields := make([]string, 0, len(h.EscrowSecrets))
	for field := range h.EscrowSecrets {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	written := 0
	for _, field := range fields {
		value, ok := values[field]
		if !ok {
			continue
		}
		version, err := s.writer.AddVersion(ctx, h.ProjectID, h.EscrowSecrets[field], []byte(value))
		if err != nil {
			return written, fmt.Errorf("escrow %s: %w", field, err)
		}
		log.Debug("escrowed signing field", "field", field, "version", version)
		written++
	}
	return written, nil
}
