package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
)

const manifestPerm = 0o600

type ManifestStore struct {
	path string
}

func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: path}
}

func (s *ManifestStore) Path() string {
	return s.path
}

// Write replaces the manifest atomically. The file holds credentials and is
// only readable by the owner.
func (s *ManifestStore) Write(m *models.OutputManifest) error {
	raw, err := json.MarshalIndent(m.Flat(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	raw = append(raw, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(manifestPerm); err != nil {
		tmp.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Read loads a manifest written by Write. Secret markers are not persisted.
func (s *ManifestStore) Read() (*models.OutputManifest, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NewNotFoundError(fmt.Sprintf("manifest %s not found", s.path))
		}
		return nil, err
	}

	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", s.path, err)
	}

	m := models.NewOutputManifest()
	for k, v := range flat {
		m.Set(k, v)
	}
	return m, nil
}
