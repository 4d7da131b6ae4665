package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/internal/models"
)

func TestManifestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firebase-infrastructure-outputs.json")
	s := NewManifestStore(path)

	m := models.NewOutputManifest()
	m.Set("dev_projectId", "acme-dev")
	m.SetSecret("dev_serviceAccountKey", `{"type":"service_account"}`)

	if err := s.Write(m); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat manifest: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("manifest perm = %v, want 0600", info.Mode().Perm())
	}

	raw, _ := os.ReadFile(path)
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		t.Fatalf("manifest is not a flat JSON object: %v", err)
	}
	if flat["dev_serviceAccountKey"] != `{"type":"service_account"}` {
		t.Fatalf("unexpected manifest contents: %v", flat)
	}

	read, err := s.Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if e, ok := read.Get("dev_projectId"); !ok || e.Value != "acme-dev" {
		t.Fatalf("dev_projectId = %+v", e)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected only the manifest in dir, found %d entries", len(entries))
	}
}

func TestManifestReadMissing(t *testing.T) {
	_, err := NewManifestStore(filepath.Join(t.TempDir(), "nope.json")).Read()

	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRunLockIsExclusive(t *testing.T) {
	dir := t.TempDir()

	first, err := AcquireLock(dir, "acme")
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	_, err = AcquireLock(dir, "acme")
	var cr *errs.ConcurrentRunError
	if !errors.As(err, &cr) {
		t.Fatalf("expected ConcurrentRunError, got %v", err)
	}

	other, err := AcquireLock(dir, "other")
	if err != nil {
		t.Fatalf("locks of different deployments must not conflict: %v", err)
	}
	_ = other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	again, err := AcquireLock(dir, "acme")
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	_ = again.Release()
}

func TestRunLockWithSeparatorInBaseName(t *testing.T) {
	dir := t.TempDir()

	if got, want := LockPath(dir, "Acme/Mobile App"), filepath.Join(dir, ".firebase-infra-acmemobile-app.lock"); got != want {
		t.Fatalf("LockPath = %q, want %q", got, want)
	}

	lk, err := AcquireLock(dir, "Acme/Mobile App")
	if err != nil {
		t.Fatalf("acquire with separator failed: %v", err)
	}
	if err := lk.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
}
