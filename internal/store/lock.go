package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/stepanic/flutter-firebase-starter/internal/config"
	"github.com/stepanic/flutter-firebase-starter/internal/errs"
)

// RunLock guarantees one active run per deployment identity on this machine.
type RunLock struct {
	path string
}

// LockPath names the lock after the slug of the base name, so separators in
// the configured name never leave dir.
func LockPath(dir, baseName string) string {
	return filepath.Join(dir, fmt.Sprintf(".firebase-infra-%s.lock", config.Slug(baseName)))
}

// AcquireLock creates the lock file exclusively. An existing file means
// another run owns the deployment.
func AcquireLock(dir, baseName string) (*RunLock, error) {
	path := LockPath(dir, baseName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			owner, _ := os.ReadFile(path)
			return nil, errs.NewConcurrentRunError(fmt.Sprintf(
				"another run holds %s (%s); remove the file if that run is gone", path, string(owner)))
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	defer f.Close()

	_, _ = f.WriteString("pid " + strconv.Itoa(os.Getpid()) + " since " + time.Now().UTC().Format(time.RFC3339))
	return &RunLock{path: path}, nil
}

func (l *RunLock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Locker hands out run locks rooted at one directory.
type Locker struct {
	dir string
}

func NewLocker(dir string) *Locker {
	return &Locker{dir: dir}
}

func (l *Locker) Lock(baseName string) (func() error, error) {
	lk, err := AcquireLock(l.dir, baseName)
	if err != nil {
		return nil, err
	}
	return lk.Release, nil
}
