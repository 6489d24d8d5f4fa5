// Package runlock serialises runs that write to the same location. Locks are
// advisory flock(2) files, so they disappear with the process that held them.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"mediasweep/internal/services"
)

// Lock is a held run lock.
type Lock struct {
	path  string
	key   string
	flock *flock.Flock
}

// Path returns the lock file location.
func Path(dir, scope, key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(dir, fmt.Sprintf("%s-%s.lock", scope, hex.EncodeToString(sum[:])[:16]))
}

// Acquire takes the exclusive lock for key within scope without blocking. A
// lock already held by another run is reported as a validation failure.
func Acquire(dir, scope, key string) (*Lock, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, fmt.Errorf("runlock: scope is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "runlock", "create lock dir", dir, err)
	}
	path := Path(dir, scope, key)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "runlock", "acquire", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("another %s run is already using %s", scope, key), nil)
	}
	return &Lock{path: path, key: key, flock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release drops the lock. It is safe to call on a nil lock and more than once.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}
