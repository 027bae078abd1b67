package infra

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
)

const lockRetryDelay = 200 * time.Millisecond

// PassLock implements domain.PassGate with advisory file locks, so two
// deskorg processes never organize the same directory at once. Lock files
// live outside the scan target.
type PassLock struct {
	dir    string
	logger *zap.Logger
}

// NewPassLock creates a pass lock keeping its lock files in dir.
func NewPassLock(dir string, logger *zap.Logger) *PassLock {
	return &PassLock{dir: dir, logger: logger}
}

// DefaultLockDir returns the per-user directory for pass lock files.
func DefaultLockDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "deskorg", "locks")
}

// LockPath returns the lock file used for target.
func (l *PassLock) LockPath(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = filepath.Clean(target)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(l.dir, hex.EncodeToString(sum[:])[:16]+".lock")
}

// Acquire blocks until the lock for target is held or ctx is done.
func (l *PassLock) Acquire(ctx context.Context, target string) (func(), error) {
	if err := os.MkdirAll(l.dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	path := l.LockPath(target)
	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire pass lock %s: %w", path, err)
	}
	if !ok {
		return nil, errors.New("pass lock not acquired: " + path)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			l.logger.Warn("failed to release pass lock", zap.String("lock", path), zap.Error(err))
		}
	}, nil
}

// Ensure PassLock implements domain.PassGate.
var _ domain.PassGate = (*PassLock)(nil)
