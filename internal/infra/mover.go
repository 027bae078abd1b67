package infra

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
)

// MaxCollisionSuffix bounds the name_N search in a destination directory.
const MaxCollisionSuffix = 9999

// Mover implements domain.Mover with same-filesystem renames.
type Mover struct {
	rename func(src, dst string) error
	exists func(path string) bool
	logger *zap.Logger
}

// NewMover creates a mover that never overwrites an existing file.
func NewMover(logger *zap.Logger) *Mover {
	return &Mover{
		rename: renameNoReplace,
		exists: lexists,
		logger: logger,
	}
}

// ResolveDestination returns the first free path for sourcePath in destDir:
// name.ext, then name_1.ext, name_2.ext, ...
func (m *Mover) ResolveDestination(sourcePath, destDir string) (string, error) {
	name := filepath.Base(sourcePath)
	for n := 0; n <= MaxCollisionSuffix; n++ {
		candidate := filepath.Join(destDir, SuffixedName(name, n))
		if !m.exists(candidate) {
			return candidate, nil
		}
	}
	return "", domain.With(domain.ErrCollisionExhausted, "%q in %q", name, destDir)
}

// ResolveAndMove moves sourcePath into destDir. On any failure the file
// stays where it was and the outcome carries the cause.
func (m *Mover) ResolveAndMove(sourcePath, destDir string) domain.MoveOutcome {
	if _, err := os.Lstat(sourcePath); err != nil {
		return m.fail(sourcePath, err)
	}

	name := filepath.Base(sourcePath)
	for n := 0; n <= MaxCollisionSuffix; n++ {
		candidate := filepath.Join(destDir, SuffixedName(name, n))
		if m.exists(candidate) {
			continue
		}
		err := m.rename(sourcePath, candidate)
		if err == nil {
			m.logger.Debug("moved file",
				zap.String("source", sourcePath),
				zap.String("dest", candidate))
			return domain.Moved(sourcePath, candidate)
		}
		if errors.Is(err, fs.ErrExist) {
			// Name was taken after the probe; this suffix is spent.
			continue
		}
		return m.fail(sourcePath, err)
	}
	return m.fail(sourcePath, domain.With(domain.ErrCollisionExhausted, "%q in %q", name, destDir))
}

func (m *Mover) fail(sourcePath string, err error) domain.MoveOutcome {
	reason := FailureReason(err)
	m.logger.Warn("failed to move file",
		zap.String("source", sourcePath),
		zap.String("reason", reason),
		zap.Error(err))
	return domain.Failed(sourcePath, reason, domain.Wrap(domain.ErrMoveFailure, err, "move %q", sourcePath))
}

// FailureReason maps a move error to a stable failure code.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCollisionExhausted):
		return domain.ReasonCollisionsSpent
	case IsCrossDevice(err):
		return domain.ReasonCrossDevice
	case errors.Is(err, fs.ErrPermission):
		return domain.ReasonPermission
	case errors.Is(err, fs.ErrNotExist):
		return domain.ReasonSourceVanished
	default:
		return domain.ReasonIOError
	}
}

// SuffixedName returns name with "_n" inserted before its extension.
// n == 0 returns name unchanged. A leading dot is part of the stem, so
// ".env" becomes ".env_1".
func SuffixedName(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	if stem == "" {
		stem, ext = name, ""
	}
	return stem + "_" + strconv.Itoa(n) + ext
}

func lexists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Ensure Mover implements domain.Mover.
var _ domain.Mover = (*Mover)(nil)
