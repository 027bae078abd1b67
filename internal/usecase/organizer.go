// Package usecase contains application business logic.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/rules"
)

// OrganizerImpl implements domain.Organizer.
type OrganizerImpl struct {
	fsManager domain.FileSystemManager
	mover     domain.Mover
	logger    *zap.Logger
}

// NewOrganizer creates a new organizer.
func NewOrganizer(fs domain.FileSystemManager, mover domain.Mover, logger *zap.Logger) *OrganizerImpl {
	return &OrganizerImpl{
		fsManager: fs,
		mover:     mover,
		logger:    logger,
	}
}

// RunPass organizes target once.
func (o *OrganizerImpl) RunPass(ctx context.Context, target string, rs domain.RuleSet) (*domain.PassSummary, error) {
	return o.run(ctx, target, rs, false)
}

// PlanPass reports what RunPass would do. It creates no directories and moves nothing.
func (o *OrganizerImpl) PlanPass(ctx context.Context, target string, rs domain.RuleSet) (*domain.PassSummary, error) {
	return o.run(ctx, target, rs, true)
}

func (o *OrganizerImpl) run(ctx context.Context, target string, rs domain.RuleSet, dryRun bool) (*domain.PassSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target = o.fsManager.ExpandHome(target)
	if err := ValidateScanTarget(o.fsManager.Stat, target); err != nil {
		return nil, err
	}
	target = filepath.Clean(target)

	start := time.Now()
	summary := &domain.PassSummary{
		PassID:     uuid.NewString(),
		Target:     target,
		Moved:      make([]domain.MoveOutcome, 0),
		Skipped:    make([]domain.MoveOutcome, 0),
		Failures:   make([]domain.Failure, 0),
		ExecutedAt: start,
		DryRun:     dryRun,
	}
	logger := o.logger.With(
		zap.String("pass_id", summary.PassID),
		zap.String("target", target))
	logger.Debug("running organize pass", zap.Bool("dry_run", dryRun))

	managed := managedDirNames(rs)
	var dirErrs map[string]error
	if !dryRun {
		dirErrs = o.ensureDirectories(target, managed, logger)
	}

	entries, err := o.fsManager.ReadDir(target)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan target %q: %w", target, err)
	}

	classifier := rules.NewClassifier(rs)
	isManaged := make(map[string]struct{}, len(managed))
	for _, name := range managed {
		isManaged[name] = struct{}{}
	}

	for _, entry := range entries {
		src := filepath.Join(target, entry.Name())

		if reason, skip := o.skipReason(src, entry, isManaged); skip {
			logger.Debug("skipping entry", zap.String("path", src), zap.String("reason", reason))
			summary.Skipped = append(summary.Skipped, domain.Skipped(src, reason))
			continue
		}

		dirName := classifier.Classify(entry.Name()).DirName()
		destDir := filepath.Join(target, dirName)

		var outcome domain.MoveOutcome
		switch {
		case dirErrs[dirName] != nil:
			outcome = domain.Failed(src, domain.ReasonDestUnavailable,
				domain.Wrap(domain.ErrMoveFailure, dirErrs[dirName], "destination %q", destDir))
		case dryRun:
			outcome = o.plan(src, destDir)
		default:
			outcome = o.mover.ResolveAndMove(src, destDir)
		}
		record(summary, outcome)
	}

	summary.DurationMs = time.Since(start).Milliseconds()

	logger.Info("organize pass completed",
		zap.Int("moved", summary.FilesMoved),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int("failed", len(summary.Failures)),
		zap.Int64("duration_ms", summary.DurationMs),
		zap.Bool("dry_run", dryRun))

	return summary, nil
}

// ensureDirectories creates the category folders and the Unclassified folder.
// A folder that cannot be created only fails the items bound for it.
func (o *OrganizerImpl) ensureDirectories(target string, names []string, logger *zap.Logger) map[string]error {
	errs := make(map[string]error)
	for _, name := range names {
		dir := filepath.Join(target, name)
		if err := o.fsManager.MkdirAll(dir); err != nil {
			logger.Warn("failed to create category directory",
				zap.String("dir", dir),
				zap.Error(err))
			errs[name] = err
		}
	}
	return errs
}

func (o *OrganizerImpl) plan(src, destDir string) domain.MoveOutcome {
	dest, err := o.mover.ResolveDestination(src, destDir)
	if err != nil {
		reason := domain.ReasonIOError
		if errors.Is(err, domain.ErrCollisionExhausted) {
			reason = domain.ReasonCollisionsSpent
		}
		return domain.Failed(src, reason, domain.Wrap(domain.ErrMoveFailure, err, "plan %q", src))
	}
	return domain.Moved(src, dest)
}

// skipReason applies the directory policy: hidden entries and every
// directory (managed category folders included) are left alone, as are
// sockets, devices and pipes. Symlinks to directories count as directories.
func (o *OrganizerImpl) skipReason(path string, entry fs.DirEntry, managed map[string]struct{}) (string, bool) {
	name := entry.Name()
	if entry.IsDir() {
		if _, ok := managed[norm.NFC.String(name)]; ok {
			return domain.ReasonManagedDir, true
		}
		if strings.HasPrefix(name, ".") {
			return domain.ReasonHidden, true
		}
		return domain.ReasonDirectory, true
	}
	if strings.HasPrefix(name, ".") {
		return domain.ReasonHidden, true
	}

	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		if info, err := o.fsManager.Stat(path); err == nil && info.IsDir() {
			return domain.ReasonDirectory, true
		}
		return "", false
	}
	if !mode.IsRegular() {
		return domain.ReasonNotRegular, true
	}
	return "", false
}

func record(summary *domain.PassSummary, outcome domain.MoveOutcome) {
	switch outcome.Status {
	case domain.MoveMoved:
		summary.FilesMoved++
		summary.Moved = append(summary.Moved, outcome)
	case domain.MoveSkipped:
		summary.Skipped = append(summary.Skipped, outcome)
	case domain.MoveFailed:
		f := domain.Failure{Item: outcome.SourcePath, Reason: outcome.Reason}
		if outcome.Err != nil {
			f.Detail = outcome.Err.Error()
		}
		summary.Failures = append(summary.Failures, f)
	}
}

// managedDirNames returns the category folder names plus the Unclassified folder.
func managedDirNames(rs domain.RuleSet) []string {
	names := rs.CategoryNames()
	out := make([]string, 0, len(names)+1)
	for _, n := range names {
		out = append(out, norm.NFC.String(n))
	}
	return append(out, domain.UnclassifiedDir)
}

// ValidateScanTarget checks that target exists and is a directory.
func ValidateScanTarget(stat func(string) (fs.FileInfo, error), target string) error {
	if strings.TrimSpace(target) == "" {
		return domain.With(domain.ErrInvalidScanTarget, "no monitor directory configured")
	}
	info, err := stat(target)
	if err != nil {
		return domain.Wrap(domain.ErrInvalidScanTarget, err, "monitor directory %q", target)
	}
	if !info.IsDir() {
		return domain.With(domain.ErrInvalidScanTarget, "%q is not a directory", target)
	}
	return nil
}

// Ensure OrganizerImpl implements domain.Organizer.
var _ domain.Organizer = (*OrganizerImpl)(nil)
