package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/rules"
)

// Workspace is the single owned configuration object: the scan target and
// rule table, plus the lock that serializes passes against each other and
// against rule edits. The scheduler loop and manual triggers both go
// through RunPass.
type Workspace struct {
	mu        sync.Mutex
	target    string
	table     *rules.Table
	organizer domain.Organizer
	gate      domain.PassGate
	notifier  domain.Notifier
	logger    *zap.Logger
}

// WorkspaceOption configures optional collaborators.
type WorkspaceOption func(*Workspace)

// WithPassGate adds cross-process pass exclusion.
func WithPassGate(g domain.PassGate) WorkspaceOption {
	return func(w *Workspace) { w.gate = g }
}

// WithNotifier sets the receiver of per-pass digests.
func WithNotifier(n domain.Notifier) WorkspaceOption {
	return func(w *Workspace) { w.notifier = n }
}

// NewWorkspace creates a workspace owning table. Callers must not edit
// table directly afterwards.
func NewWorkspace(target string, table *rules.Table, organizer domain.Organizer, logger *zap.Logger, opts ...WorkspaceOption) *Workspace {
	if table == nil {
		table = rules.NewTable()
	}
	w := &Workspace{
		target:    expandTarget(target),
		table:     table,
		organizer: organizer,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RunPass runs one organize pass over the current target. It blocks while
// another pass or a rule edit is in progress.
func (w *Workspace) RunPass(ctx context.Context) (*domain.PassSummary, error) {
	return w.pass(ctx, false)
}

// PlanPass reports what RunPass would do without moving anything.
func (w *Workspace) PlanPass(ctx context.Context) (*domain.PassSummary, error) {
	return w.pass(ctx, true)
}

func (w *Workspace) pass(ctx context.Context, dryRun bool) (*domain.PassSummary, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.gate != nil {
		release, err := w.gate.Acquire(ctx, w.target)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	if dryRun {
		return w.organizer.PlanPass(ctx, w.target, w.table)
	}

	summary, err := w.organizer.RunPass(ctx, w.target, w.table)
	if err != nil {
		return nil, err
	}
	if w.notifier != nil {
		w.notifier.Notify(ctx, summary.Notification())
	}
	return summary, nil
}

// CheckTarget validates the current scan target without side effects.
func (w *Workspace) CheckTarget() error {
	w.mu.Lock()
	target := w.target
	w.mu.Unlock()
	return ValidateScanTarget(os.Stat, target)
}

// Target returns the scan target.
func (w *Workspace) Target() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// SetTarget changes the scan target used by subsequent passes.
func (w *Workspace) SetTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return domain.With(domain.ErrInvalidScanTarget, "empty monitor directory")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.target = expandTarget(target)
	w.logger.Info("monitor directory changed", zap.String("target", target))
	return nil
}

// Categories returns a copy of the rule table contents.
func (w *Workspace) Categories() []domain.Category {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.table.Categories()
}

// Rules returns a deep copy of the rule table.
func (w *Workspace) Rules() *rules.Table {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.table.Clone()
}

// Classify classifies filename against the current rules.
func (w *Workspace) Classify(filename string) domain.Classification {
	w.mu.Lock()
	defer w.mu.Unlock()
	return rules.NewClassifier(w.table).Classify(filename)
}

// AddCategory adds an empty category.
func (w *Workspace) AddCategory(name string) error {
	return w.edit("add category", func(t *rules.Table) error { return t.AddCategory(name) })
}

// RemoveCategory removes a category. Its folder and contents stay on disk.
func (w *Workspace) RemoveCategory(name string) error {
	return w.edit("remove category", func(t *rules.Table) error { return t.RemoveCategory(name) })
}

// AddExtension registers ext under category.
func (w *Workspace) AddExtension(category, ext string) error {
	return w.edit("add extension", func(t *rules.Table) error { return t.AddExtension(category, ext) })
}

// RemoveExtension unregisters ext from category.
func (w *Workspace) RemoveExtension(category, ext string) error {
	return w.edit("remove extension", func(t *rules.Table) error { return t.RemoveExtension(category, ext) })
}

func (w *Workspace) edit(op string, fn func(*rules.Table) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := fn(w.table); err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	w.logger.Debug("rules updated", zap.String("op", op))
	return nil
}

// expandTarget resolves ~ once so the pass lock, CheckTarget and the
// organizer all see the same path.
func expandTarget(target string) string {
	home, _ := os.UserHomeDir()
	return domain.ExpandHome(target, home)
}
