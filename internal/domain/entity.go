// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// UnclassifiedDir is the reserved fallback category for files matching no rule.
// It is also the name of the subdirectory such files are moved into.
const UnclassifiedDir = "未分类文件"

// Category is a named bucket of file extensions and its destination subfolder.
type Category struct {
	Name       string
	Extensions []string // Lower-cased, each starting with "."
}

// ClassificationKind distinguishes a matched category from the fallback.
type ClassificationKind int

const (
	KindUnclassified ClassificationKind = iota
	KindCategory
)

// Classification is the Classifier's verdict for one filename.
type Classification struct {
	Kind     ClassificationKind
	Category string // Empty when Kind is KindUnclassified
}

// Unclassified returns the fallback classification.
func Unclassified() Classification {
	return Classification{Kind: KindUnclassified}
}

// InCategory returns a classification for the named category.
func InCategory(name string) Classification {
	return Classification{Kind: KindCategory, Category: name}
}

// IsUnclassified reports whether no rule matched.
func (c Classification) IsUnclassified() bool {
	return c.Kind == KindUnclassified
}

// DirName returns the subdirectory name the file belongs in.
func (c Classification) DirName() string {
	if c.IsUnclassified() {
		return UnclassifiedDir
	}
	return c.Category
}

// MoveStatus is the per-item result kind of a move attempt.
type MoveStatus string

const (
	MoveMoved   MoveStatus = "moved"
	MoveSkipped MoveStatus = "skipped"
	MoveFailed  MoveStatus = "failed"
)

// MoveOutcome captures what happened to one directory entry during a pass.
type MoveOutcome struct {
	Status     MoveStatus
	SourcePath string
	DestPath   string // Set when Status is MoveMoved (or planned, in dry-run)
	Reason     string // Skip reason or failure code
	Err        error  // Set when Status is MoveFailed
}

// Moved builds a successful outcome.
func Moved(src, dst string) MoveOutcome {
	return MoveOutcome{Status: MoveMoved, SourcePath: src, DestPath: dst}
}

// Skipped builds an outcome for an entry that was intentionally left alone.
func Skipped(src, reason string) MoveOutcome {
	return MoveOutcome{Status: MoveSkipped, SourcePath: src, Reason: reason}
}

// Failed builds an outcome for an entry that could not be moved.
// The entry is left at its original location.
func Failed(src, reason string, err error) MoveOutcome {
	return MoveOutcome{Status: MoveFailed, SourcePath: src, Reason: reason, Err: err}
}

// Failure is one failed item as reported to the user.
type Failure struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// PassSummary captures what happened during a single organize pass.
// It is created fresh per pass and must not be mutated once returned.
type PassSummary struct {
	PassID     string
	Target     string
	FilesMoved int
	Moved      []MoveOutcome
	Skipped    []MoveOutcome
	Failures   []Failure
	ExecutedAt time.Time
	DurationMs int64
	DryRun     bool
}

// Notification returns the user-facing digest of the pass.
func (s *PassSummary) Notification() Notification {
	failures := make([]Failure, len(s.Failures))
	copy(failures, s.Failures)
	return Notification{
		PassID:     s.PassID,
		FilesMoved: s.FilesMoved,
		Failures:   failures,
	}
}

// Notification is emitted after each pass for display by a UI or tray layer.
type Notification struct {
	PassID     string    `json:"pass_id"`
	FilesMoved int       `json:"files_moved"`
	Failures   []Failure `json:"failures"`
}

// MonitorState is the process-wide auto-organize state.
// Only the scheduler's control operations change it.
type MonitorState struct {
	Enabled         bool
	IntervalSeconds int
}

// DefaultIntervalSeconds is the check interval used when none is configured.
const DefaultIntervalSeconds = 30

// Skip reasons and failure codes recorded in MoveOutcome.Reason.
const (
	ReasonHidden          = "hidden"
	ReasonManagedDir      = "managed_directory"
	ReasonDirectory       = "directory"
	ReasonNotRegular      = "not_regular_file"
	ReasonPermission      = "permission_denied"
	ReasonCrossDevice     = "cross_device"
	ReasonSourceVanished  = "source_vanished"
	ReasonCollisionsSpent = "collision_exhausted"
	ReasonDestUnavailable = "destination_unavailable"
	ReasonIOError         = "io_error"
)
