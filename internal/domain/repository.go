package domain

import (
	"context"
	"io/fs"
)

// FileSystemManager handles the directory operations a pass needs.
type FileSystemManager interface {
	// Stat returns file info for path (following symlinks).
	Stat(path string) (fs.FileInfo, error)

	// Exists checks if a path exists without following a final symlink.
	Exists(path string) bool

	// MkdirAll creates a directory and parents; no error if it already exists.
	MkdirAll(path string) error

	// ReadDir returns the direct entries of dir sorted by name.
	ReadDir(dir string) ([]fs.DirEntry, error)

	// ExpandHome expands ~ to the user's home directory.
	ExpandHome(path string) string
}

// RuleSet is the read-only view of the rule table used during a pass.
type RuleSet interface {
	// CategoryNames returns category names in registration order.
	CategoryNames() []string

	// CategoryFor returns the first category registering ext.
	CategoryFor(ext string) (string, bool)
}

// Classifier maps a filename to its destination category.
type Classifier interface {
	Classify(filename string) Classification
}

// Mover relocates one file into a destination directory.
// Implementations never create directories and never retry.
type Mover interface {
	// ResolveAndMove moves sourcePath into destDir, picking a free name
	// (name_1.ext, name_2.ext, ...) when the plain name is taken.
	ResolveAndMove(sourcePath, destDir string) MoveOutcome

	// ResolveDestination returns the path ResolveAndMove would use, without moving.
	ResolveDestination(sourcePath, destDir string) (string, error)
}

// Organizer runs one complete scan-classify-move cycle over a scan target.
type Organizer interface {
	// RunPass organizes target once. It fails only when the target is invalid;
	// per-item failures are recorded in the summary.
	RunPass(ctx context.Context, target string, rules RuleSet) (*PassSummary, error)

	// PlanPass reports what RunPass would do without touching the filesystem.
	PlanPass(ctx context.Context, target string, rules RuleSet) (*PassSummary, error)
}

// Notifier receives the digest of every completed pass.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// PassGate serializes passes on the same scan target across processes.
type PassGate interface {
	// Acquire blocks until the gate for target is held or ctx is done.
	Acquire(ctx context.Context, target string) (release func(), err error)
}
