package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/infra"
	"github.com/eliteGoblin/focusd/desk_org/internal/rules"
)

// mockMover implements domain.Mover for testing
type mockMover struct {
	failFor map[string]string // base name -> failure reason
	calls   []string
}

func (m *mockMover) ResolveAndMove(src, destDir string) domain.MoveOutcome {
	m.calls = append(m.calls, filepath.Base(src))
	if reason, ok := m.failFor[filepath.Base(src)]; ok {
		return domain.Failed(src, reason, errors.New("mock failure"))
	}
	return domain.Moved(src, filepath.Join(destDir, filepath.Base(src)))
}

func (m *mockMover) ResolveDestination(src, destDir string) (string, error) {
	return filepath.Join(destDir, filepath.Base(src)), nil
}

func newTestOrganizer() *OrganizerImpl {
	return NewOrganizer(infra.NewFileSystemManager(), infra.NewMover(zap.NewNop()), zap.NewNop())
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0o644))
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// TestRunPass_OrganizesDesktop verifies the full scan-classify-move cycle
func TestRunPass_OrganizesDesktop(t *testing.T) {
	target := t.TempDir()
	touch(t, filepath.Join(target, "photo.JPG"))
	touch(t, filepath.Join(target, "notes.md"))
	touch(t, filepath.Join(target, "archive.zip"))
	touch(t, filepath.Join(target, "unknown.xyz"))
	touch(t, filepath.Join(target, rules.CategoryImages, "existing.png"))

	summary, err := newTestOrganizer().RunPass(context.Background(), target, rules.DefaultTable())

	require.NoError(t, err)
	assert.Equal(t, 4, summary.FilesMoved)
	assert.Empty(t, summary.Failures)
	assert.NotEmpty(t, summary.PassID)
	assert.False(t, summary.DryRun)

	assert.FileExists(t, filepath.Join(target, rules.CategoryImages, "photo.JPG"))
	assert.FileExists(t, filepath.Join(target, rules.CategoryDocuments, "notes.md"))
	assert.FileExists(t, filepath.Join(target, rules.CategoryCompressed, "archive.zip"))
	assert.FileExists(t, filepath.Join(target, domain.UnclassifiedDir, "unknown.xyz"))
	assert.FileExists(t, filepath.Join(target, rules.CategoryImages, "existing.png"))

	// Every category folder plus the Unclassified folder exists, nothing else.
	assert.ElementsMatch(t, append(rules.DefaultTable().CategoryNames(), domain.UnclassifiedDir),
		listNames(t, target))
}

// TestRunPass_SecondPassIsNoOp verifies idempotence
func TestRunPass_SecondPassIsNoOp(t *testing.T) {
	target := t.TempDir()
	touch(t, filepath.Join(target, "a.txt"))
	touch(t, filepath.Join(target, "b.mp3"))
	org := newTestOrganizer()
	table := rules.DefaultTable()

	first, err := org.RunPass(context.Background(), target, table)
	require.NoError(t, err)
	require.Equal(t, 2, first.FilesMoved)

	second, err := org.RunPass(context.Background(), target, table)

	require.NoError(t, err)
	assert.Equal(t, 0, second.FilesMoved)
	assert.Empty(t, second.Failures)
	assert.NotEqual(t, first.PassID, second.PassID)
	assert.FileExists(t, filepath.Join(target, rules.CategoryDocuments, "a.txt"))
	assert.FileExists(t, filepath.Join(target, rules.CategoryAudio, "b.mp3"))
}

// TestRunPass_Collision verifies an existing destination name is never overwritten
func TestRunPass_Collision(t *testing.T) {
	target := t.TempDir()
	touch(t, filepath.Join(target, rules.CategoryDocuments, "report.pdf"))
	require.NoError(t, os.WriteFile(filepath.Join(target, "report.pdf"), []byte("new"), 0o644))

	summary, err := newTestOrganizer().RunPass(context.Background(), target, rules.DefaultTable())

	require.NoError(t, err)
	require.Equal(t, 1, summary.FilesMoved)
	assert.Equal(t, filepath.Join(target, rules.CategoryDocuments, "report_1.pdf"), summary.Moved[0].DestPath)
	old, err := os.ReadFile(filepath.Join(target, rules.CategoryDocuments, "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", string(old))
}

// TestRunPass_InvalidTarget verifies nothing is touched for a bad scan target
func TestRunPass_InvalidTarget(t *testing.T) {
	parent := t.TempDir()
	file := filepath.Join(parent, "not-a-dir.txt")
	touch(t, file)

	tests := []struct {
		name   string
		target string
	}{
		{"empty", ""},
		{"missing", filepath.Join(parent, "missing")},
		{"regular file", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := newTestOrganizer().RunPass(context.Background(), tt.target, rules.DefaultTable())

			assert.Nil(t, summary)
			assert.ErrorIs(t, err, domain.ErrInvalidScanTarget)
		})
	}
	assert.Equal(t, []string{"not-a-dir.txt"}, listNames(t, parent))
}

// TestRunPass_CanceledContext verifies a canceled pass does nothing
func TestRunPass_CanceledContext(t *testing.T) {
	target := t.TempDir()
	touch(t, filepath.Join(target, "a.txt"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestOrganizer().RunPass(ctx, target, rules.DefaultTable())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a.txt"}, listNames(t, target))
}

// TestRunPass_SkipsDirectoriesAndHiddenEntries verifies the directory policy
func TestRunPass_SkipsDirectoriesAndHiddenEntries(t *testing.T) {
	target := t.TempDir()
	touch(t, filepath.Join(target, ".hidden.txt"))
	touch(t, filepath.Join(target, "project", "main.go"))
	touch(t, filepath.Join(target, ".config", "x.json"))
	touch(t, filepath.Join(target, "real.pdf"))
	require.NoError(t, os.Symlink(filepath.Join(target, "project"), filepath.Join(target, "project-link")))

	summary, err := newTestOrganizer().RunPass(context.Background(), target, rules.DefaultTable())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesMoved)
	assert.FileExists(t, filepath.Join(target, ".hidden.txt"))
	assert.DirExists(t, filepath.Join(target, "project"))
	assert.FileExists(t, filepath.Join(target, "project", "main.go"))
	assert.DirExists(t, filepath.Join(target, ".config"))

	reasons := make(map[string]string)
	for _, s := range summary.Skipped {
		reasons[filepath.Base(s.SourcePath)] = s.Reason
	}
	assert.Equal(t, domain.ReasonHidden, reasons[".hidden.txt"])
	assert.Equal(t, domain.ReasonHidden, reasons[".config"])
	assert.Equal(t, domain.ReasonDirectory, reasons["project"])
	assert.Equal(t, domain.ReasonDirectory, reasons["project-link"])
	assert.Equal(t, domain.ReasonManagedDir, reasons[domain.UnclassifiedDir])
}

// TestRunPass_SymlinkToFileIsMoved verifies file symlinks are moved as links
func TestRunPass_SymlinkToFileIsMoved(t *testing.T) {
	target := t.TempDir()
	outside := filepath.Join(t.TempDir(), "data.txt")
	touch(t, outside)
	require.NoError(t, os.Symlink(outside, filepath.Join(target, "data-link.txt")))

	summary, err := newTestOrganizer().RunPass(context.Background(), target, rules.DefaultTable())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesMoved)
	info, err := os.Lstat(filepath.Join(target, rules.CategoryDocuments, "data-link.txt"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
	assert.FileExists(t, outside)
}

// TestRunPass_CategoryFolderBlocked verifies a failed folder only fails its own items
func TestRunPass_CategoryFolderBlocked(t *testing.T) {
	target := t.TempDir()
	// A regular file occupies the Documents folder name.
	touch(t, filepath.Join(target, rules.CategoryDocuments))
	touch(t, filepath.Join(target, "notes.md"))
	touch(t, filepath.Join(target, "song.mp3"))

	summary, err := newTestOrganizer().RunPass(context.Background(), target, rules.DefaultTable())

	require.NoError(t, err)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, filepath.Join(target, "notes.md"), summary.Failures[0].Item)
	assert.Equal(t, domain.ReasonDestUnavailable, summary.Failures[0].Reason)
	assert.FileExists(t, filepath.Join(target, "notes.md"))
	assert.FileExists(t, filepath.Join(target, rules.CategoryAudio, "song.mp3"))
}

// TestRunPass_PerItemFailuresDoNotAbort verifies the pass continues past failures
func TestRunPass_PerItemFailuresDoNotAbort(t *testing.T) {
	target := t.TempDir()
	touch(t, filepath.Join(target, "a.txt"))
	touch(t, filepath.Join(target, "b.txt"))
	touch(t, filepath.Join(target, "c.txt"))
	mover := &mockMover{failFor: map[string]string{"b.txt": domain.ReasonPermission}}
	org := NewOrganizer(infra.NewFileSystemManager(), mover, zap.NewNop())

	summary, err := org.RunPass(context.Background(), target, rules.DefaultTable())

	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, mover.calls)
	assert.Equal(t, 2, summary.FilesMoved)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, domain.ReasonPermission, summary.Failures[0].Reason)
	assert.Equal(t, "mock failure", summary.Failures[0].Detail)

	note := summary.Notification()
	assert.Equal(t, summary.PassID, note.PassID)
	assert.Equal(t, 2, note.FilesMoved)
	assert.Len(t, note.Failures, 1)
}

// TestRunPass_EmptyRuleTable verifies everything lands in Unclassified
func TestRunPass_EmptyRuleTable(t *testing.T) {
	target := t.TempDir()
	touch(t, filepath.Join(target, "photo.png"))
	touch(t, filepath.Join(target, "README"))

	summary, err := newTestOrganizer().RunPass(context.Background(), target, rules.NewTable())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.FilesMoved)
	assert.Equal(t, []string{domain.UnclassifiedDir}, listNames(t, target))
	assert.FileExists(t, filepath.Join(target, domain.UnclassifiedDir, "README"))
}

// TestPlanPass_TouchesNothing verifies dry-run planning
func TestPlanPass_TouchesNothing(t *testing.T) {
	target := t.TempDir()
	touch(t, filepath.Join(target, "clip.mp4"))
	touch(t, filepath.Join(target, "tool.exe"))

	summary, err := newTestOrganizer().PlanPass(context.Background(), target, rules.DefaultTable())

	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 2, summary.FilesMoved)
	assert.ElementsMatch(t, []string{"clip.mp4", "tool.exe"}, listNames(t, target))

	dests := make(map[string]string)
	for _, m := range summary.Moved {
		dests[filepath.Base(m.SourcePath)] = m.DestPath
	}
	assert.Equal(t, filepath.Join(target, rules.CategoryVideos, "clip.mp4"), dests["clip.mp4"])
	assert.Equal(t, filepath.Join(target, rules.CategoryPrograms, "tool.exe"), dests["tool.exe"])
}

// TestValidateScanTarget verifies target validation without side effects
func TestValidateScanTarget(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	touch(t, file)

	assert.NoError(t, ValidateScanTarget(os.Stat, dir))
	assert.ErrorIs(t, ValidateScanTarget(os.Stat, "  "), domain.ErrInvalidScanTarget)
	assert.ErrorIs(t, ValidateScanTarget(os.Stat, file), domain.ErrInvalidScanTarget)
	assert.ErrorIs(t, ValidateScanTarget(os.Stat, filepath.Join(dir, "nope")), domain.ErrInvalidScanTarget)
}
