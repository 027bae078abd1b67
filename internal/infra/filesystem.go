// Package infra implements infrastructure concerns (filesystem, moves, locks, notifications).
package infra

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
)

// FileSystemManagerImpl implements domain.FileSystemManager on the local disk.
type FileSystemManagerImpl struct {
	homeDir string
}

// NewFileSystemManager creates a new filesystem manager.
func NewFileSystemManager() *FileSystemManagerImpl {
	home, _ := os.UserHomeDir()
	return &FileSystemManagerImpl{homeDir: home}
}

// NewFileSystemManagerWithHome creates a filesystem manager with custom home (for testing).
func NewFileSystemManagerWithHome(home string) *FileSystemManagerImpl {
	return &FileSystemManagerImpl{homeDir: home}
}

// Stat returns file info for path, following symlinks.
func (fm *FileSystemManagerImpl) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(fm.ExpandHome(path))
}

// Exists checks if a path exists. A dangling symlink counts as existing,
// since its name is still taken.
func (fm *FileSystemManagerImpl) Exists(path string) bool {
	_, err := os.Lstat(fm.ExpandHome(path))
	return err == nil
}

// MkdirAll creates path and any missing parents.
func (fm *FileSystemManagerImpl) MkdirAll(path string) error {
	return os.MkdirAll(fm.ExpandHome(path), 0o755)
}

// ReadDir returns the direct entries of dir sorted by filename.
func (fm *FileSystemManagerImpl) ReadDir(dir string) ([]fs.DirEntry, error) {
	return os.ReadDir(fm.ExpandHome(dir))
}

// ExpandHome expands ~ to the user's home directory.
func (fm *FileSystemManagerImpl) ExpandHome(path string) string {
	return domain.ExpandHome(path, fm.homeDir)
}

// ExpandPath expands ~ against the current user's home directory and
// returns the cleaned absolute path. Empty input stays empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = domain.ExpandHome(path, home)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %q: %w", path, err)
	}
	return abs, nil
}

// Ensure FileSystemManagerImpl implements domain.FileSystemManager.
var _ domain.FileSystemManager = (*FileSystemManagerImpl)(nil)
