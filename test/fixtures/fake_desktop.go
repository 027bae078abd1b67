// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"os"
	"path/filepath"
	"sort"
)

// FakeDesktop creates a cluttered directory mimicking a user's desktop.
type FakeDesktop struct {
	Dir string
}

// NewFakeDesktop creates a new fake desktop generator rooted at dir.
func NewFakeDesktop(dir string) *FakeDesktop {
	return &FakeDesktop{Dir: dir}
}

// Create writes loose files (content = their own name) and the given
// pre-existing subdirectories.
func (f *FakeDesktop) Create(files []string, dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(f.Dir, d), 0755); err != nil {
			return err
		}
	}
	for _, name := range files {
		if err := f.Drop(name); err != nil {
			return err
		}
	}
	return nil
}

// Drop writes a single file, creating parents as needed.
func (f *FakeDesktop) Drop(name string) error {
	path := filepath.Join(f.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(name), 0644)
}

// Has reports whether rel exists under the desktop.
func (f *FakeDesktop) Has(rel string) bool {
	_, err := os.Lstat(filepath.Join(f.Dir, rel))
	return err == nil
}

// Content returns the content of rel, or "" when unreadable.
func (f *FakeDesktop) Content(rel string) string {
	data, err := os.ReadFile(filepath.Join(f.Dir, rel))
	if err != nil {
		return ""
	}
	return string(data)
}

// Entries returns the sorted names directly under dir (relative to the desktop).
func (f *FakeDesktop) Entries(dir string) []string {
	entries, err := os.ReadDir(filepath.Join(f.Dir, dir))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// LooseFiles returns the regular files left directly on the desktop.
func (f *FakeDesktop) LooseFiles() []string {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names
}
