package infra

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRename_MarksEXDEV(t *testing.T) {
	old := renameFunc
	renameFunc = func(s, d string) error {
		return &os.LinkError{Op: "rename", Old: s, New: d, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { renameFunc = old })

	err := Rename("/a", "/b")

	require.Error(t, err)
	assert.True(t, IsCrossDevice(err))
	assert.ErrorIs(t, err, syscall.EXDEV)
}

func TestRename_PassesOtherErrorsThrough(t *testing.T) {
	old := renameFunc
	boom := errors.New("boom")
	renameFunc = func(string, string) error { return boom }
	t.Cleanup(func() { renameFunc = old })

	err := Rename("/a", "/b")

	assert.ErrorIs(t, err, boom)
	assert.False(t, IsCrossDevice(err))
}

func TestRenameNoReplace_RefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	err := renameNoReplace(src, dst)

	// Platforms without an exclusive rename fall back to a replacing one.
	if err == nil {
		t.Skip("platform rename replaces existing files")
	}
	assert.ErrorIs(t, err, os.ErrExist)
	assert.Equal(t, "old", readFile(t, dst))
	assert.Equal(t, "new", readFile(t, src))
}

func TestRenameNoReplace_Moves(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeFile(t, src, "new")

	require.NoError(t, renameNoReplace(src, dst))

	assert.NoFileExists(t, src)
	assert.Equal(t, "new", readFile(t, dst))
}
