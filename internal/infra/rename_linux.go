//go:build linux

package infra

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// renameNoReplace renames src to dst and fails with an fs.ErrExist-matching
// error if dst already exists. Filesystems without RENAME_NOREPLACE fall back
// to a plain rename; the caller has already probed dst.
func renameNoReplace(src, dst string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dst, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOSYS), errors.Is(err, unix.ENOTSUP):
		return Rename(src, dst)
	case errors.Is(err, unix.EXDEV):
		return &CrossDeviceError{Src: src, Dst: dst, Err: err}
	}
	return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
}
