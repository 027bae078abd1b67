//go:build darwin

package infra

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// renameNoReplace renames src to dst with RENAME_EXCL and fails with an
// fs.ErrExist-matching error if dst already exists. Volumes that do not
// support the flag fall back to a plain rename; the caller has already probed dst.
func renameNoReplace(src, dst string) error {
	err := unix.RenamexNp(src, dst, unix.RENAME_EXCL)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ENOTSUP), errors.Is(err, unix.EINVAL):
		return Rename(src, dst)
	case errors.Is(err, unix.EXDEV):
		return &CrossDeviceError{Src: src, Dst: dst, Err: err}
	}
	return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
}
