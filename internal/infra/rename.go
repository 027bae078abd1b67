package infra

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// renameFunc is swapped in tests to simulate EXDEV and friends.
var renameFunc = os.Rename

// CrossDeviceError reports a rename that failed because source and
// destination live on different filesystems. Files are never copied
// and deleted to work around it.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device move %q -> %q: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is (or wraps) a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename wraps os.Rename and marks EXDEV failures as CrossDeviceError.
// It replaces an existing destination, like os.Rename.
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

func isEXDEV(err error) bool {
	if errors.Is(err, syscall.EXDEV) {
		return true
	}
	var le *os.LinkError
	return errors.As(err, &le) && errors.Is(le.Err, syscall.EXDEV)
}
