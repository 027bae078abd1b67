//go:build !linux && !darwin

package infra

// renameNoReplace falls back to a plain rename; the caller has already
// probed dst, and passes on one target are serialized.
func renameNoReplace(src, dst string) error {
	return Rename(src, dst)
}
