package domain

import (
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" or "~/" in path with home. Other forms,
// such as "~user/x", are returned unchanged, as is everything when home is empty.
func ExpandHome(path, home string) string {
	if home == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	if path == "~" {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
