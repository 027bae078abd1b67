package daemon

import "os"

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0o644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
