package cli

import (
	"os"
	"path/filepath"
)

// baseConfig is the base name of the configuration file and the name of the
// mapping within it that holds flag defaults.
const baseConfig = "config"

// defaultDirMode is the permission mode of created directories.
const defaultDirMode os.FileMode = 0o700

// dirs locates the per-user directories the CLI reads and writes.
type dirs struct {
	config string
	cache  string
}

// configPath joins elem onto the configuration directory.
func (d dirs) configPath(elem ...string) string {
	return filepath.Join(append([]string{d.config}, elem...)...)
}

// mkdirAll creates the configuration and cache directories.
func (d dirs) mkdirAll() error {
	for _, dir := range []string{d.config, d.cache} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
