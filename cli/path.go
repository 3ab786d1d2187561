package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/ajscript/pkg"
)

// baseConfig is the base name of the configuration files. Each supported
// format appends its own extension.
const baseConfig = "config"

var defaultDirMode os.FileMode = 0o700

// configBase returns the configuration file path without an extension.
func configBase() string {
	return filepath.Join(pkg.ConfigDir(), baseConfig)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
