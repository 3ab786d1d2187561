package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base prefix string used to construct the path to the
// configuration directory and the prefix for environment variable identifiers.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//   - test binaries ("*.test"): replaced with [Name]
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		if ext == ".test" {
			return Name
		}

		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name, // default output from dlv
			regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			return Name
		}

		return id
	},
)

// PathEnv returns the name of the environment variable holding the list of
// directories searched for script sources, for example "AJSPATH".
func PathEnv() string {
	return strings.ToUpper(Prefix()) + "PATH"
}

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
	},
)

// CacheDir returns the cache directory path used for transient files.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
	},
)

// userDir resolves a per-user base directory, falling back to a hidden
// directory under $HOME and then to the working directory.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err == nil {
		return dir
	}

	dir, err = os.UserHomeDir()
	if err == nil {
		return filepath.Join(dir, hidden)
	}

	dir, err = os.Getwd()
	if err != nil {
		return "."
	}

	return dir
}
