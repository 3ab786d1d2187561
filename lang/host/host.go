// Package host exposes facts about the running system to scripts and binds
// command-line assignments into the global object.
//
// The host object is built once per process and cloned for each caller.
// It is installed as the global "host" and is also the environment seen by
// expressions evaluated through [Binder.Bind].
package host

import (
	"bufio"
	"maps"
	"os"
	"os/user"
	"path/filepath"
	goruntime "runtime"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

//nolint:gochecknoglobals
var (
	infoOnce sync.Once
	info     map[string]any
)

// Info returns a copy of the host environment: platform and target
// triples, hostname, user, shell, plus the cwd function and the file, path
// and mung function groups.
func Info() map[string]any {
	infoOnce.Do(func() {
		info = map[string]any{
			"target":   getTarget().native(),
			"platform": getPlatform().native(),
			"hostname": getHostname(),
			"user":     getUser(),
			"shell":    getShell(),

			"cwd": getCwd,

			"file": map[string]any{
				"exists":    fileExists,
				"isDir":     fileIsDir,
				"isRegular": fileIsRegular,
				"isSymlink": fileIsSymlink,
			},

			"path": map[string]any{
				"abs": pathAbs,
				"cat": pathCat,
				"rel": pathRel,
			},

			"mung": map[string]any{
				"prefix": mungPrefix,
			},
		}
	})

	return maps.Clone(info)
}

// Lookup returns the sorted keys of the group at a dot-separated path in
// the host environment, or nil if path does not name a group. The empty
// path names the top level.
func Lookup(path string) []string {
	var current any = Info()

	if path != "" {
		for seg := range strings.SplitSeq(path, ".") {
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}

			if current, ok = m[seg]; !ok {
				return nil
			}
		}
	}

	m, ok := current.(map[string]any)
	if !ok {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

// target identifies an operating system and instruction set architecture.
type target struct {
	OS   string
	Arch string
}

func (t target) native() map[string]any {
	return map[string]any{"os": t.OS, "arch": t.Arch}
}

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	o, ok := os.LookupEnv("GOHOSTOS")
	if !ok {
		if o, ok = os.LookupEnv("GOOS"); !ok {
			o = goruntime.GOOS
		}
	}

	a, ok := os.LookupEnv("GOHOSTARCH")
	if !ok {
		if a, ok = os.LookupEnv("GOARCH"); !ok {
			a = goruntime.GOARCH
		}
	}

	return target{OS: o, Arch: a}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getUser() map[string]any {
	u, err := user.Current()
	if err != nil {
		return nil
	}

	return map[string]any{
		"name":     u.Name,
		"username": u.Username,
		"uid":      u.Uid,
		"gid":      u.Gid,
		"home":     u.HomeDir,
	}
}

// getShell returns $SHELL, falling back to the login shell recorded for the
// current user in /etc/passwd.
func getShell() string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	u, err := user.Current()
	if err != nil || u.Username == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == u.Username {
			return e[6]
		}
	}

	return ""
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	fi, err := os.Stat(path)

	return err == nil && fi.IsDir()
}

func fileIsRegular(path string) bool {
	fi, err := os.Stat(path)

	return err == nil && fi.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	fi, err := os.Lstat(path)

	return err == nil && fi.Mode()&os.ModeSymlink != 0
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string { return filepath.Join(elem...) }

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

// mungPrefix returns the list-separated value of subject with prefix
// items placed in front.
func mungPrefix(subject string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}
