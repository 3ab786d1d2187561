package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// source is one script loaded ahead of a command.
type source struct {
	name string
	text string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// loadSources reads the named scripts in order. A file named more than
// once, under any path, is read only the first time. All occurrences of "-"
// are replaced with a single read of stdin placed last.
func loadSources(ctx context.Context, names []string) ([]source, error) {
	var (
		loaded   []source
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		path, err := resolveScript(ctx, name)
		if err != nil {
			return nil, err
		}

		if !markUnique(path, seen) {
			continue
		}

		text, err := readSource(ctx, path)
		if err != nil {
			return nil, err
		}

		loaded = append(loaded, source{name: path, text: text})
	}

	if hasStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, ErrOpenSource.With(slog.String("script", stdinSource)).Wrap(err)
		}

		loaded = append(loaded, source{name: stdinSource, text: string(data)})
	}

	return loaded, nil
}

// markUnique records the file at path in seen and reports whether it was
// not already there. Paths that cannot be identified are always unique.
func markUnique(path string, seen map[fileKey]struct{}) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return true
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return true
	}

	key, ok := makeFileKey(info)
	if !ok {
		return true
	}

	if _, exists := seen[key]; exists {
		return false
	}

	seen[key] = struct{}{}

	return true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
