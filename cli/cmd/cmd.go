package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/pkg"
)

// Kong variable names shared between the CLI and its commands.
const (
	// ConfigIdentifier names the kong variable holding the configuration
	// file path, without extension.
	ConfigIdentifier = "configFile"
	// CacheIdentifier names the kong variable holding the cache directory.
	CacheIdentifier = "cacheDir"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

type (
	contextKey    struct{}
	optionsKey    struct{}
	outputKey     struct{}
	searchPathKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOptions returns a new context.Context carrying options passed to
// every parse and run performed by a command.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, append(optionsFrom(ctx), opts...))
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts[:len(opts):len(opts)]
}

// WithOutput returns a new context.Context whose commands write to w
// instead of stdout. Script output from write and writeln goes to w too.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// langOptions returns the options for a parse or run performed by a
// command, followed by extra.
func langOptions(ctx context.Context, extra ...lang.Option) []lang.Option {
	opts := append(optionsFrom(ctx), lang.WithOutput(outputFrom(ctx)))

	return append(opts, extra...)
}

// WithSearchPath returns a new context.Context whose script search path is
// dirs followed by the directories listed in the path environment variable
// (see [pkg.PathEnv]).
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(pkg.PathEnv())),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()

	return context.WithValue(ctx, searchPathKey{}, filepath.SplitList(list))
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// resolveScript returns the file that name refers to. A name containing a
// path separator, or naming an existing file, is used as given. Otherwise
// each directory of the search path is tried in order, first with name
// itself and then with the script extension appended.
func resolveScript(ctx context.Context, name string) (string, error) {
	if name == stdinSource {
		return name, nil
	}

	if strings.ContainsRune(name, filepath.Separator) || isFile(name) {
		return name, nil
	}

	candidates := []string{name}
	if filepath.Ext(name) != pkg.Extension {
		candidates = append(candidates, name+pkg.Extension)
	}

	dirs := searchPathFrom(ctx)

	for _, dir := range dirs {
		for _, c := range candidates {
			if path := filepath.Join(dir, c); isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrScriptNotFound.With(
		slog.String("script", name),
		slog.Any("search_path", dirs),
	)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// openSource opens the script named by name, or stdin for "-". The caller
// closes the returned reader.
func openSource(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := resolveScript(ctx, name)
	if err != nil {
		return nil, err
	}

	if path == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrOpenSource.With(slog.String("path", path)).Wrap(err)
	}

	return file, nil
}

// readSource returns the contents of the script named by name.
func readSource(ctx context.Context, name string) (string, error) {
	r, err := openSource(ctx, name)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", ErrOpenSource.With(slog.String("script", name)).Wrap(err)
	}

	return string(data), nil
}
