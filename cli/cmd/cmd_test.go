package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/ajscript/pkg"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// withStdin replaces os.Stdin with a pipe carrying content for the rest of
// the test.
func withStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = old
		r.Close()
	})

	go func() {
		defer w.Close()
		io.WriteString(w, content)
	}()
}

func sourceNames(sources []source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.name
	}

	return names
}

func sourceTexts(sources []source) string {
	var sb strings.Builder
	for _, s := range sources {
		sb.WriteString(s.text)
	}

	return sb.String()
}

// TestWithSearchPath tests that flag directories precede the environment.
func TestWithSearchPath(t *testing.T) {
	env := strings.Join([]string{"/env/a", "/env/b"}, string(os.PathListSeparator))
	t.Setenv(pkg.PathEnv(), env)

	got := searchPathFrom(WithSearchPath(t.Context(), []string{"/flag"}))
	want := []string{"/flag", "/env/a", "/env/b"}

	if !slices.Equal(got, want) {
		t.Errorf("search path = %q, want %q", got, want)
	}

	t.Setenv(pkg.PathEnv(), "")

	if got := searchPathFrom(WithSearchPath(t.Context(), nil)); len(got) != 0 {
		t.Errorf("empty search path = %q, want none", got)
	}
}

// TestResolveScript tests lookup of scripts by name through the search
// path.
func TestResolveScript(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(first, "tool"+pkg.Extension), "1;")
	writeFile(t, filepath.Join(second, "tool"+pkg.Extension), "2;")
	writeFile(t, filepath.Join(second, "plain"), "3;")
	direct := writeFile(t, filepath.Join(second, "direct"+pkg.Extension), "4;")

	t.Setenv(pkg.PathEnv(), second)
	ctx := WithSearchPath(t.Context(), []string{first})

	tests := []struct {
		name    string
		script  string
		want    string
		wantErr error
	}{
		{"stdin", "-", "-", nil},
		{"extension appended", "tool", filepath.Join(first, "tool"+pkg.Extension), nil},
		{"exact name", "plain", filepath.Join(second, "plain"), nil},
		{"first directory wins", "tool" + pkg.Extension, filepath.Join(first, "tool"+pkg.Extension), nil},
		{"path used as given", direct, direct, nil},
		{"missing", "nothing", "", ErrScriptNotFound},
		{"missing path not searched", filepath.Join("sub", "tool"), filepath.Join("sub", "tool"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveScript(ctx, tt.script)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("resolveScript(%q) error = %v, want %v", tt.script, err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("resolveScript(%q) = %q, want %q", tt.script, got, tt.want)
			}
		})
	}
}

// TestLoadSourcesEmpty tests that no names load no sources.
func TestLoadSourcesEmpty(t *testing.T) {
	sources, err := loadSources(t.Context(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(sources) != 0 {
		t.Errorf("loadSources(nil) = %v, want none", sources)
	}
}

// TestLoadSourcesDuplicates tests that a file named more than once, under
// any path, is read once.
func TestLoadSourcesDuplicates(t *testing.T) {
	dir := t.TempDir()

	target := writeFile(t, filepath.Join(dir, "real.ajs"), "var a = 1;")
	other := writeFile(t, filepath.Join(dir, "other.ajs"), "var b = 2;")

	link := filepath.Join(dir, "link.ajs")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	relative := filepath.Join(dir, ".", "real.ajs")

	sources, err := loadSources(t.Context(), []string{target, other, link, relative, target})
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{target, other}; !slices.Equal(sourceNames(sources), want) {
		t.Errorf("loaded %q, want %q", sourceNames(sources), want)
	}

	if got, want := sourceTexts(sources), "var a = 1;var b = 2;"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

// TestLoadSourcesStdinLast tests that every "-" collapses to one read of
// stdin placed after the files.
func TestLoadSourcesStdinLast(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "file.ajs"), "file")
	withStdin(t, "stdin")

	sources, err := loadSources(t.Context(), []string{"-", file, "-"})
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{file, "-"}; !slices.Equal(sourceNames(sources), want) {
		t.Errorf("loaded %q, want %q", sourceNames(sources), want)
	}

	if got := sourceTexts(sources); got != "filestdin" {
		t.Errorf("text = %q, want %q", got, "filestdin")
	}
}

// TestLoadSourcesNonexistent tests that a missing script fails the load.
func TestLoadSourcesNonexistent(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "file.ajs"), "file")

	missing := filepath.Join(t.TempDir(), "missing.ajs")

	_, err := loadSources(t.Context(), []string{file, missing})
	if !errors.Is(err, ErrOpenSource) {
		t.Errorf("loadSources() error = %v, want %v", err, ErrOpenSource)
	}
}
