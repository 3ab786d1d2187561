package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/lang/lexer"
	"github.com/ardnew/ajscript/lang/parser"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/log"
	"github.com/ardnew/ajscript/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-run-retry loop. It
// writes a draft to a temp file, opens the user's editor, and runs the
// result in the session. On a syntax error the user is prompted to re-edit;
// declining returns [ErrEditDeclined] and leaves the session unchanged.
type editCommand struct {
	session *lang.Session
	ctxFunc func() context.Context
	draft   string
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	// Set by Run.
	source string
	result runtime.Value
	ran    bool
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-run-retry loop. Clearing the file cancels the edit.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*"+pkg.Extension)
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	content := c.draft

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		result, err := c.session.Exec(ctx, content)

		c.logger.TraceContext(
			ctx,
			"editor run attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", err == nil),
		)

		if !isSyntaxError(err) {
			// Runtime faults are reported at the prompt like any other
			// input; only syntax errors reopen the editor.
			c.source, c.result, c.ran = content, result, true

			return err
		}

		fmt.Fprintf(c.stderr, "\n%s\n", describeError(err))
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}
	}
}

// isSyntaxError reports whether err was raised while reading source rather
// than while running it.
func isSyntaxError(err error) bool {
	var (
		syntax  *parser.Error
		lexical *lexer.Error
	)

	return errors.As(err, &syntax) || errors.As(err, &lexical)
}

// runEditor launches the user's editor on the given file path and waits
// for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...) //nolint:gosec
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
