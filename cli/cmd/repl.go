package cmd

import (
	"bytes"
	"context"

	"github.com/ardnew/ajscript/cli/cmd/repl"
	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/log"
)

// Repl starts an interactive session.
type Repl struct {
	Source []string `help:"Scripts to run before the first prompt, or '-' for stdin." name:"source" short:"s"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// Script output is collected and printed above the prompt.
	var out bytes.Buffer

	session, err := lang.NewSession(ctx, langOptions(ctx, lang.WithOutput(&out))...)
	if err != nil {
		return err
	}

	if err := preload(ctx, session, r.Source); err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, session, &out, cacheDir, log.Default())
}
