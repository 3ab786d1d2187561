// Package cmd implements the ajs subcommands: run, eval, fmt, init and
// repl.
//
// Commands receive their shared state through the context passed by kong:
// the parsed kong.Context ([WithContext]), the options used for every parse
// and run ([WithOptions]), and the script search path ([WithSearchPath]).
package cmd
