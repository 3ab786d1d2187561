// Package cli contains the command line interface for ajs.
//
// # Usage
//
//	ajs [flags] [run] <script> [args...]
//	ajs [flags] eval [-s script]... <expression>
//	ajs [flags] fmt [source|json|yaml|ast] [script]
//	ajs [flags] repl [-s script]...
//	ajs [flags] init [--format ajs|toml|json] [-f]
//
// Run is the default command, so "ajs hello.ajs" runs hello.ajs. A script
// named "-" is read from standard input.
//
// # Global Flags
//
//   - -D, --set NAME=EXPR: define a global before any script runs. EXPR is
//     evaluated in a fresh interpreter, so it may use the built-ins.
//   - --path DIR: search DIR for scripts given without a directory, ahead
//     of the directories listed in $AJSPATH.
//   - --version: print the version and exit.
//
// # Configuration
//
// Flag defaults are read from the configuration directory, where "ajs init"
// writes them. Three formats are recognized, each by its extension:
//
//   - config.json: a JSON object keyed by flag name.
//   - config.toml: a TOML table keyed by flag name.
//   - config.ajs: a script declaring "var config = {...};".
//
// Keys may spell hyphens as underscores, so log_level configures
// --log-level. Command-line flags override configuration. A file that
// cannot be read is logged and ignored.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: include caller information
//   - --log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o ajs .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default: ~/.cache/ajs/pprof)
package cli
