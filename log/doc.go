// Package log is the structured logger shared by the ajs interpreter and
// its command line, built on [log/slog].
//
// Records carry typed [slog.Attr] values rather than alternating keys and
// values:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.DebugContext(ctx, "parsed",
//		slog.String("source", name),
//		slog.Int("commands", prog.Body.CommandCount()))
//
// # Levels
//
// Below [LevelDebug] sits [LevelTrace], which the parser and evaluator use
// for per-node records. [Levels] and [ParseLevel] give the names accepted
// by --log-level.
//
// # Formats
//
// [FormatJSON] and [FormatText] select the encoding. With [WithPretty],
// text drops its quoting and JSON is indented, both colorized with ANSI
// escapes.
//
// # The Default Logger
//
// Package functions such as [TraceContext] and [WarnContext] write through
// a process-wide logger that [Config] reconfigures. The CLI calls [Config]
// once its flags are parsed, and [Default] hands the result to the
// interpreter.
package log
