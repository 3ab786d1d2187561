package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase holds the state shared by both pretty handlers: options, the
// serialized output writer, and attributes accumulated through WithAttrs.
type prettyBase struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func makePrettyBase(w io.Writer, opts *slog.HandlerOptions) prettyBase {
	return prettyBase{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (b prettyBase) enabled(level slog.Level) bool {
	floor := slog.LevelInfo
	if b.opts.Level != nil {
		floor = b.opts.Level.Level()
	}

	return level >= floor
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	prefix := strings.Join(b.groups, ".")
	next := make([]slog.Attr, len(b.attrs), len(b.attrs)+len(attrs))
	copy(next, b.attrs)

	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}

		next = append(next, a)
	}

	b.attrs = next

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name == "" {
		return b
	}

	b.groups = append(b.groups[:len(b.groups):len(b.groups)], name)

	return b
}

// record flattens a record into the ordered list of attributes to render,
// applying ReplaceAttr to the built-in keys and resolving LogValuers.
func (b prettyBase) record(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(b.attrs)+r.NumAttrs())

	add := func(a slog.Attr) {
		if b.opts.ReplaceAttr != nil {
			a = b.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			out = append(out, a)
		}
	}

	if !r.Time.IsZero() {
		add(slog.Time(slog.TimeKey, r.Time))
	}

	add(slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			add(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	out = append(out, slog.String(slog.MessageKey, r.Message))
	out = append(out, b.attrs...)

	prefix := strings.Join(b.groups, ".")

	r.Attrs(func(a slog.Attr) bool {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}

		out = append(out, a)

		return true
	})

	return flatten(out)
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf.WriteByte('\n')

	_, err := b.w.Write(buf.Bytes())

	return err
}

// flatten resolves LogValuers and expands group values into dotted keys.
func flatten(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() != slog.KindGroup {
			out = append(out, a)

			continue
		}

		group := a.Value.Group()
		inner := make([]slog.Attr, len(group))

		for i, g := range group {
			if a.Key != "" {
				g.Key = a.Key + "." + g.Key
			}

			inner[i] = g
		}

		out = append(out, flatten(inner)...)
	}

	return out
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{makePrettyBase(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.record(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(a.Key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')

		writeValue(buf, a.Key, a.Value, false)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler implements a pretty-printed JSON handler for log messages.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{makePrettyBase(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	for i, a := range h.record(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(colorGray)
		buf.WriteString(strconv.Quote(a.Key))
		buf.WriteString(colorReset)
		buf.WriteString(": ")

		writeValue(buf, a.Key, a.Value, true)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

// writeValue renders v with a color chosen by its kind. Strings are quoted
// only when quote is set.
func writeValue(buf *bytes.Buffer, key string, v slog.Value, quote bool) {
	str := func(s string) string {
		if quote {
			return strconv.Quote(s)
		}

		return s
	}

	switch v.Kind() {
	case slog.KindString:
		color := colorCyan
		if key == slog.LevelKey {
			color = levelColor(v.String())
		}

		buf.WriteString(color)
		buf.WriteString(str(v.String()))

	case slog.KindInt64:
		buf.WriteString(colorYellow)
		buf.WriteString(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		buf.WriteString(colorYellow)
		buf.WriteString(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		buf.WriteString(colorYellow)
		buf.WriteString(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(colorGreen)
		} else {
			buf.WriteString(colorRed)
		}

		buf.WriteString(strconv.FormatBool(v.Bool()))

	case slog.KindDuration:
		buf.WriteString(colorMagenta)
		buf.WriteString(str(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(colorBlue)
		buf.WriteString(str(v.Time().Format(time.RFC3339)))

	default:
		if level, ok := v.Any().(slog.Level); ok {
			name := strings.ToUpper(Level(level).String())
			buf.WriteString(levelColor(name))
			buf.WriteString(str(name))

			break
		}

		if v.Any() == nil {
			buf.WriteString(colorGray)
			buf.WriteString("null")

			break
		}

		buf.WriteString(colorCyan)
		buf.WriteString(str(fmt.Sprint(v.Any())))
	}

	buf.WriteString(colorReset)
}

func levelColor(name string) string {
	switch ParseLevel(name) {
	case LevelError:
		return colorRed
	case LevelWarn:
		return colorYellow
	case LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}
