package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/ardnew/ajscript/cli/cmd"
	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/log"
)

// config implements [kong.Resolver] over a flat map of flag values. Keys
// are flag names, with hyphens optionally written as underscores.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A flag absent from the map resolves
// to nil, leaving its default in place.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// makeConfig converts decoded configuration values to the forms kong
// parses. Numbers become strings, arrays keep their elements converted,
// and nested tables are dropped since no flag takes one.
func makeConfig(values map[string]any) config {
	c := make(config, len(values))

	for key, value := range values {
		if v, ok := flagValue(value); ok {
			c[key] = v
		}
	}

	return c
}

func flagValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return nil, false
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []any:
		out := make([]any, 0, len(v))

		for _, elem := range v {
			if e, ok := flagValue(elem); ok {
				out = append(out, e)
			}
		}

		return out, true
	default:
		return v, true
	}
}

// loadTOML is a [kong.ConfigurationLoader] for TOML configuration files.
//
// Example:
//
//	log_level = "debug"
//	log_pretty = false
//	set = ["greeting='hi'"]
//
// A file that cannot be decoded is reported and ignored.
func loadTOML(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var values map[string]any

		if _, err := toml.NewDecoder(r).Decode(&values); err != nil {
			log.WarnContext(ctx, "ignoring configuration",
				slog.String("format", "toml"),
				slog.Any("error", err),
			)

			return config{}, nil
		}

		return makeConfig(values), nil
	}
}

// loadScript is a [kong.ConfigurationLoader] for configuration written as
// a script. The script runs in a fresh session and its top-level "config"
// variable supplies the flag values:
//
//	var config = {
//	  log_level: 'debug',
//	  path: [host.path.cat(env('HOME'), 'scripts')]
//	};
//
// Because the file is a script, values may be computed from the host
// environment. A script that fails, or that leaves config unset or not an
// object, is reported and ignored.
func loadScript(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		ignore := func(attrs ...slog.Attr) (kong.Resolver, error) {
			log.WarnContext(ctx, "ignoring configuration",
				append([]slog.Attr{slog.String("format", "ajs")}, attrs...)...)

			return config{}, nil
		}

		src, err := io.ReadAll(r)
		if err != nil {
			return ignore(slog.Any("error", err))
		}

		session, err := lang.NewSession(ctx, lang.WithOutput(io.Discard))
		if err != nil {
			return ignore(slog.Any("error", err))
		}

		if _, err := session.Exec(ctx, string(src)); err != nil {
			return ignore(slog.Any("error", err))
		}

		value, ok := session.Value(cmd.ConfigVariable)
		if !ok {
			return ignore(slog.String("reason", cmd.ConfigVariable+" undefined"))
		}

		values, ok := runtime.ToNative(value).(map[string]any)
		if !ok {
			return ignore(
				slog.String("reason", cmd.ConfigVariable+" is not an object"),
				slog.String("type", runtime.TypeOf(value)),
			)
		}

		return makeConfig(values), nil
	}
}
