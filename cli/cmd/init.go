package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/log"
	"github.com/ardnew/ajscript/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// ConfigVariable is the name of the script variable holding configuration
// in a script-format configuration file.
const ConfigVariable = "config"

// ConfigFormats lists the supported configuration file formats. The format
// name is also the file extension.
var ConfigFormats = []string{"ajs", "toml", "json"}

// Init generates a configuration file with current flag values.
type Init struct {
	Force  bool   `help:"Overwrite existing configuration file" short:"f"`
	Format string `default:"ajs" enum:"ajs,toml,json" help:"Configuration file format" short:"F"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	base, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	confPath := base + "." + i.Format

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = writeConfig(ctx, file, i.Format, flagValues(ktx))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.String("format", i.Format),
	)

	return nil
}

// writeConfig encodes values to w in the given format.
func writeConfig(ctx context.Context, w io.Writer, format string, values map[string]any) error {
	var err error

	switch format {
	case "toml":
		err = toml.NewEncoder(w).Encode(values)

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", defaultConfigIndent))
		err = enc.Encode(values)

	default:
		err = lang.FormatSource(ctx, w, configProgram(values), defaultConfigIndent)
	}

	if err != nil {
		return ErrEncodeConfig.With(slog.String("format", format)).Wrap(err)
	}

	return nil
}

// configProgram returns a program declaring one variable holding values
// as an object literal.
func configProgram(values map[string]any) *ast.Program {
	keys := slices.Sorted(maps.Keys(values))

	lit := &ast.ObjectLiteral{Keys: keys, Values: make([]ast.Expression, len(keys))}
	for i, k := range keys {
		lit.Values[i] = literalOf(values[k])
	}

	return &ast.Program{
		Body: &ast.Composite{Commands: []ast.Command{
			&ast.SetLocalVariable{Name: ConfigVariable, Value: lit},
		}},
		FrameSize: 1,
		Names:     []string{ConfigVariable},
	}
}

func literalOf(v any) ast.Expression {
	if list, ok := v.([]any); ok {
		elems := make([]ast.Expression, len(list))
		for i, e := range list {
			elems[i] = literalOf(e)
		}

		return &ast.ArrayLiteral{Elements: elems}
	}

	return &ast.Constant{Value: v}
}

// flagValues returns the current value of each configurable flag, keyed by
// flag name with hyphens replaced by underscores. Unset flags are omitted.
func flagValues(ktx *kong.Context) map[string]any {
	ignore := []string{"help", "version", profile.Tag}
	values := make(map[string]any)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			values[strings.ReplaceAll(flag.Name, "-", "_")] = v
		}
	}

	return values
}

// configValue converts a flag value to a bool, int, float64, string, or
// []any of those, or nil if the flag is unset.
func configValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case bool:
		return v
	case string:
		if v == "" {
			return nil
		}

		return v
	case fmt.Stringer:
		return configValue(v.String())
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()) //nolint:gosec
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return configValue(rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil
		}

		list := make([]any, 0, rv.Len())
		for i := range rv.Len() {
			if e := configValue(rv.Index(i).Interface()); e != nil {
				list = append(list, e)
			}
		}

		return list
	default:
		return configValue(fmt.Sprint(v))
	}
}
