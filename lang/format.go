package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/ajscript/lang/ast"
)

// FormatText writes an indented outline of the tree. Each node is written
// as its kind and position followed by its fields, one per line.
func FormatText(_ context.Context, w io.Writer, n ast.Node, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	var sb strings.Builder

	writeOutline(&sb, ToMap(n), 0, indent)

	_, err := io.WriteString(w, sb.String())

	return err
}

func writeOutline(sb *strings.Builder, node map[string]any, depth, indent int) {
	pad := strings.Repeat(" ", depth*indent)

	fmt.Fprintf(sb, "%s%v %v\n", pad, node["kind"], node["pos"])

	for _, key := range slices.Sorted(maps.Keys(node)) {
		if key == "kind" || key == "pos" {
			continue
		}

		field := strings.Repeat(" ", (depth+1)*indent) + key + ":"

		switch v := node[key].(type) {
		case map[string]any:
			sb.WriteString(field + "\n")
			writeOutline(sb, v, depth+2, indent)
		case []any:
			if len(v) == 0 {
				sb.WriteString(field + " []\n")

				continue
			}

			sb.WriteString(field + "\n")

			for _, e := range v {
				if child, ok := e.(map[string]any); ok {
					writeOutline(sb, child, depth+2, indent)
				}
			}
		case nil:
			sb.WriteString(field + " null\n")
		case string, []string:
			fmt.Fprintf(sb, "%s %q\n", field, v)
		default:
			fmt.Fprintf(sb, "%s %v\n", field, v)
		}
	}
}

// FormatJSON writes the tree as JSON. A positive indent pretty-prints.
func FormatJSON(_ context.Context, w io.Writer, n ast.Node, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToMap(n), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToMap(n))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the tree as YAML. A positive indent selects block
// style with that indentation; otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, n ast.Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToMap(n), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
