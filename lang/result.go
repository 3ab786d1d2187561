package lang

import (
	"strconv"
	"strings"

	"github.com/ardnew/ajscript/lang/runtime"
)

// FormatResult renders an evaluation result for display. Strings are
// quoted and structured values are written as literals, so the output of
// a scalar or plain data value reads back as the same value.
func FormatResult(v runtime.Value) string {
	var sb strings.Builder

	formatResult(&sb, v, make(map[runtime.Object]bool))

	return sb.String()
}

func formatResult(sb *strings.Builder, v runtime.Value, seen map[runtime.Object]bool) {
	switch val := v.(type) {
	case string:
		sb.WriteString(strconv.Quote(val))

	case *runtime.Array:
		if seen[val] {
			sb.WriteString("[...]")

			return
		}

		seen[val] = true
		defer delete(seen, val)

		sb.WriteByte('[')

		for i, e := range val.Elements() {
			if i > 0 {
				sb.WriteString(", ")
			}

			formatResult(sb, e, seen)
		}

		sb.WriteByte(']')

	case runtime.Callable:
		sb.WriteString(runtime.ToString(val))

	case *runtime.DynamicObject:
		if seen[val] {
			sb.WriteString("{...}")

			return
		}

		seen[val] = true
		defer delete(seen, val)

		names := val.GetNames()
		if len(names) == 0 {
			sb.WriteString("{}")

			return
		}

		sb.WriteString("{ ")

		for i, name := range names {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(objectKey(name))
			sb.WriteString(": ")
			formatResult(sb, val.GetValue(name), seen)
		}

		sb.WriteString(" }")

	case float64:
		sb.WriteString(literal(val))

	default:
		sb.WriteString(runtime.ToString(val))
	}
}
