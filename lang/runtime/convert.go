package runtime

import (
	"maps"
	"math"
	"math/big"
	"slices"
)

// FromNative converts a decoded Go value into a script value. Integer
// kinds become int, other numbers float64, slices arrays, and string-keyed
// maps objects with sorted property order. Values that are already script
// values pass through unchanged.
func FromNative(v any) Value {
	switch v := v.(type) {
	case nil:
		return nil
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v) //nolint:gosec
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v) //nolint:gosec
	case float32:
		return float64(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int(v)
		}

		return v
	case *big.Int:
		if v.IsInt64() {
			return int(v.Int64())
		}

		f, _ := new(big.Float).SetInt(v).Float64()

		return f
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			elems[i] = FromNative(e)
		}

		return NewArray(elems...)
	case []string:
		elems := make([]Value, len(v))
		for i, e := range v {
			elems[i] = e
		}

		return NewArray(elems...)
	case map[string]any:
		obj := NewObject(nil)
		for _, k := range slices.Sorted(maps.Keys(v)) {
			obj.SetValue(k, FromNative(v[k]))
		}

		return obj
	case map[string]string:
		obj := NewObject(nil)
		for _, k := range slices.Sorted(maps.Keys(v)) {
			obj.SetValue(k, v[k])
		}

		return obj
	default:
		return v
	}
}

// ToNative converts a script value into plain Go data suitable for
// encoding: arrays become []any, other objects map[string]any, and
// undefined becomes nil. Callables are rendered by their display form.
func ToNative(v Value) any {
	switch v := v.(type) {
	case UndefinedType:
		return nil
	case *Array:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = ToNative(e)
		}

		return out
	case *StringObject:
		return v.value
	case Callable:
		return ToString(v)
	case Object:
		out := make(map[string]any)
		for _, name := range v.GetNames() {
			out[name] = ToNative(v.GetValue(name))
		}

		return out
	default:
		return v
	}
}
