package runtime

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// TypeOf returns the script type name of v.
func TypeOf(v Value) string {
	switch v.(type) {
	case UndefinedType:
		return "undefined"
	case nil:
		return "null"
	case int, float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case Callable:
		return "function"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case UndefinedType, nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	default:
		return true
	}
}

// ToString returns the display form of v.
func ToString(v Value) string {
	switch v := v.(type) {
	case UndefinedType:
		return "undefined"
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatReal(v)
	case *Array:
		return v.Join(",")
	case interface{ String() string }:
		return v.String()
	case Object:
		return "[object Object]"
	default:
		return "<" + TypeOf(v) + ">"
	}
}

func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// ToInt returns v as an int when it is an integer or an integral real.
func ToInt(v Value) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i, true
		}
	}

	return 0, false
}

func toReal(v Value) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func isNumber(v Value) bool {
	switch v.(type) {
	case int, float64:
		return true
	default:
		return false
	}
}

func mismatch(op string, a, b Value) error {
	return ErrTypeMismatch.With(
		slog.String("operator", op),
		slog.String("left", TypeOf(a)),
		slog.String("right", TypeOf(b)),
	)
}

// Add returns a + b. If either operand is a string the result is the
// concatenation of both display forms; otherwise both must be numbers.
func Add(a, b Value) (Value, error) {
	_, as := a.(string)
	_, bs := b.(string)

	if as || bs {
		return ToString(a) + ToString(b), nil
	}

	return arith("+", a, b,
		func(x, y int) (Value, error) { return x + y, nil },
		func(x, y float64) (Value, error) { return x + y, nil },
	)
}

// Subtract returns a - b.
func Subtract(a, b Value) (Value, error) {
	return arith("-", a, b,
		func(x, y int) (Value, error) { return x - y, nil },
		func(x, y float64) (Value, error) { return x - y, nil },
	)
}

// Multiply returns a * b.
func Multiply(a, b Value) (Value, error) {
	return arith("*", a, b,
		func(x, y int) (Value, error) { return x * y, nil },
		func(x, y float64) (Value, error) { return x * y, nil },
	)
}

// Divide returns a / b. Integer division that leaves no remainder stays
// integral; any other quotient is real. A zero divisor is a fault.
func Divide(a, b Value) (Value, error) {
	return arith("/", a, b,
		func(x, y int) (Value, error) {
			if y == 0 {
				return nil, ErrDivideByZero
			}

			if x%y == 0 {
				return x / y, nil
			}

			return float64(x) / float64(y), nil
		},
		func(x, y float64) (Value, error) {
			if y == 0 {
				return nil, ErrDivideByZero
			}

			return x / y, nil
		},
	)
}

// Modulo returns the remainder of a / b with the sign of a.
func Modulo(a, b Value) (Value, error) {
	return arith("%", a, b,
		func(x, y int) (Value, error) {
			if y == 0 {
				return nil, ErrDivideByZero
			}

			return x % y, nil
		},
		func(x, y float64) (Value, error) {
			if y == 0 {
				return nil, ErrDivideByZero
			}

			return math.Mod(x, y), nil
		},
	)
}

// Negate returns -v.
func Negate(v Value) (Value, error) {
	switch v := v.(type) {
	case int:
		return -v, nil
	case float64:
		return -v, nil
	default:
		return nil, ErrTypeMismatch.With(
			slog.String("operator", "-"),
			slog.String("operand", TypeOf(v)),
		)
	}
}

func arith(
	op string, a, b Value,
	ints func(x, y int) (Value, error),
	reals func(x, y float64) (Value, error),
) (Value, error) {
	x, xi := a.(int)
	y, yi := b.(int)

	if xi && yi {
		return ints(x, y)
	}

	fx, okx := toReal(a)
	fy, oky := toReal(b)

	if !okx || !oky {
		return nil, mismatch(op, a, b)
	}

	return reals(fx, fy)
}

// Equal reports loose equality: numbers compare by value across int and
// real, null equals undefined, and objects compare by identity.
func Equal(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		x, _ := toReal(a)
		y, _ := toReal(b)

		return x == y
	}

	if isNullish(a) && isNullish(b) {
		return true
	}

	return StrictEqual(a, b)
}

// StrictEqual reports equality without cross-type conversion other than
// between int and real.
func StrictEqual(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		x, _ := toReal(a)
		y, _ := toReal(b)

		return x == y
	}

	if TypeOf(a) != TypeOf(b) {
		return false
	}

	return a == b
}

func isNullish(v Value) bool {
	return v == nil || v == Undefined
}

// Less reports a < b for two numbers or two strings.
func Less(a, b Value) (bool, error) {
	return relate("<", a, b, func(c int) bool { return c < 0 })
}

// LessEqual reports a <= b for two numbers or two strings.
func LessEqual(a, b Value) (bool, error) {
	return relate("<=", a, b, func(c int) bool { return c <= 0 })
}

// Greater reports a > b for two numbers or two strings.
func Greater(a, b Value) (bool, error) {
	return relate(">", a, b, func(c int) bool { return c > 0 })
}

// GreaterEqual reports a >= b for two numbers or two strings.
func GreaterEqual(a, b Value) (bool, error) {
	return relate(">=", a, b, func(c int) bool { return c >= 0 })
}

// relate orders a and b and applies test to the result. Every relation
// involving NaN is false.
func relate(op string, a, b Value, test func(int) bool) (bool, error) {
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return test(strings.Compare(x, y)), nil
		}
	}

	x, okx := toReal(a)
	y, oky := toReal(b)

	switch {
	case !okx || !oky:
		return false, mismatch(op, a, b)
	case math.IsNaN(x) || math.IsNaN(y):
		return false, nil
	case x < y:
		return test(-1), nil
	case x > y:
		return test(1), nil
	default:
		return test(0), nil
	}
}
