package lang

import (
	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/runtime"
)

// ToMap converts a syntax tree into plain maps and slices for encoding.
// Every node becomes a map with a "kind" key naming its type and a "pos"
// key holding its line:column; optional children that are absent are
// omitted.
//
//nolint:cyclop,gocyclo,funlen
func ToMap(n ast.Node) map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{
		"kind": ast.Kind(n),
		"pos":  n.Pos().String(),
	}

	switch n := n.(type) {
	case *ast.Program:
		m["frameSize"] = n.FrameSize
		m["names"] = n.Names
		m["body"] = commands(n.Body.Commands)

	case *ast.Constant:
		m["value"] = constant(n.Value)

	case *ast.LocalVariable:
		m["name"] = n.Name
		m["slot"] = n.Slot

		if n.Depth > 0 {
			m["depth"] = n.Depth
		}

	case *ast.GlobalVariable:
		m["name"] = n.Name

	case *ast.ArithmeticUnary:
		m["operator"] = n.Operator.String()
		m["operand"] = ToMap(n.Operand)

	case *ast.ArithmeticBinary:
		m["operator"] = n.Operator.String()
		m["left"] = ToMap(n.Left)
		m["right"] = ToMap(n.Right)

	case *ast.Compare:
		m["operator"] = n.Operator.String()
		m["left"] = ToMap(n.Left)
		m["right"] = ToMap(n.Right)

	case *ast.And:
		m["left"] = ToMap(n.Left)
		m["right"] = ToMap(n.Right)

	case *ast.Or:
		m["left"] = ToMap(n.Left)
		m["right"] = ToMap(n.Right)

	case *ast.Not:
		m["operand"] = ToMap(n.Operand)

	case *ast.Increment:
		text, _ := n.Operator.MarshalText()
		m["operator"] = string(text)
		m["target"] = ToMap(n.Target)

	case *ast.Dot:
		m["target"] = ToMap(n.Target)
		m["name"] = n.Name

		if n.Call {
			m["arguments"] = expressions(n.Arguments)
		}

	case *ast.Index:
		m["target"] = ToMap(n.Target)
		m["arguments"] = expressions(n.Arguments)

	case *ast.Invoke:
		m["callee"] = ToMap(n.Callee)
		m["arguments"] = expressions(n.Arguments)

	case *ast.New:
		m["constructor"] = ToMap(n.Constructor)
		m["arguments"] = expressions(n.Arguments)

	case *ast.This:

	case *ast.ArrayLiteral:
		m["elements"] = expressions(n.Elements)

	case *ast.ObjectLiteral:
		m["keys"] = n.Keys
		m["values"] = expressions(n.Values)

	case *ast.Function:
		if n.Name != "" {
			m["name"] = n.Name
		}

		m["parameters"] = n.Parameters
		m["frameSize"] = n.FrameSize
		m["body"] = commands(n.Body.Commands)

	case *ast.SetLocalVariable:
		m["name"] = n.Name
		m["slot"] = n.Slot
		m["value"] = ToMap(n.Value)

	case *ast.Set:
		if n.Operator != ast.Assign {
			m["operator"] = n.Operator.String()
		}

		m["target"] = ToMap(n.Target)
		m["value"] = ToMap(n.Value)

	case *ast.SetArray:
		if n.Operator != ast.Assign {
			m["operator"] = n.Operator.String()
		}

		m["target"] = ToMap(n.Target)
		m["arguments"] = expressions(n.Arguments)
		m["value"] = ToMap(n.Value)

	case *ast.Return:
		if n.Value != nil {
			m["value"] = ToMap(n.Value)
		}

	case *ast.If:
		m["condition"] = ToMap(n.Condition)
		m["then"] = ToMap(n.Then)

		if n.Else != nil {
			m["else"] = ToMap(n.Else)
		}

	case *ast.While:
		m["condition"] = ToMap(n.Condition)
		m["body"] = ToMap(n.Body)

	case *ast.For:
		if n.Init != nil {
			m["init"] = ToMap(n.Init)
		}

		if n.Condition != nil {
			m["condition"] = ToMap(n.Condition)
		}

		if n.End != nil {
			m["end"] = ToMap(n.End)
		}

		m["body"] = ToMap(n.Body)

	case *ast.ForEach:
		m["name"] = n.Name
		m["slot"] = n.Slot
		m["iterable"] = ToMap(n.Iterable)
		m["body"] = ToMap(n.Body)

	case *ast.Composite:
		m["commands"] = commands(n.Commands)

	case *ast.ExpressionCommand:
		m["expression"] = ToMap(n.Expression)

	case *ast.Break, *ast.Continue:

	case *ast.DefineFunction:
		m["name"] = n.Name

		if n.Local {
			m["slot"] = n.Slot
		}

		m["function"] = ToMap(n.Function)
	}

	return m
}

func expressions(list []ast.Expression) []any {
	out := make([]any, len(list))
	for i, e := range list {
		out[i] = ToMap(e)
	}

	return out
}

func commands(list []ast.Command) []any {
	out := make([]any, len(list))
	for i, c := range list {
		out[i] = ToMap(c)
	}

	return out
}

// constant renders a literal for data dumps. Undefined has no JSON or YAML
// spelling, so it is written as its name.
func constant(v runtime.Value) any {
	if v == runtime.Undefined {
		return runtime.Undefined.String()
	}

	return v
}
