package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/lang/builtin"
	"github.com/ardnew/ajscript/lang/eval"
	"github.com/ardnew/ajscript/lang/runtime"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // callee path (e.g., "host.path.cat")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

func isNameRune(r rune) bool {
	return r == '.' || r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. It returns the callee path, current
// argument index, and whether we're inside a call.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward from cursor for the unmatched opening paren.
	open := -1
	depth := 0

scan:
	for i := cursor; i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')', ']':
			depth++
		case '(', '[':
			if depth > 0 {
				depth--

				continue
			}

			if r == '(' {
				open = i
			}

			break scan
		}
	}

	if open == -1 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isNameRune(r) {
			break
		}

		start -= size
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" {
		return functionCall{}
	}

	// Count arguments by counting commas at depth 0 in the parameter list.
	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// getSignature returns the signature of the function the session resolves
// name to, with its parameter names. Script functions report their
// declared parameters; native built-ins their documented ones. Returns an
// empty signature when name is not a function.
func getSignature(
	session *lang.Session,
	name string,
) (signature string, params []string) {
	v, ok := resolvePath(session, name)
	if !ok {
		return "", nil
	}

	switch fn := v.(type) {
	case *eval.Closure:
		params = fn.Parameters()
	case *runtime.NativeFunction:
		if params, ok = builtin.Parameters(fn.Name()); !ok {
			params = []string{"...args"}
		}
	default:
		return "", nil
	}

	return formatSignature(name, params), params
}

func formatSignature(name string, params []string) string {
	return name + "(" + strings.Join(params, ", ") + ")"
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// A variadic parameter stays current for every later argument.
		isVariadic := strings.HasPrefix(param, "...")

		if (isVariadic && currentArgIdx >= i) ||
			(!isVariadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
