package repl

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/tmplvars/tmpl"
)

// builtinParams lists the parameters of the text/template predefined
// functions.
var builtinParams = map[string][]string{
	"and":      {"arg", "...arg"},
	"or":       {"arg", "...arg"},
	"not":      {"arg"},
	"len":      {"item"},
	"index":    {"item", "...indices"},
	"slice":    {"item", "...indices"},
	"print":    {"...args"},
	"printf":   {"format", "...args"},
	"println":  {"...args"},
	"html":     {"...args"},
	"js":       {"...args"},
	"urlquery": {"...args"},
	"call":     {"fn", "...args"},
	"eq":       {"arg1", "...arg"},
	"ne":       {"arg1", "arg2"},
	"lt":       {"arg1", "arg2"},
	"le":       {"arg1", "arg2"},
	"gt":       {"arg1", "arg2"},
	"ge":       {"arg1", "arg2"},
}

// builtinNames returns the names of the text/template predefined functions.
func builtinNames() []string {
	names := make([]string, 0, len(builtinParams))
	for name := range builtinParams {
		names = append(names, name)
	}

	return names
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the template command under the cursor.
type functionCall struct {
	name     string // function identifier
	argIndex int    // 0-based index of the argument at the cursor
	inCall   bool   // cursor is past the identifier of a command
}

// actionStart returns the offset just past the "{{" (and any trim marker)
// opening the action that contains cursor, or -1 outside of actions.
func actionStart(input string, cursor int) int {
	open := strings.LastIndex(input[:cursor], "{{")
	if open < 0 || strings.Contains(input[open:cursor], "}}") {
		return -1
	}

	start := open + 2
	if strings.HasPrefix(input[start:cursor], "- ") {
		start += 2
	}

	return start
}

// commandStart returns the offset where the innermost command containing
// cursor begins. A command starts after the action delimiter, an opening
// parenthesis or a pipe.
func commandStart(input string, from, cursor int) int {
	stack := []int{from}

	for i := from; i < cursor; i++ {
		switch input[i] {
		case '"', '`', '\'':
			i = skipQuoted(input, i, cursor)
		case '(':
			stack = append(stack, i+1)
		case ')':
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case '|':
			stack[len(stack)-1] = i + 1
		}
	}

	return stack[len(stack)-1]
}

// skipQuoted returns the offset of the quote closing the literal opened at
// input[i], or limit-1 when the literal is unterminated before limit.
func skipQuoted(input string, i, limit int) int {
	q := input[i]

	for j := i + 1; j < limit; j++ {
		switch {
		case input[j] == '\\' && q != '`':
			j++
		case input[j] == q:
			return j
		}
	}

	return limit - 1
}

// commandTokens splits a command prefix into its operands. Quoted literals
// and parenthesized pipelines are single operands.
func commandTokens(s string) []string {
	var (
		tokens []string
		start  = -1
		depth  = 0
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '"' || c == '`' || c == '\'':
			if start < 0 {
				start = i
			}

			i = skipQuoted(s, i, len(s))

		case c == '(':
			if start < 0 {
				start = i
			}

			depth++

		case c == ')':
			depth--

		case depth <= 0 && unicode.IsSpace(rune(c)):
			if start >= 0 {
				tokens = append(tokens, s[start:i])
				start = -1
			}

			depth = 0

		case start < 0:
			start = i
		}
	}

	if start >= 0 {
		tokens = append(tokens, s[start:])
	}

	return tokens
}

// detectFunctionCall reports the function whose arguments the cursor is in.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	from := actionStart(input, cursor)
	if from < 0 {
		return functionCall{}
	}

	prefix := input[commandStart(input, from, cursor):cursor]

	tokens := commandTokens(prefix)
	if len(tokens) == 0 || !isIdentifier(tokens[0]) {
		return functionCall{}
	}

	argIndex := len(tokens) - 2
	if strings.TrimRightFunc(prefix, unicode.IsSpace) != prefix {
		argIndex++
	}

	if argIndex < 0 {
		return functionCall{}
	}

	return functionCall{name: tokens[0], argIndex: argIndex, inCall: true}
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}

	return s != ""
}

// getSignature returns the parameters of the named function, looked up in
// reg and then among the predefined functions.
func getSignature(reg *tmpl.Registry, name string) (params []string, ok bool) {
	if def, found := reg.GetFunction(name); found {
		return def.Params, true
	}

	params, ok = builtinParams[name]

	return params, ok
}

// renderSignatureHint renders "name param..." with the parameter at
// argIndex highlighted. A variadic parameter ("...") stays highlighted for
// every later argument.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))

	for i, p := range params {
		b.WriteString(signatureStyle.Render(" "))

		variadic := strings.HasPrefix(p, "...")
		if argIndex == i || (variadic && argIndex >= i) {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	return b.String()
}
