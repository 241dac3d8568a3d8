package variant

import (
	"encoding/base64"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/tmplvars/tmpl"
)

func buildConfd() (*tmpl.Registry, tmpl.Matcher) {
	reg := tmpl.NewRegistry(customFunctions()...)
	for _, def := range confdFunctions() {
		reg.RegisterFunction(def)
	}

	return reg, tmpl.NewCompositeMatcher(
		tmpl.NewFixedMatcher(accessors...),
		tmpl.NewRegistryMatcher(reg),
	)
}

// transform builds a definition whose first argument is a value, not a key.
func transform(
	name, desc string,
	params []string,
	fn any,
) tmpl.FunctionDefinition {
	return tmpl.FunctionDefinition{
		Name:        name,
		Description: desc,
		Params:      params,
		Rule:        tmpl.Rule{Kind: tmpl.RuleTransform},
		Render:      func(tmpl.Environment) any { return fn },
	}
}

// utility builds a definition that never contributes dependencies.
func utility(
	name, desc string,
	params []string,
	fn any,
) tmpl.FunctionDefinition {
	return tmpl.FunctionDefinition{
		Name:        name,
		Description: desc,
		Params:      params,
		Rule:        tmpl.Rule{Kind: tmpl.RuleNone},
		Render:      func(tmpl.Environment) any { return fn },
	}
}

func confdFunctions() []tmpl.FunctionDefinition {
	return []tmpl.FunctionDefinition{
		transform("base", "Returns the last element of path",
			[]string{"path"}, path.Base),
		transform("dir", "Returns all but the last element of path",
			[]string{"path"}, path.Dir),
		transform("split", "Splits s into substrings separated by sep",
			[]string{"s", "sep"}, strings.Split),
		transform("toUpper", "Converts s to upper case",
			[]string{"s"}, strings.ToUpper),
		transform("toLower", "Converts s to lower case",
			[]string{"s"}, strings.ToLower),
		transform("replace", "Replaces the first n occurrences of old with new (all when n < 0)",
			[]string{"s", "old", "new", "n"}, strings.Replace),
		transform("contains", "Reports whether substr is within s",
			[]string{"s", "substr"}, strings.Contains),
		transform("trimSuffix", "Returns s without the trailing suffix",
			[]string{"s", "suffix"}, strings.TrimSuffix),
		transform("base64Encode", "Encodes s as standard base64",
			[]string{"s"}, base64Encode),
		transform("base64Decode", "Decodes standard base64 s",
			[]string{"s"}, base64Decode),
		transform("parseBool", "Parses s as a boolean",
			[]string{"s"}, strconv.ParseBool),
		transform("add", "Returns a + b",
			[]string{"a", "b"}, arith(func(a, b int) (int, error) { return a + b, nil })),
		transform("sub", "Returns a - b",
			[]string{"a", "b"}, arith(func(a, b int) (int, error) { return a - b, nil })),
		transform("mul", "Returns a * b",
			[]string{"a", "b"}, arith(func(a, b int) (int, error) { return a * b, nil })),
		transform("div", "Returns a / b",
			[]string{"a", "b"}, arith(div)),
		transform("mod", "Returns a % b",
			[]string{"a", "b"}, arith(mod)),
		utility("map", "Builds a map from alternating keys and values",
			[]string{"key", "value", "..."}, makeMap),
		utility("join", "Joins the elements of list with sep",
			[]string{"list", "sep"}, join),
		utility("datetime", "Returns the current time",
			nil, time.Now),
		utility("reverse", "Returns a reversed copy of list",
			[]string{"list"}, reverse),
		utility("seq", "Returns the integers from first to last inclusive",
			[]string{"first", "last"}, seq),
		utility("atoi", "Parses s as a decimal integer",
			[]string{"s"}, strconv.Atoi),
	}
}

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func base64Decode(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", tmpl.ErrInvalidType.Wrap(err).With(slog.String("want", "base64"))
	}

	return string(b), nil
}

func arith(op func(a, b int) (int, error)) func(a, b any) (int, error) {
	return func(a, b any) (int, error) {
		x, err := toInt(a)
		if err != nil {
			return 0, err
		}

		y, err := toInt(b)
		if err != nil {
			return 0, err
		}

		return op(x, y)
	}
}

func div(a, b int) (int, error) {
	if b == 0 {
		return 0, tmpl.ErrDivideByZero
	}

	return a / b, nil
}

func mod(a, b int) (int, error) {
	if b == 0 {
		return 0, tmpl.ErrDivideByZero
	}

	return a % b, nil
}

func makeMap(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, tmpl.ErrInvalidMap.With(slog.Int("args", len(values)))
	}

	m := make(map[string]any, len(values)/2)

	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, tmpl.ErrInvalidMap.With(slog.Int("position", i+1))
		}

		m[key] = values[i+1]
	}

	return m, nil
}

func join(list any, sep string) (string, error) {
	elems, err := toStrings(list)
	if err != nil {
		return "", err
	}

	return strings.Join(elems, sep), nil
}

func reverse(list any) any {
	switch v := list.(type) {
	case []string:
		r := slices.Clone(v)
		slices.Reverse(r)

		return r
	case []any:
		r := slices.Clone(v)
		slices.Reverse(r)

		return r
	default:
		return list
	}
}

// maxSeq is the most elements seq produces.
const maxSeq = 1 << 16

func seq(first, last any) ([]int, error) {
	a, err := toInt(first)
	if err != nil {
		return nil, err
	}

	b, err := toInt(last)
	if err != nil {
		return nil, err
	}

	if a > b {
		return []int{}, nil
	}

	// b - a overflows to a negative count for extreme bounds.
	n := b - a
	if n < 0 || n >= maxSeq {
		return nil, tmpl.ErrSeqTooLong.With(
			slog.Int("first", a),
			slog.Int("last", b),
			slog.Int("max", maxSeq),
		)
	}

	out := make([]int, 0, n+1)
	for i := a; ; i++ {
		out = append(out, i)
		if i == b {
			break
		}
	}

	return out, nil
}
