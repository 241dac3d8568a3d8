// Package environ builds template environments from YAML or JSON documents,
// literal key=value assignments and expr-lang expressions.
package environ

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmplvars/tmpl"
)

var (
	ErrDecode     = tmpl.NewError("decode environment")
	ErrEncode     = tmpl.NewError("encode environment")
	ErrAssignment = tmpl.NewError("invalid assignment (want key=value)")
	ErrEval       = tmpl.NewError("evaluate expression")
)

// Decode reads a YAML document (JSON included) whose top level is a mapping.
// An empty document yields an empty environment.
func Decode(ctx context.Context, r io.Reader) (tmpl.Environment, error) {
	data, err := tmpl.ReadAll(r)
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	return DecodeString(ctx, data)
}

// DecodeString is [Decode] for a document already in memory. A null
// document is empty; any other non-mapping document is an error.
func DecodeString(ctx context.Context, data string) (tmpl.Environment, error) {
	env := tmpl.Environment{}

	if strings.TrimSpace(data) == "" {
		return env, nil
	}

	var doc any
	if err := yaml.UnmarshalContext(ctx, []byte(data), &doc); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	switch doc := doc.(type) {
	case nil:
	case map[string]any:
		maps.Copy(env, doc)
	default:
		return nil, ErrDecode.With(slog.String("type", fmt.Sprintf("%T", doc)))
	}

	return env, nil
}

// Encode writes env to w as a YAML mapping.
func Encode(ctx context.Context, w io.Writer, env tmpl.Environment) error {
	if len(env) == 0 {
		return nil
	}

	data, err := yaml.MarshalContext(ctx, map[string]any(env), yaml.Indent(2))
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	if _, err := w.Write(data); err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}

// Merge copies the top-level keys of each src into dst in order, so later
// sources win. A nil dst is allocated.
func Merge(dst tmpl.Environment, srcs ...tmpl.Environment) tmpl.Environment {
	if dst == nil {
		dst = tmpl.Environment{}
	}

	for _, src := range srcs {
		maps.Copy(dst, src)
	}

	return dst
}

// ParseAssignment splits "key=value" at the first '='. The key is trimmed
// and must not be empty; the value is kept verbatim.
func ParseAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)

	if !ok || key == "" {
		return "", "", ErrAssignment.With(slog.String("assignment", s))
	}

	return key, value, nil
}

// Set assigns the literal string value of a "key=value" assignment.
func Set(env tmpl.Environment, assignment string) error {
	key, value, err := ParseAssignment(assignment)
	if err != nil {
		return err
	}

	env[key] = value

	return nil
}

// Eval evaluates the expression of a "key=expr" assignment against env and
// assigns the result.
func Eval(env tmpl.Environment, assignment string) error {
	key, src, err := ParseAssignment(assignment)
	if err != nil {
		return err
	}

	v, err := Evaluate(src, env)
	if err != nil {
		return err
	}

	env[key] = v

	return nil
}

// Evaluate runs the expr-lang expression src with env as its variables.
func Evaluate(src string, env tmpl.Environment) (any, error) {
	if env == nil {
		env = tmpl.Environment{}
	}

	v, err := expr.Eval(src, map[string]any(env))
	if err != nil {
		return nil, ErrEval.Wrap(err).With(slog.String("expr", src))
	}

	return v, nil
}

// Keys returns the dotted paths of every key in env, descending into nested
// mappings, in no particular order.
func Keys(env tmpl.Environment) []string {
	var keys []string

	var visit func(prefix string, m map[string]any)

	visit = func(prefix string, m map[string]any) {
		for k, v := range m {
			path := prefix + k
			keys = append(keys, path)

			if child, ok := v.(map[string]any); ok {
				visit(path+".", child)
			}
		}
	}

	visit("", env)

	return keys
}
