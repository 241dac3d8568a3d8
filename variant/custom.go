package variant

import (
	"encoding/json"
	"log/slog"

	"github.com/ardnew/tmplvars/tmpl"
)

// accessors are recognized even if their registration is replaced.
//
//nolint:gochecknoglobals
var accessors = []string{"exists", "get", "getv", "jsonv"}

func buildCustom() (*tmpl.Registry, tmpl.Matcher) {
	reg := tmpl.NewRegistry(customFunctions()...)

	return reg, tmpl.NewCompositeMatcher(
		tmpl.NewFixedMatcher(accessors...),
		tmpl.NewRegistryMatcher(reg),
	)
}

func customFunctions() []tmpl.FunctionDefinition {
	return []tmpl.FunctionDefinition{
		{
			Name:        "getv",
			Description: "Returns the value of key, or default when it is absent or empty",
			Params:      []string{"key", "[default]"},
			Rule:        tmpl.KeyRule(2),
			Render:      renderGetv,
		},
		{
			Name:        "exists",
			Description: "Reports whether key is set",
			Params:      []string{"key"},
			Rule:        tmpl.KeyRule(0),
			Render:      renderExists,
		},
		{
			Name:        "get",
			Description: "Returns the value of key, failing when it is absent",
			Params:      []string{"key"},
			Rule:        tmpl.KeyRule(0),
			Render:      renderGet,
		},
		{
			Name:        "jsonv",
			Description: "Parses the JSON object stored at key",
			Params:      []string{"key"},
			Rule:        tmpl.KeyRule(0),
			Render:      renderJSONObject,
		},
		{
			Name:        "json",
			Description: "Parses the JSON object stored at key",
			Params:      []string{"key"},
			Rule:        tmpl.KeyRule(0),
			Render:      renderJSONObject,
		},
		{
			Name:        "jsonArray",
			Description: "Parses the JSON array stored at key",
			Params:      []string{"key"},
			Rule:        tmpl.KeyRule(0),
			Render:      renderJSONArray,
		},
	}
}

func renderGetv(env tmpl.Environment) any {
	return func(key string, v ...string) string {
		if val, ok := env.Lookup(key); ok {
			if s, ok := val.(string); ok && s != "" {
				return s
			}
		}

		if len(v) > 0 {
			return v[0]
		}

		return ""
	}
}

func renderExists(env tmpl.Environment) any {
	return func(key string) bool {
		_, ok := env.Lookup(key)

		return ok
	}
}

func renderGet(env tmpl.Environment) any {
	return func(key string) (any, error) {
		val, ok := env.Lookup(key)
		if !ok {
			return nil, tmpl.ErrKeyNotFound.With(slog.String("key", key))
		}

		return val, nil
	}
}

func renderJSONObject(env tmpl.Environment) any {
	return func(key string) (map[string]any, error) {
		var m map[string]any
		if err := decodeJSON(env, key, &m); err != nil {
			return nil, err
		}

		if m == nil {
			return nil, tmpl.ErrInvalidJSON.With(
				slog.String("key", key), slog.String("want", "object"))
		}

		return m, nil
	}
}

func renderJSONArray(env tmpl.Environment) any {
	return func(key string) ([]any, error) {
		var a []any
		if err := decodeJSON(env, key, &a); err != nil {
			return nil, err
		}

		if a == nil {
			return nil, tmpl.ErrInvalidJSON.With(
				slog.String("key", key), slog.String("want", "array"))
		}

		return a, nil
	}
}

func decodeJSON(env tmpl.Environment, key string, v any) error {
	val, ok := env.Lookup(key)
	if !ok {
		return tmpl.ErrKeyNotFound.With(slog.String("key", key))
	}

	s, ok := val.(string)
	if !ok {
		return tmpl.ErrInvalidType.With(
			slog.String("key", key), slog.String("want", "string"))
	}

	if err := json.Unmarshal([]byte(s), v); err != nil {
		return tmpl.ErrInvalidJSON.Wrap(err).With(slog.String("key", key))
	}

	return nil
}
