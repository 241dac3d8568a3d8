package tmpl

import (
	"encoding/json"
	"path"
	"strings"
)

// testRegistry registers one function of each extraction category.
func testRegistry() *Registry {
	return NewRegistry(
		FunctionDefinition{
			Name:   "getv",
			Params: []string{"key", "[default]"},
			Rule:   KeyRule(2),
			Render: func(env Environment) any {
				return func(key string, v ...string) string {
					if s, ok := env[key].(string); ok && s != "" {
						return s
					}

					if len(v) > 0 {
						return v[0]
					}

					return ""
				}
			},
		},
		FunctionDefinition{
			Name: "exists",
			Rule: KeyRule(0),
			Render: func(env Environment) any {
				return func(key string) bool {
					_, ok := env[key]

					return ok
				}
			},
		},
		FunctionDefinition{
			Name: "get",
			Rule: KeyRule(0),
			Render: func(env Environment) any {
				return func(key string) (any, error) {
					v, ok := env[key]
					if !ok {
						return nil, ErrKeyNotFound.Wrap(nil)
					}

					return v, nil
				}
			},
		},
		FunctionDefinition{
			Name: "json",
			Rule: KeyRule(0),
			Render: func(env Environment) any {
				return func(key string) (map[string]any, error) {
					s, ok := env[key].(string)
					if !ok {
						return nil, ErrKeyNotFound
					}

					var m map[string]any
					if err := json.Unmarshal([]byte(s), &m); err != nil {
						return nil, ErrInvalidJSON.Wrap(err)
					}

					return m, nil
				}
			},
		},
		FunctionDefinition{
			Name:   "toUpper",
			Rule:   Rule{Kind: RuleTransform},
			Render: func(Environment) any { return strings.ToUpper },
		},
		FunctionDefinition{
			Name:   "base",
			Rule:   Rule{Kind: RuleTransform},
			Render: func(Environment) any { return path.Base },
		},
		FunctionDefinition{
			Name: "replace",
			Rule: Rule{Kind: RuleTransform},
			Render: func(Environment) any {
				return func(s, old, repl string, n int) string {
					return strings.Replace(s, old, repl, n)
				}
			},
		},
		FunctionDefinition{
			Name: "join",
			Rule: Rule{Kind: RuleNone},
			Render: func(Environment) any {
				return strings.Join
			},
		},
	)
}

func testExtractor(opts ...Option) *Extractor {
	reg := testRegistry()

	return NewExtractor(reg, NewCompositeMatcher(
		NewFixedMatcher("exists", "get", "getv"),
		NewRegistryMatcher(reg),
	), opts...)
}

func strptr(s string) *string { return &s }
